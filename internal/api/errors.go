package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/httputil"
	"github.com/persistorai/citegraph/internal/lookup"
	"github.com/persistorai/citegraph/internal/metrics"
	"github.com/persistorai/citegraph/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest      = "invalid_request"
	ErrCodeValidationError     = "validation_error"
	ErrCodeNotFound            = "not_found"
	ErrCodeUndefinedMetric     = "undefined_metric"
	ErrCodeUpstreamError       = "upstream_error"
	ErrCodeTimeout             = "timeout"
	ErrCodePersistenceDisabled = "persistence_disabled"
	ErrCodeInternalError       = "internal_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondServiceError maps a service error to a status code. Unexpected
// errors are logged under op and reported without detail.
func respondServiceError(c *gin.Context, log *logrus.Logger, op string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidDepth),
		errors.Is(err, models.ErrInvalidDocumentID),
		errors.Is(err, models.ErrEmptySources),
		errors.Is(err, models.ErrUnknownKind):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	case errors.Is(err, models.ErrReferenceSetNotFound), errors.Is(err, models.ErrRunNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, models.ErrUndefinedMetric):
		respondError(c, http.StatusUnprocessableEntity, ErrCodeUndefinedMetric, err.Error())
	case errors.Is(err, models.ErrPersistenceDisabled):
		respondError(c, http.StatusNotImplemented, ErrCodePersistenceDisabled, err.Error())
	case errors.Is(err, lookup.ErrCircuitOpen):
		c.Header("Retry-After", strconv.Itoa(int(lookup.CircuitCooldown.Seconds())))
		respondError(c, http.StatusServiceUnavailable, ErrCodeUpstreamError, "citation lookup temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, ErrCodeTimeout, "citation lookup timed out")
	case errors.Is(err, models.ErrLookupFailed):
		log.WithError(err).WithField("request_id", c.GetString("request_id")).Warn(op)
		respondError(c, http.StatusBadGateway, ErrCodeUpstreamError, "citation lookup failed")
	default:
		log.WithError(err).WithField("request_id", c.GetString("request_id")).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
