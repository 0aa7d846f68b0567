package graphql

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/persistorai/citegraph/internal/lookup"
	"github.com/persistorai/citegraph/internal/models"
)

// GraphQL error code constants.
const (
	codeBadRequest          = "BAD_REQUEST"
	codeNotFound            = "NOT_FOUND"
	codeUndefinedMetric     = "UNDEFINED_METRIC"
	codeUpstreamError       = "UPSTREAM_ERROR"
	codeTimeout             = "TIMEOUT"
	codePersistenceDisabled = "PERSISTENCE_DISABLED"
	codeInternalError       = "INTERNAL_ERROR"
)

// argError marks a malformed field argument.
type argError struct {
	msg string
}

func (e *argError) Error() string { return e.msg }

// gqlErr maps a service error to a GraphQL error with an extension code.
// Unknown errors are logged and reported without detail.
func gqlErr(log *logrus.Logger, path ast.Path, err error) *gqlerror.Error {
	var ae *argError

	switch {
	case errors.As(err, &ae),
		errors.Is(err, models.ErrInvalidDepth),
		errors.Is(err, models.ErrInvalidDocumentID),
		errors.Is(err, models.ErrEmptySources),
		errors.Is(err, models.ErrUnknownKind):
		return gqlErrWithCode(path, err.Error(), codeBadRequest)
	case errors.Is(err, models.ErrReferenceSetNotFound), errors.Is(err, models.ErrRunNotFound):
		return gqlErrWithCode(path, err.Error(), codeNotFound)
	case errors.Is(err, models.ErrUndefinedMetric):
		return gqlErrWithCode(path, err.Error(), codeUndefinedMetric)
	case errors.Is(err, models.ErrPersistenceDisabled):
		return gqlErrWithCode(path, err.Error(), codePersistenceDisabled)
	case errors.Is(err, lookup.ErrCircuitOpen):
		return gqlErrWithCode(path, "citation lookup temporarily unavailable", codeUpstreamError)
	case errors.Is(err, context.DeadlineExceeded):
		return gqlErrWithCode(path, "citation lookup timed out", codeTimeout)
	case errors.Is(err, models.ErrLookupFailed):
		log.WithError(err).WithField("path", path.String()).Warn("graphql field")
		return gqlErrWithCode(path, "citation lookup failed", codeUpstreamError)
	default:
		log.WithError(err).WithField("path", path.String()).Error("graphql field")
		return gqlErrWithCode(path, "internal server error", codeInternalError)
	}
}

// gqlErrWithCode creates a GraphQL error with an extension code on path.
func gqlErrWithCode(path ast.Path, message, code string) *gqlerror.Error {
	return &gqlerror.Error{
		Message: message,
		Path:    path,
		Extensions: map[string]any{
			"code": code,
		},
	}
}

// asList turns a parse or coercion error into a response error list.
func asList(err error) gqlerror.List {
	var list gqlerror.List
	if errors.As(err, &list) {
		return list
	}

	var ge *gqlerror.Error
	if errors.As(err, &ge) {
		return gqlerror.List{ge}
	}

	return gqlerror.List{gqlErrWithCode(nil, err.Error(), codeBadRequest)}
}
