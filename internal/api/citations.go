package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/models"
)

// CitationHandler serves expansion, scoring and filtering endpoints.
type CitationHandler struct {
	svc CitationService
	log *logrus.Logger
}

// NewCitationHandler creates a CitationHandler with the given service and logger.
func NewCitationHandler(svc CitationService, log *logrus.Logger) *CitationHandler {
	return &CitationHandler{svc: svc, log: log}
}

// documentsResponse is the JSON payload of set-valued endpoints.
type documentsResponse struct {
	Source    string              `json:"source,omitempty"`
	Documents []models.DocumentID `json:"documents"`
	Count     int                 `json:"count"`
}

func newDocumentsResponse(source string, set models.DocumentSet) documentsResponse {
	return documentsResponse{Source: source, Documents: set.Sorted(), Count: len(set)}
}

// Get handles GET /api/v1/citations/:id?cites=&cited=.
func (h *CitationHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := models.ValidateDocumentID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	cites, err := parseDepth("cites", c.Query("cites"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	cited, err := parseDepth("cited", c.Query("cited"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	docs, err := h.svc.Citations(c.Request.Context(), id, models.DepthBudget{Cites: cites, Cited: cited})
	if err != nil {
		respondServiceError(c, h.log, "looking up citations", err)
		return
	}

	c.JSON(http.StatusOK, newDocumentsResponse(id, docs))
}

// Expand handles POST /api/v1/citations/expand.
func (h *CitationHandler) Expand(c *gin.Context) {
	var req models.ExpandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	res, err := h.svc.Expand(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, "expanding citations", err)
		return
	}

	status := http.StatusOK
	if res.RunID != nil {
		status = http.StatusAccepted
	}

	c.JSON(status, res)
}

// Collect handles POST /api/v1/citations/collect.
func (h *CitationHandler) Collect(c *gin.Context) {
	var req models.CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	docs, err := h.svc.Collect(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, "collecting citations", err)
		return
	}

	c.JSON(http.StatusOK, newDocumentsResponse("", docs))
}

// Score handles POST /api/v1/stats/score.
func (h *CitationHandler) Score(c *gin.Context) {
	var req models.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	report, err := h.svc.Score(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, "scoring", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Sweep handles POST /api/v1/stats/sweep.
func (h *CitationHandler) Sweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	res, err := h.svc.Sweep(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, "sweeping depths", err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Filter handles POST /api/v1/graph/filter.
func (h *CitationHandler) Filter(c *gin.Context) {
	var req models.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	res, err := h.svc.Filter(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, "filtering graph", err)
		return
	}

	c.JSON(http.StatusOK, res)
}
