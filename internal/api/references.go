package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/models"
)

// ReferenceHandler serves reference-set endpoints.
type ReferenceHandler struct {
	svc ReferenceService
	log *logrus.Logger
}

// NewReferenceHandler creates a ReferenceHandler.
func NewReferenceHandler(svc ReferenceService, log *logrus.Logger) *ReferenceHandler {
	return &ReferenceHandler{svc: svc, log: log}
}

type referenceSetResponse struct {
	Name      string              `json:"name"`
	Documents []models.DocumentID `json:"documents"`
	Size      int                 `json:"size"`
}

// List handles GET /api/v1/reference-sets.
func (h *ReferenceHandler) List(c *gin.Context) {
	limit := parseLimit(c.DefaultQuery("limit", "100"), 100)

	sets, err := h.svc.ListReferenceSets(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, h.log, "listing reference sets", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reference_sets": sets})
}

// Get handles GET /api/v1/reference-sets/:name.
func (h *ReferenceHandler) Get(c *gin.Context) {
	name := c.Param("name")
	if err := models.ValidateReferenceSetName(name); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	docs, err := h.svc.GetReferenceSet(c.Request.Context(), name)
	if err != nil {
		respondServiceError(c, h.log, "getting reference set", err)
		return
	}

	c.JSON(http.StatusOK, referenceSetResponse{Name: name, Documents: docs.Sorted(), Size: len(docs)})
}

// Put handles PUT /api/v1/reference-sets/:name.
func (h *ReferenceHandler) Put(c *gin.Context) {
	name := c.Param("name")
	if err := models.ValidateReferenceSetName(name); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var req models.ReferenceSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	docs := models.NewDocumentSet(req.Documents...)
	if err := h.svc.PutReferenceSet(c.Request.Context(), name, docs); err != nil {
		respondServiceError(c, h.log, "storing reference set", err)
		return
	}

	c.JSON(http.StatusOK, referenceSetResponse{Name: name, Documents: docs.Sorted(), Size: len(docs)})
}
