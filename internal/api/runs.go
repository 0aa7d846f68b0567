package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/export"
	"github.com/persistorai/citegraph/internal/models"
)

// RunHandler serves persisted runs.
type RunHandler struct {
	svc RunService
	log *logrus.Logger
}

// NewRunHandler creates a RunHandler.
func NewRunHandler(svc RunService, log *logrus.Logger) *RunHandler {
	return &RunHandler{svc: svc, log: log}
}

// Get handles GET /api/v1/runs/:id.
func (h *RunHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "run id must be a uuid")
		return
	}

	run, err := h.svc.GetRun(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "getting run", err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// Export handles GET /api/v1/runs/:id/export?format=csv|gexf|html.
func (h *RunHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "run id must be a uuid")
		return
	}

	format := c.DefaultQuery("format", "gexf")
	contentType, ok := exportContentTypes[format]
	if !ok {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "format must be csv, gexf or html")
		return
	}

	run, err := h.svc.GetRun(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "exporting run", err)
		return
	}

	if run.Graph == nil {
		run.Graph = models.NewCitationGraph()
	}

	var buf bytes.Buffer
	switch format {
	case "csv":
		err = export.WriteEdgeCSV(&buf, run.Graph.Links)
	case "html":
		err = export.WriteHTML(&buf, run.Graph.Nodes, run.Graph.Links, export.HTMLOptions{
			Title: "Run " + run.ID.String(),
			Seeds: run.Sources,
		})
	default:
		err = export.WriteGEXF(&buf, run.Graph, export.GEXFOptions{
			Creator:     "citegraph",
			Description: "run " + run.ID.String(),
			Modified:    run.CreatedAt,
		})
	}

	if err != nil {
		respondServiceError(c, h.log, "exporting run", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "run-"+run.ID.String()+"."+format))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

var exportContentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"gexf": "application/xml; charset=utf-8",
	"html": "text/html; charset=utf-8",
}
