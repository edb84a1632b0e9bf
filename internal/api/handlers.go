package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"leadintel/server/internal/callscript"
	"leadintel/server/internal/cma"
	"leadintel/server/internal/dashboard"
	"leadintel/server/internal/geometry"
	"leadintel/server/internal/ingest"
	"leadintel/server/internal/models"
	"leadintel/server/internal/retry"
)

// Dashboard is the service behind the handlers.
type Dashboard interface {
	Search(ctx context.Context, text string) ([]dashboard.Suggestion, error)
	Lookup(ctx context.Context, address string) (models.SubjectProperty, error)
	BuildReport(ctx context.Context, subject models.SubjectProperty, tone callscript.Tone, length callscript.Length) (*dashboard.Report, error)
	TopAgents(ctx context.Context, zip, agentName, agentPhone string) ([]models.TopAgent, error)
	CMA(ctx context.Context, subject models.SubjectProperty) (cma.Analysis, error)
	Script(r *dashboard.Report, tone callscript.Tone, length callscript.Length) callscript.Script
}

type Handler struct {
	service Dashboard
	logger  *logrus.Logger
}

type ReportRequest struct {
	Listing models.RawListing `json:"listing"`
	Tone    string            `json:"tone"`
	Length  string            `json:"length"`
}

// ScriptRequest carries a report previously returned by the server, to be
// re-rendered with another tone or length.
type ScriptRequest struct {
	Report *dashboard.Report `json:"report"`
	Tone   string            `json:"tone"`
	Length string            `json:"length"`
}

func NewHandler(service Dashboard, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Search(c *gin.Context) {
	suggestions, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err, "Failed to search listings")
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

func (h *Handler) GetReport(c *gin.Context) {
	report, ok := h.lookupReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) CreateReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse report request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Listing.StreetAddress) == "" && ingest.NormalizeZip(req.Listing.ZipCode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Listing needs a street address or zip code"})
		return
	}

	subject := ingest.Subject(req.Listing)
	report, err := h.service.BuildReport(c.Request.Context(), subject,
		callscript.ParseTone(req.Tone), callscript.ParseLength(req.Length))
	if err != nil {
		h.respondError(c, err, "Failed to build report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetScript(c *gin.Context) {
	report, ok := h.lookupReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"script":         report.Script,
		"text":           report.Script.Text(),
		"talking_points": report.TalkingPoints,
	})
}

// RenderScript re-renders the call script of a posted report without
// fetching anything.
func (h *Handler) RenderScript(c *gin.Context) {
	var req ScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse script request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Report == nil || (req.Report.Subject.Address == "" && req.Report.Subject.Zip == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request needs a report with a subject property"})
		return
	}

	script := h.service.Script(req.Report, callscript.ParseTone(req.Tone), callscript.ParseLength(req.Length))
	c.JSON(http.StatusOK, gin.H{
		"script": script,
		"text":   script.Text(),
	})
}

func (h *Handler) GetTopAgents(c *gin.Context) {
	agents, err := h.service.TopAgents(c.Request.Context(),
		c.Query("zip"), c.Query("agent_name"), c.Query("agent_phone"))
	if err != nil {
		h.respondError(c, err, "Failed to get top agents")
		return
	}

	c.JSON(http.StatusOK, agents)
}

func (h *Handler) GetCMA(c *gin.Context) {
	_, analysis, ok := h.lookupCMA(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) GetCMAGeoJSON(c *gin.Context) {
	subject, analysis, ok := h.lookupCMA(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, geometry.FeatureCollection(subject, analysis.Comps))
}

func (h *Handler) lookupReport(c *gin.Context) (*dashboard.Report, bool) {
	ctx := c.Request.Context()
	subject, err := h.service.Lookup(ctx, c.Query("address"))
	if err != nil {
		h.respondError(c, err, "Failed to look up address")
		return nil, false
	}

	report, err := h.service.BuildReport(ctx, subject,
		callscript.ParseTone(c.Query("tone")), callscript.ParseLength(c.Query("length")))
	if err != nil {
		h.respondError(c, err, "Failed to build report")
		return nil, false
	}
	return report, true
}

func (h *Handler) lookupCMA(c *gin.Context) (models.SubjectProperty, cma.Analysis, bool) {
	ctx := c.Request.Context()
	subject, err := h.service.Lookup(ctx, c.Query("address"))
	if err != nil {
		h.respondError(c, err, "Failed to look up address")
		return subject, cma.Analysis{}, false
	}

	analysis, err := h.service.CMA(ctx, subject)
	if err != nil {
		h.respondError(c, err, "Failed to build CMA")
		return subject, cma.Analysis{}, false
	}
	return subject, analysis, true
}

// respondError maps service errors onto status codes. Upstream details are
// logged, never returned.
func (h *Handler) respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, dashboard.ErrInsufficientInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dashboard.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case retry.IsTimeout(err):
		h.logger.WithError(err).Warn(message)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Request timed out, try again", "retryable": true})
	default:
		h.logger.WithError(err).Error(message)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Service temporarily unavailable"})
	}
}
