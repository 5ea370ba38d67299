package reports

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmate-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the reports service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports", h.listReports)
	rg.GET("/reports/:report_id", h.getReport)
	rg.PATCH("/reports/:report_id/next-actions/:index", h.setNextActionChecked)
}

func reportPayload(report Report) gin.H {
	return gin.H{
		"document_id":       report.ID,
		"user_id":           report.UserID,
		"report_id":         report.ReportID,
		"analysis_result":   report.AnalysisResult,
		"creation_datetime": report.CreatedAt,
	}
}

func (h *Handler) listReports(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user_id is required", nil)
		return
	}

	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}

	payloads := make([]gin.H, 0, len(list))
	for _, report := range list {
		payloads = append(payloads, reportPayload(report))
	}
	respond.OK(c, gin.H{
		"success": true,
		"count":   len(payloads),
		"reports": payloads,
	})
}

func (h *Handler) getReport(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	reportID := c.Param("report_id")
	if userID == "" || reportID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user_id and report_id are required", nil)
		return
	}

	report, err := h.Svc.Get(c.Request.Context(), userID, reportID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load report", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"report":  reportPayload(report),
	})
}

type nextActionRequest struct {
	UserID    string `json:"user_id"`
	IsChecked *bool  `json:"is_checked"`
}

func (h *Handler) setNextActionChecked(c *gin.Context) {
	reportID := c.Param("report_id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "next action index must be an integer", nil)
		return
	}

	var req nextActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.UserID) == "" || req.IsChecked == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user_id and is_checked are required", nil)
		return
	}

	report, err := h.Svc.SetNextActionChecked(c.Request.Context(), req.UserID, reportID, index, *req.IsChecked)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		case strings.Contains(err.Error(), "out of range"), strings.Contains(err.Error(), "no action items"):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update next action", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"report":  reportPayload(report),
	})
}
