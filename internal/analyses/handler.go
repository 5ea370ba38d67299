package analyses

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmate-backend/internal/batch"
	"jobmate-backend/internal/shared/server/middleware"
	"jobmate-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.startAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

type analyzeRequest struct {
	UserID      string   `json:"user_id"`
	ReportID    string   `json:"report_id"`
	UserSummary string   `json:"user_summary"`
	FileNames   []string `json:"file_names"`
	Files       []string `json:"files"`
}

func (h *Handler) startAnalysis(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user_id is required", nil)
		return
	}
	if strings.TrimSpace(req.UserSummary) == "" && len(req.Files) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user_summary or files are required", nil)
		return
	}

	contents := make([][]byte, 0, len(req.Files))
	for i, encoded := range req.Files {
		content, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("file %d is not valid base64", i+1), nil)
			return
		}
		contents = append(contents, content)
	}

	files, err := batch.PairFiles(req.FileNames, contents)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	analysis, err := h.Svc.Create(ctx, SubmitInput{
		UserID:      req.UserID,
		ReportID:    req.ReportID,
		UserSummary: req.UserSummary,
		Files:       files,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start analysis", nil)
		return
	}

	respond.JSON(c, http.StatusAccepted, gin.H{
		"analysisId": analysis.ID,
		"reportId":   analysis.ReportID,
		"status":     analysis.Status,
		"statusUrl":  "/api/v1/analyses/" + analysis.ID,
	})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analysis", nil)
		}
		return
	}

	respond.OK(c, analysisPayload(analysis))
}

func (h *Handler) listAnalyses(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user_id is required", nil)
		return
	}
	limit := parseIntDefault(c.Query("limit"), 20)
	offset := parseIntDefault(c.Query("offset"), 0)

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	payloads := make([]gin.H, 0, len(list))
	for _, analysis := range list {
		payloads = append(payloads, analysisPayload(analysis))
	}
	respond.OK(c, gin.H{
		"count":    len(payloads),
		"analyses": payloads,
	})
}

func analysisPayload(analysis Analysis) gin.H {
	payload := gin.H{
		"analysisId": analysis.ID,
		"userId":     analysis.UserID,
		"reportId":   analysis.ReportID,
		"status":     analysis.Status,
		"createdAt":  analysis.CreatedAt,
	}
	if analysis.StartedAt != nil {
		payload["startedAt"] = analysis.StartedAt
	}
	if analysis.CompletedAt != nil {
		payload["completedAt"] = analysis.CompletedAt
	}
	if analysis.Result != nil {
		payload["result"] = analysis.Result
	}
	if analysis.BatchResult != nil {
		payload["batchResult"] = analysis.BatchResult
	}
	if analysis.ErrorMessage != nil {
		payload["error"] = analysis.ErrorMessage
	}
	return payload
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
