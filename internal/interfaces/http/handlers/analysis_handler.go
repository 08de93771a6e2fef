package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PharmaLens/internal/application/analysis"
	"github.com/turtacn/PharmaLens/internal/infrastructure/database/postgres"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// HistoryReader serves past analyses.  Satisfied by postgres.HistoryRepo.
type HistoryReader interface {
	GetByRequestID(ctx context.Context, requestID string) (*types.AnalysisResult, error)
	ListRecent(ctx context.Context, limit int) ([]postgres.HistoryEntry, error)
}

// AnalysisHandler exposes the compound analysis pipeline over REST.
type AnalysisHandler struct {
	service analysis.Service
	history HistoryReader // nil when persistence is disabled
	logger  logging.Logger
}

// NewAnalysisHandler builds the handler.  history may be nil.
func NewAnalysisHandler(service analysis.Service, history HistoryReader, logger logging.Logger) *AnalysisHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AnalysisHandler{
		service: service,
		history: history,
		logger:  logger.Named("handler.analysis"),
	}
}

type analyzeRequest struct {
	Query string `json:"query"`
}

type analyzeByNameRequest struct {
	Name string `json:"name"`
}

type analyzeByStructureRequest struct {
	Notation string `json:"notation"`
	// Name optionally identifies the compound the notation encodes.
	Name string `json:"name,omitempty"`
}

// Analyze handles POST /api/v1/analysis.  The input kind is classified
// server-side.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "request body must be JSON with a \"query\" field")
		return
	}
	h.respond(c, func(ctx context.Context) (*types.AnalysisResult, error) {
		return h.service.Analyze(ctx, req.Query)
	})
}

// AnalyzeByName handles POST /api/v1/analysis/name, forcing the name flow.
func (h *AnalysisHandler) AnalyzeByName(c *gin.Context) {
	var req analyzeByNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "request body must be JSON with a \"name\" field")
		return
	}
	h.respond(c, func(ctx context.Context) (*types.AnalysisResult, error) {
		return h.service.AnalyzeByName(ctx, req.Name)
	})
}

// AnalyzeByStructure handles POST /api/v1/analysis/structure, forcing the
// notation flow.
func (h *AnalysisHandler) AnalyzeByStructure(c *gin.Context) {
	var req analyzeByStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "request body must be JSON with a \"notation\" field")
		return
	}
	h.respond(c, func(ctx context.Context) (*types.AnalysisResult, error) {
		return h.service.AnalyzeByStructure(ctx, req.Notation, req.Name)
	})
}

func (h *AnalysisHandler) respond(c *gin.Context, run func(context.Context) (*types.AnalysisResult, error)) {
	result, err := run(c.Request.Context())
	if err != nil {
		h.logger.Warn("analysis request failed",
			logging.String("error_code", string(apperrors.GetCode(err))),
			logging.Err(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAnalysis handles GET /api/v1/analysis/:requestId.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	if h.history == nil {
		respondError(c, apperrors.New(apperrors.ErrCodeServiceUnavailable, "analysis history is not enabled"))
		return
	}
	result, err := h.history.GetByRequestID(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type historyResponse struct {
	Analyses []postgres.HistoryEntry `json:"analyses"`
	Count    int                     `json:"count"`
}

// ListHistory handles GET /api/v1/analysis/history?limit=N.
func (h *AnalysisHandler) ListHistory(c *gin.Context) {
	if h.history == nil {
		respondError(c, apperrors.New(apperrors.ErrCodeServiceUnavailable, "analysis history is not enabled"))
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondValidation(c, "limit must be an integer")
			return
		}
		limit = parsed
	}
	entries, err := h.history.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []postgres.HistoryEntry{}
	}
	c.JSON(http.StatusOK, historyResponse{Analyses: entries, Count: len(entries)})
}
