package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loanlens/internal/service"
	"loanlens/internal/underwriting"
)

// AnalysisHandler handles underwriting analysis endpoints.
type AnalysisHandler struct {
	errorHandler
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{errorHandler: errorHandler{logger: logger}, analysisService: analysisService}
}

// Analyze handles POST /api/v1/applications/:id/analyze
// @Summary Analyze an application
// @Description Merges every extracted document in submission order, scores risk and consistency, and records the decision
// @Tags analysis
// @Produce json
// @Param id path string true "Application ID (UUID)"
// @Success 200 {object} Response{data=service.AnalysisOutcome}
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 409 {object} ErrorResponseBody "Extraction still in progress"
// @Failure 422 {object} ErrorResponseBody "No extracted documents"
// @Security BearerAuth
// @Router /applications/{id}/analyze [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	officer, ok := officerID(c)
	if !ok {
		return
	}
	appID, ok := uuidParam(c, "id", "application")
	if !ok {
		return
	}

	outcome, err := h.analysisService.AnalyzeApplication(c.Request.Context(), appID, officer)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondOK(c, outcome)
}

// History handles GET /api/v1/applications/:id/analyses
// @Summary Analysis history
// @Tags analysis
// @Produce json
// @Param id path string true "Application ID (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.LoanAnalysis,meta=PagMeta}
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Security BearerAuth
// @Router /applications/{id}/analyses [get]
func (h *AnalysisHandler) History(c *gin.Context) {
	appID, ok := uuidParam(c, "id", "application")
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	analyses, total, err := h.analysisService.History(c.Request.Context(), appID, offset, limit)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondPaginated(c, analyses, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Latest handles GET /api/v1/applications/:id/analyses/latest
// @Summary Latest analysis
// @Tags analysis
// @Produce json
// @Param id path string true "Application ID (UUID)"
// @Success 200 {object} Response{data=domain.LoanAnalysis}
// @Failure 404 {object} ErrorResponseBody "Application not found or no analysis yet"
// @Security BearerAuth
// @Router /applications/{id}/analyses/latest [get]
func (h *AnalysisHandler) Latest(c *gin.Context) {
	appID, ok := uuidParam(c, "id", "application")
	if !ok {
		return
	}

	analysis, err := h.analysisService.Latest(c.Request.Context(), appID)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondOK(c, analysis)
}

// AnalyzeStateless handles POST /api/v1/analyze
// @Summary Analyze documents without storing anything
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body []underwriting.DocumentInput true "Documents in submission order"
// @Success 200 {object} Response{data=underwriting.AnalysisResult}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 422 {object} ErrorResponseBody "Empty array or a malformed document"
// @Security BearerAuth
// @Router /analyze [post]
func (h *AnalysisHandler) AnalyzeStateless(c *gin.Context) {
	var inputs []underwriting.DocumentInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "body must be a JSON array of documents")
		return
	}

	result, err := h.analysisService.AnalyzeInputs(c.Request.Context(), inputs)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondOK(c, result)
}
