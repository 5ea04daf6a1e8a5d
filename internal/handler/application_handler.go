package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loanlens/internal/export"
	"loanlens/internal/service"
)

// ApplicationHandler handles loan application endpoints.
type ApplicationHandler struct {
	errorHandler
	appService service.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(appService service.ApplicationService, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{errorHandler: errorHandler{logger: logger}, appService: appService}
}

// Create handles POST /api/v1/applications
// @Summary Open a loan application
// @Tags applications
// @Accept json
// @Produce json
// @Param request body CreateApplicationRequest true "Application details"
// @Success 201 {object} Response{data=domain.LoanApplication}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 409 {object} ErrorResponseBody "Loan number already exists"
// @Security BearerAuth
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	createdBy, ok := officerID(c)
	if !ok {
		return
	}

	var input service.CreateApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input.CreatedBy = createdBy

	app, err := h.appService.Create(c.Request.Context(), input)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondCreated(c, app)
}

// GetByID handles GET /api/v1/applications/:id
// @Summary Get a loan application
// @Description Includes the summary of the latest analysis when one has run
// @Tags applications
// @Produce json
// @Param id path string true "Application ID (UUID)"
// @Success 200 {object} Response{data=domain.LoanApplication}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Security BearerAuth
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetByID(c *gin.Context) {
	id, ok := uuidParam(c, "id", "application")
	if !ok {
		return
	}

	app, err := h.appService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondOK(c, app)
}

// List handles GET /api/v1/applications
// @Summary List loan applications
// @Tags applications
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.LoanApplication,meta=PagMeta}
// @Security BearerAuth
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	apps, total, err := h.appService.List(c.Request.Context(), offset, limit)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondPaginated(c, apps, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Export handles GET /api/v1/applications/export
// @Summary Export the portfolio
// @Description Admin only. Every application with its latest analysis summary.
// @Tags applications
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Unknown format"
// @Failure 403 {object} ErrorResponseBody "Insufficient role"
// @Security BearerAuth
// @Router /applications/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "format must be 'csv' or 'xlsx'")
		return
	}

	apps, err := h.appService.ListAll(c.Request.Context())
	if err != nil {
		h.handle(c, err)
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "xlsx":
		err = export.WriteXLSX(&buf, apps)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		err = export.WriteCSV(&buf, apps)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		h.handle(c, err)
		return
	}

	filename := export.BuildFilename("loan_portfolio", format, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
