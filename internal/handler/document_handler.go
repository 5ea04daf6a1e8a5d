package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loanlens/internal/service"
)

// DocumentHandler handles loan document endpoints.
type DocumentHandler struct {
	errorHandler
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{errorHandler: errorHandler{logger: logger}, documentService: documentService}
}

// Upload handles POST /api/v1/applications/:id/documents
// @Summary Upload a support document
// @Description Stores the file and queues it for LLM field extraction
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Application ID (UUID)"
// @Param file formData file true "PDF, JPG or PNG"
// @Param declared_type formData string false "pay_stub, bank_statement, tax_return, w2, credit_report, employment_verification or other"
// @Success 201 {object} Response{data=domain.LoanDocument} "Document queued"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or unknown declared type"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /applications/{id}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	uploadedBy, ok := officerID(c)
	if !ok {
		return
	}
	appID, ok := uuidParam(c, "id", "application")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "file could not be read")
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(c.Request.Context(), service.UploadDocumentInput{
		ApplicationID: appID,
		UploadedBy:    uploadedBy,
		DeclaredType:  c.PostForm("declared_type"),
		File:          file,
		Header:        fileHeader,
	})
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondCreated(c, doc)
}

// SubmitExtracted handles POST /api/v1/applications/:id/documents/extracted
// @Summary Submit an already-extracted document
// @Description For callers running their own OCR/LLM. The fields payload is shape-checked and stored as extracted.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Application ID (UUID)"
// @Param request body SubmitExtractedRequest true "Extracted document"
// @Success 201 {object} Response{data=domain.LoanDocument}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Failure 422 {object} ErrorResponseBody "Fields payload is malformed"
// @Security BearerAuth
// @Router /applications/{id}/documents/extracted [post]
func (h *DocumentHandler) SubmitExtracted(c *gin.Context) {
	uploadedBy, ok := officerID(c)
	if !ok {
		return
	}
	appID, ok := uuidParam(c, "id", "application")
	if !ok {
		return
	}

	var input service.SubmitExtractedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input.ApplicationID = appID
	input.UploadedBy = uploadedBy

	doc, err := h.documentService.SubmitExtracted(c.Request.Context(), input)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondCreated(c, doc)
}

// List handles GET /api/v1/applications/:id/documents
// @Summary List an application's documents
// @Description In submission order, which is also merge precedence order
// @Tags documents
// @Produce json
// @Param id path string true "Application ID (UUID)"
// @Success 200 {object} Response{data=[]domain.LoanDocument}
// @Failure 404 {object} ErrorResponseBody "Application not found"
// @Security BearerAuth
// @Router /applications/{id}/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	appID, ok := uuidParam(c, "id", "application")
	if !ok {
		return
	}

	docs, err := h.documentService.List(c.Request.Context(), appID)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondOK(c, docs)
}

// GetDownloadURL handles GET /api/v1/applications/:id/documents/:docId/url
// @Summary Presigned download URL
// @Tags documents
// @Produce json
// @Param id path string true "Application ID (UUID)"
// @Param docId path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=DownloadURLResponse}
// @Failure 404 {object} ErrorResponseBody "Document not found or has no file"
// @Security BearerAuth
// @Router /applications/{id}/documents/{docId}/url [get]
func (h *DocumentHandler) GetDownloadURL(c *gin.Context) {
	appID, ok := uuidParam(c, "id", "application")
	if !ok {
		return
	}
	docID, ok := uuidParam(c, "docId", "document")
	if !ok {
		return
	}

	url, err := h.documentService.GetDownloadURL(c.Request.Context(), appID, docID)
	if err != nil {
		h.handle(c, err)
		return
	}

	RespondOK(c, DownloadURLResponse{URL: url})
}
