package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"loanlens/internal/domain"
	"loanlens/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Validation-style errors carry their own message through to the client.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrApplicationNotFound):
		return http.StatusNotFound, "APPLICATION_NOT_FOUND", "loan application not found"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrAnalysisNotFound):
		return http.StatusNotFound, "ANALYSIS_NOT_FOUND", "no analysis has been run for this application"
	case errors.Is(err, domain.ErrOfficerNotFound):
		return http.StatusNotFound, "OFFICER_NOT_FOUND", "officer not found"
	case errors.Is(err, domain.ErrNoStoredFile):
		return http.StatusNotFound, "NO_STORED_FILE", "document was submitted without a file"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrOfficerInactive):
		return http.StatusForbidden, "OFFICER_INACTIVE", "officer account is inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"
	case errors.Is(err, domain.ErrDuplicateLoanNumber):
		return http.StatusConflict, "DUPLICATE_LOAN_NUMBER", "loan number already exists"
	case errors.Is(err, domain.ErrExtractionInProgress):
		return http.StatusConflict, "EXTRACTION_IN_PROGRESS", "documents are still being extracted; retry shortly"
	case errors.Is(err, domain.ErrNoScorableDocuments):
		return http.StatusUnprocessableEntity, "NO_SCORABLE_DOCUMENTS", "application has no extracted documents to analyze"
	case errors.Is(err, domain.ErrInvalidExtraction):
		return http.StatusUnprocessableEntity, "INVALID_EXTRACTION", err.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// errorHandler sends the mapped error response and logs server-side failures.
type errorHandler struct {
	logger *zap.Logger
}

func (h errorHandler) handle(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= http.StatusInternalServerError && h.logger != nil {
		h.logger.Error("internal error",
			zap.String("request_id", c.GetString(middleware.ContextKeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	RespondError(c, status, code, msg)
}

// officerID extracts the authenticated officer. Returns false if missing
// (error response already written).
func officerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.GetOfficerID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing officer context")
		return uuid.Nil, false
	}
	return id, true
}

// uuidParam parses a UUID path parameter. Returns false if invalid (error
// response already written).
func uuidParam(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
