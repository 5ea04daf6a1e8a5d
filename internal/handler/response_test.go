package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"loanlens/internal/domain"
	"loanlens/internal/handler"
	"loanlens/internal/underwriting"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrApplicationNotFound, http.StatusNotFound, "APPLICATION_NOT_FOUND"},
		{fmt.Errorf("repo.Get: %w", domain.ErrDocumentNotFound), http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{domain.ErrAnalysisNotFound, http.StatusNotFound, "ANALYSIS_NOT_FOUND"},
		{domain.ErrNoStoredFile, http.StatusNotFound, "NO_STORED_FILE"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrOfficerInactive, http.StatusForbidden, "OFFICER_INACTIVE"},
		{domain.ErrDuplicateLoanNumber, http.StatusConflict, "DUPLICATE_LOAN_NUMBER"},
		{domain.ErrExtractionInProgress, http.StatusConflict, "EXTRACTION_IN_PROGRESS"},
		{domain.ErrNoScorableDocuments, http.StatusUnprocessableEntity, "NO_SCORABLE_DOCUMENTS"},
		{fmt.Errorf("%w: %w", domain.ErrInvalidExtraction, underwriting.ErrMalformedInput), http.StatusUnprocessableEntity, "INVALID_EXTRACTION"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{fmt.Errorf("%w: Email is required", domain.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		status, code, _ := handler.MapDomainError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestMapDomainError_ValidationMessagePassesThrough(t *testing.T) {
	_, _, msg := handler.MapDomainError(fmt.Errorf("%w: LoanNumber is required", domain.ErrValidation))
	assert.Equal(t, "validation failed: LoanNumber is required", msg)

	_, _, msg = handler.MapDomainError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "an internal error occurred", msg)
}
