package domain

import "errors"

var (
	ErrApplicationNotFound  = errors.New("loan application not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrAnalysisNotFound     = errors.New("analysis not found")
	ErrOfficerNotFound      = errors.New("officer not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrOfficerInactive      = errors.New("officer is inactive")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrDuplicateLoanNumber  = errors.New("loan number already exists")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidExtraction    = errors.New("extracted fields are malformed")
	ErrNoScorableDocuments  = errors.New("application has no extracted documents to analyze")
	ErrExtractionInProgress = errors.New("document extraction still in progress")
	ErrNoStoredFile         = errors.New("document has no stored file")
	ErrCacheMiss            = errors.New("cache miss")
)
