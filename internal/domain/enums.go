package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// OfficerRole controls what an authenticated officer may do.
type OfficerRole string

const (
	RoleAdmin       OfficerRole = "admin"
	RoleUnderwriter OfficerRole = "underwriter"
)

// ValidRoles is the set of assignable officer roles.
var ValidRoles = map[OfficerRole]bool{
	RoleAdmin:       true,
	RoleUnderwriter: true,
}

// ApplicationStatus is the lifecycle of a loan application.
type ApplicationStatus string

const (
	ApplicationStatusOpen   ApplicationStatus = "open"
	ApplicationStatusReview ApplicationStatus = "review"
)

// DocumentStatus is the per-document state machine:
// pending -> extracting -> extracted | failed, extracted -> scored.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusExtracting DocumentStatus = "extracting"
	DocumentStatusExtracted  DocumentStatus = "extracted"
	DocumentStatusFailed     DocumentStatus = "failed"
	DocumentStatusScored     DocumentStatus = "scored"
)

// Scorable reports whether a document in this state carries fields the
// underwriting engine can consume.
func (s DocumentStatus) Scorable() bool {
	return s == DocumentStatusExtracted || s == DocumentStatusScored
}

// InFlight reports whether extraction has not finished yet.
func (s DocumentStatus) InFlight() bool {
	return s == DocumentStatusPending || s == DocumentStatusExtracting
}
