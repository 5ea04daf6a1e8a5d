package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Officer is a loan officer or administrator who can sign in.
type Officer struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	FullName     string      `db:"full_name" json:"full_name"`
	Role         OfficerRole `db:"role" json:"role"`
	IsActive     bool        `db:"is_active" json:"is_active"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// LoanApplication is one borrower's request. The AI summary columns hold
// the outcome of the most recent analysis.
type LoanApplication struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	LoanNumber      string            `db:"loan_number" json:"loan_number"`
	BorrowerName    string            `db:"borrower_name" json:"borrower_name"`
	BorrowerEmail   string            `db:"borrower_email" json:"borrower_email,omitempty"`
	LoanAmount      float64           `db:"loan_amount" json:"loan_amount"`
	PropertyAddress string            `db:"property_address" json:"property_address,omitempty"`
	Status          ApplicationStatus `db:"status" json:"status"`
	CreatedBy       uuid.UUID         `db:"created_by" json:"created_by"`

	RiskScore     *int       `db:"ai_risk_score" json:"ai_risk_score,omitempty"`
	RiskLevel     *string    `db:"ai_risk_level" json:"ai_risk_level,omitempty"`
	Decision      *string    `db:"ai_decision" json:"ai_decision,omitempty"`
	DTIRatio      *float64   `db:"debt_to_income_ratio" json:"debt_to_income_ratio,omitempty"`
	MonthlyIncome *float64   `db:"monthly_income" json:"monthly_income,omitempty"`
	MonthlyDebts  *float64   `db:"monthly_debts" json:"monthly_debts,omitempty"`
	LiquidAssets  *float64   `db:"liquid_assets" json:"liquid_assets,omitempty"`
	CreditScore   *float64   `db:"credit_score" json:"credit_score,omitempty"`
	AnalyzedAt    *time.Time `db:"analyzed_at" json:"analyzed_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ApplicationSummary is the subset of application columns refreshed after
// each analysis.
type ApplicationSummary struct {
	RiskScore     int
	RiskLevel     string
	Decision      string
	DTIRatio      *float64
	MonthlyIncome *float64
	MonthlyDebts  *float64
	LiquidAssets  *float64
	CreditScore   *float64
	AnalyzedAt    time.Time
}

// LoanDocument is one uploaded or submitted support document. Position is
// the submission order within the application and drives merge precedence.
type LoanDocument struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ApplicationID uuid.UUID `db:"application_id" json:"application_id"`
	Position      int       `db:"position" json:"position"`
	FileName      string    `db:"file_name" json:"file_name"`
	DeclaredType  string    `db:"declared_type" json:"declared_type,omitempty"`
	ContentType   string    `db:"content_type" json:"content_type,omitempty"`
	FileSize      int64     `db:"file_size" json:"file_size"`
	S3Bucket      string    `db:"s3_bucket" json:"-"`
	S3Key         string    `db:"s3_key" json:"-"`

	Status             DocumentStatus  `db:"status" json:"status"`
	DocumentType       string          `db:"document_type" json:"document_type,omitempty"`
	ExtractedText      string          `db:"extracted_text" json:"-"`
	ExtractedFields    JSONPayload     `db:"extracted_fields" json:"extracted_fields,omitempty"`
	Confidence         float64         `db:"confidence" json:"confidence"`
	ProcessingTimeMs   int64           `db:"processing_time_ms" json:"processing_time_ms"`
	ModelUsed          string          `db:"model_used" json:"model_used,omitempty"`
	ExtractionError    string          `db:"extraction_error" json:"extraction_error,omitempty"`
	ExtractionAttempts int             `db:"extraction_attempts" json:"extraction_attempts"`
	NextRetryAt        *time.Time      `db:"next_retry_at" json:"-"`

	UploadedBy uuid.UUID `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// LoanAnalysis is an immutable record of one analysis run.
type LoanAnalysis struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	ApplicationID    uuid.UUID       `db:"application_id" json:"application_id"`
	RiskScore        int             `db:"risk_score" json:"risk_score"`
	RiskLevel        string          `db:"risk_level" json:"risk_level"`
	Decision         string          `db:"decision" json:"decision"`
	ConsistencyScore int             `db:"consistency_score" json:"consistency_score"`
	DataQuality      string          `db:"data_quality" json:"data_quality"`
	DocumentCount    int             `db:"document_count" json:"document_count"`
	InputHash        string          `db:"input_hash" json:"input_hash"`
	Result           json.RawMessage `db:"result" json:"result"`
	ReportKey        string          `db:"report_key" json:"report_key,omitempty"`
	CreatedBy        uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}
