package handler

import (
	"encoding/json"
	"time"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" example:"underwriter@lender.example"`
	Password string `json:"password" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateOfficerRequest represents the create officer request body.
type CreateOfficerRequest struct {
	Email    string `json:"email" example:"new.officer@lender.example"`
	Password string `json:"password" example:"securepassword123"`
	FullName string `json:"full_name" example:"Dana Whitfield"`
	Role     string `json:"role" example:"underwriter" enums:"admin,underwriter"`
}

// CreateApplicationRequest represents the create application request body.
type CreateApplicationRequest struct {
	LoanNumber      string  `json:"loan_number" example:"LN-2024-001"`
	BorrowerName    string  `json:"borrower_name" example:"Michael Martinez"`
	BorrowerEmail   string  `json:"borrower_email" example:"m.martinez@example.com"`
	LoanAmount      float64 `json:"loan_amount" example:"450000"`
	PropertyAddress string  `json:"property_address" example:"42 Elm Street, Springfield"`
}

// SubmitExtractedRequest represents an already-extracted document.
type SubmitExtractedRequest struct {
	FileName         string          `json:"file_name" example:"paystub_june.pdf"`
	DeclaredType     string          `json:"declared_type" example:"pay_stub"`
	Text             string          `json:"text" example:"EARNINGS STATEMENT ..."`
	Fields           json.RawMessage `json:"fields" swaggertype:"object"`
	Confidence       float64         `json:"confidence" example:"92.5"`
	ProcessingTimeMs int64           `json:"processing_time_ms" example:"1500"`
	ModelUsed        string          `json:"model_used" example:"in-house-ocr-v2"`
}

// --- Response Types ---

// TokenResponse represents the token pair response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2024-06-01T12:15:00Z"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// DownloadURLResponse carries a presigned document URL.
type DownloadURLResponse struct {
	URL string `json:"url" example:"https://bucket.s3.amazonaws.com/applications/...?X-Amz-Signature=..."`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
