package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loanlens/internal/domain"
)

// OfficerRepository defines the contract for officer persistence.
type OfficerRepository interface {
	Create(ctx context.Context, officer *domain.Officer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Officer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Officer, error)
}

// ApplicationRepository defines the contract for loan application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.LoanApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error)
	List(ctx context.Context, offset, limit int) ([]domain.LoanApplication, int, error)
	ListAll(ctx context.Context) ([]domain.LoanApplication, error)
}

// DocumentRepository defines the contract for loan document persistence.
// Listings are always in submission (position) order.
type DocumentRepository interface {
	// Create inserts the document at the next position within its application.
	Create(ctx context.Context, doc *domain.LoanDocument) error
	GetByID(ctx context.Context, applicationID, docID uuid.UUID) (*domain.LoanDocument, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.LoanDocument, error)
	// ClaimPending atomically moves up to limit due pending documents to extracting.
	ClaimPending(ctx context.Context, limit int) ([]domain.LoanDocument, error)
	SaveExtraction(ctx context.Context, doc *domain.LoanDocument) error
	// MarkExtractionFailed returns the document to pending with a retry time,
	// or to failed when nextRetryAt is nil.
	MarkExtractionFailed(ctx context.Context, docID uuid.UUID, reason string, nextRetryAt *time.Time) error
}

// AnalysisRepository defines the contract for analysis history persistence.
type AnalysisRepository interface {
	// Record stores the analysis, updates the application summary and moves
	// scoredDocIDs to scored atomically.
	Record(ctx context.Context, analysis *domain.LoanAnalysis, summary *domain.ApplicationSummary, scoredDocIDs []uuid.UUID) error
	GetLatest(ctx context.Context, applicationID uuid.UUID) (*domain.LoanAnalysis, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID, offset, limit int) ([]domain.LoanAnalysis, int, error)
}
