package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"loanlens/internal/domain"
	"loanlens/internal/port"
)

type applicationRepo struct {
	db *sqlx.DB
}

// NewApplicationRepo creates a new PostgreSQL-backed ApplicationRepository.
func NewApplicationRepo(db *sqlx.DB) port.ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.LoanApplication) error {
	app.ID = uuid.New()
	if app.Status == "" {
		app.Status = domain.ApplicationStatusOpen
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loan_applications (
			id, loan_number, borrower_name, borrower_email, loan_amount,
			property_address, status, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		app.ID, app.LoanNumber, app.BorrowerName, app.BorrowerEmail, app.LoanAmount,
		app.PropertyAddress, app.Status, app.CreatedBy, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "loan_number") {
			return domain.ErrDuplicateLoanNumber
		}
		return fmt.Errorf("applicationRepo.Create: %w", err)
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	var app domain.LoanApplication
	err := r.db.GetContext(ctx, &app, "SELECT * FROM loan_applications WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("applicationRepo.GetByID: %w", err)
	}
	return &app, nil
}

func (r *applicationRepo) List(ctx context.Context, offset, limit int) ([]domain.LoanApplication, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM loan_applications"); err != nil {
		return nil, 0, fmt.Errorf("applicationRepo.List count: %w", err)
	}

	var apps []domain.LoanApplication
	err := r.db.SelectContext(ctx, &apps,
		"SELECT * FROM loan_applications ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("applicationRepo.List: %w", err)
	}
	return apps, total, nil
}

func (r *applicationRepo) ListAll(ctx context.Context) ([]domain.LoanApplication, error) {
	var apps []domain.LoanApplication
	if err := r.db.SelectContext(ctx, &apps, "SELECT * FROM loan_applications ORDER BY created_at"); err != nil {
		return nil, fmt.Errorf("applicationRepo.ListAll: %w", err)
	}
	return apps, nil
}

// updateSummary writes the latest analysis outcome onto the application row
// and moves it to review.
func updateSummary(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, s *domain.ApplicationSummary) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE loan_applications SET
			ai_risk_score = $1, ai_risk_level = $2, ai_decision = $3,
			debt_to_income_ratio = $4, monthly_income = $5, monthly_debts = $6,
			liquid_assets = $7, credit_score = $8, analyzed_at = $9,
			status = $10, updated_at = $11
		 WHERE id = $12`,
		s.RiskScore, s.RiskLevel, s.Decision,
		s.DTIRatio, s.MonthlyIncome, s.MonthlyDebts,
		s.LiquidAssets, s.CreditScore, s.AnalyzedAt,
		domain.ApplicationStatusReview, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updateSummary: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}
