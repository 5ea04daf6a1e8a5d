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

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

// Record inserts the analysis, refreshes the application summary and marks
// the scored documents in a single transaction.
func (r *analysisRepo) Record(ctx context.Context, a *domain.LoanAnalysis, summary *domain.ApplicationSummary, scoredDocIDs []uuid.UUID) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("analysisRepo.Record begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO loan_analyses (
			id, application_id, risk_score, risk_level, decision,
			consistency_score, data_quality, document_count, input_hash,
			result, report_key, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.ApplicationID, a.RiskScore, a.RiskLevel, a.Decision,
		a.ConsistencyScore, a.DataQuality, a.DocumentCount, a.InputHash,
		a.Result, a.ReportKey, a.CreatedBy, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("analysisRepo.Record: %w", err)
	}
	if err := updateSummary(ctx, tx, a.ApplicationID, summary); err != nil {
		return err
	}
	if err := markScored(ctx, tx, a.ApplicationID, scoredDocIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("analysisRepo.Record commit: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetLatest(ctx context.Context, applicationID uuid.UUID) (*domain.LoanAnalysis, error) {
	var a domain.LoanAnalysis
	err := r.db.GetContext(ctx, &a,
		`SELECT * FROM loan_analyses WHERE application_id = $1
		 ORDER BY created_at DESC LIMIT 1`, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetLatest: %w", err)
	}
	return &a, nil
}

func (r *analysisRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID, offset, limit int) ([]domain.LoanAnalysis, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM loan_analyses WHERE application_id = $1", applicationID)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.ListByApplication count: %w", err)
	}

	var items []domain.LoanAnalysis
	err = r.db.SelectContext(ctx, &items,
		`SELECT * FROM loan_analyses WHERE application_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		applicationID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.ListByApplication: %w", err)
	}
	return items, total, nil
}
