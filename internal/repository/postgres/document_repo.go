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

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.LoanDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("documentRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Serialize position assignment per application.
	var locked uuid.UUID
	err = tx.GetContext(ctx, &locked,
		"SELECT id FROM loan_applications WHERE id = $1 FOR UPDATE", doc.ApplicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrApplicationNotFound
		}
		return fmt.Errorf("documentRepo.Create lock: %w", err)
	}

	err = tx.GetContext(ctx, &doc.Position,
		"SELECT COALESCE(MAX(position), 0) + 1 FROM loan_documents WHERE application_id = $1", doc.ApplicationID)
	if err != nil {
		return fmt.Errorf("documentRepo.Create position: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO loan_documents (
			id, application_id, position, file_name, declared_type, content_type,
			file_size, s3_bucket, s3_key, status, document_type, extracted_text,
			extracted_fields, confidence, processing_time_ms, model_used,
			uploaded_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19
		)`,
		doc.ID, doc.ApplicationID, doc.Position, doc.FileName, doc.DeclaredType, doc.ContentType,
		doc.FileSize, doc.S3Bucket, doc.S3Key, doc.Status, doc.DocumentType, doc.ExtractedText,
		doc.ExtractedFields, doc.Confidence, doc.ProcessingTimeMs, doc.ModelUsed,
		doc.UploadedBy, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("documentRepo.Create commit: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, applicationID, docID uuid.UUID) (*domain.LoanDocument, error) {
	var doc domain.LoanDocument
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM loan_documents WHERE id = $1 AND application_id = $2", docID, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.LoanDocument, error) {
	var docs []domain.LoanDocument
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM loan_documents WHERE application_id = $1 ORDER BY position", applicationID)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByApplication: %w", err)
	}
	return docs, nil
}

// staleExtractionAfter is how long a row may sit in extracting before another
// poll reclaims it. It is twice the worker's per-document timeout.
const staleExtractionAfter = 10 * time.Minute

// ClaimPending uses SKIP LOCKED so several workers can poll the same table.
// Rows left in extracting by a crashed worker or a failed status write are
// reclaimed once they have not been touched for staleExtractionAfter.
func (r *documentRepo) ClaimPending(ctx context.Context, limit int) ([]domain.LoanDocument, error) {
	var docs []domain.LoanDocument
	err := r.db.SelectContext(ctx, &docs,
		`UPDATE loan_documents SET
			status = $1, extraction_attempts = extraction_attempts + 1, updated_at = NOW()
		 WHERE id IN (
			SELECT id FROM loan_documents
			WHERE (status = $2 AND (next_retry_at IS NULL OR next_retry_at <= NOW()))
			   OR (status = $1 AND updated_at < NOW() - make_interval(secs => $4))
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.DocumentStatusExtracting, domain.DocumentStatusPending, limit, staleExtractionAfter.Seconds())
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ClaimPending: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) SaveExtraction(ctx context.Context, doc *domain.LoanDocument) error {
	doc.UpdatedAt = time.Now().UTC()
	doc.Status = domain.DocumentStatusExtracted
	doc.ExtractionError = ""
	doc.NextRetryAt = nil

	result, err := r.db.ExecContext(ctx,
		`UPDATE loan_documents SET
			status = $1, document_type = $2, extracted_text = $3, extracted_fields = $4,
			confidence = $5, processing_time_ms = $6, model_used = $7,
			extraction_error = '', next_retry_at = NULL, updated_at = $8
		 WHERE id = $9`,
		doc.Status, doc.DocumentType, doc.ExtractedText, doc.ExtractedFields,
		doc.Confidence, doc.ProcessingTimeMs, doc.ModelUsed, doc.UpdatedAt,
		doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveExtraction: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) MarkExtractionFailed(ctx context.Context, docID uuid.UUID, reason string, nextRetryAt *time.Time) error {
	status := domain.DocumentStatusFailed
	if nextRetryAt != nil {
		status = domain.DocumentStatusPending
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE loan_documents SET
			status = $1, extraction_error = $2, next_retry_at = $3, updated_at = $4
		 WHERE id = $5`,
		status, reason, nextRetryAt, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.MarkExtractionFailed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// markScored moves the extracted documents that fed an analysis to scored.
func markScored(ctx context.Context, tx *sqlx.Tx, applicationID uuid.UUID, docIDs []uuid.UUID) error {
	if len(docIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(
		`UPDATE loan_documents SET status = ?, updated_at = ?
		 WHERE application_id = ? AND status = ? AND id IN (?)`,
		domain.DocumentStatusScored, time.Now().UTC(), applicationID, domain.DocumentStatusExtracted, docIDs)
	if err != nil {
		return fmt.Errorf("markScored build: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("markScored: %w", err)
	}
	return nil
}
