package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"loanlens/internal/domain"
	"loanlens/internal/port"
)

type officerRepo struct {
	db *sqlx.DB
}

// NewOfficerRepo creates a new PostgreSQL-backed OfficerRepository.
func NewOfficerRepo(db *sqlx.DB) port.OfficerRepository {
	return &officerRepo{db: db}
}

func (r *officerRepo) Create(ctx context.Context, officer *domain.Officer) error {
	officer.ID = uuid.New()
	officer.Email = strings.ToLower(strings.TrimSpace(officer.Email))
	now := time.Now().UTC()
	officer.CreatedAt = now
	officer.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO officers (id, email, password_hash, full_name, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		officer.ID, officer.Email, officer.PasswordHash, officer.FullName,
		officer.Role, officer.IsActive, officer.CreatedAt, officer.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "email") {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("officerRepo.Create: %w", err)
	}
	return nil
}

func (r *officerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Officer, error) {
	var officer domain.Officer
	err := r.db.GetContext(ctx, &officer, "SELECT * FROM officers WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOfficerNotFound
		}
		return nil, fmt.Errorf("officerRepo.GetByID: %w", err)
	}
	return &officer, nil
}

func (r *officerRepo) GetByEmail(ctx context.Context, email string) (*domain.Officer, error) {
	var officer domain.Officer
	err := r.db.GetContext(ctx, &officer,
		"SELECT * FROM officers WHERE email = $1", strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOfficerNotFound
		}
		return nil, fmt.Errorf("officerRepo.GetByEmail: %w", err)
	}
	return &officer, nil
}
