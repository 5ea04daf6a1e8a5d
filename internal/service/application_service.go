package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loanlens/internal/domain"
	"loanlens/internal/port"
)

// CreateApplicationInput is the DTO for opening a loan application.
type CreateApplicationInput struct {
	LoanNumber      string    `json:"loan_number" validate:"required,max=64"`
	BorrowerName    string    `json:"borrower_name" validate:"required,max=255"`
	BorrowerEmail   string    `json:"borrower_email" validate:"omitempty,email"`
	LoanAmount      float64   `json:"loan_amount" validate:"gte=0"`
	PropertyAddress string    `json:"property_address" validate:"max=1024"`
	CreatedBy       uuid.UUID `json:"-" validate:"required"`
}

// ApplicationService defines the loan application contract.
type ApplicationService interface {
	Create(ctx context.Context, input CreateApplicationInput) (*domain.LoanApplication, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error)
	List(ctx context.Context, offset, limit int) ([]domain.LoanApplication, int, error)
	ListAll(ctx context.Context) ([]domain.LoanApplication, error)
}

type applicationService struct {
	appRepo port.ApplicationRepository
	logger  *zap.Logger
}

// NewApplicationService creates a new ApplicationService implementation.
func NewApplicationService(appRepo port.ApplicationRepository, logger *zap.Logger) ApplicationService {
	return &applicationService{appRepo: appRepo, logger: logger}
}

func (s *applicationService) Create(ctx context.Context, input CreateApplicationInput) (*domain.LoanApplication, error) {
	input.LoanNumber = strings.TrimSpace(input.LoanNumber)
	input.BorrowerName = strings.TrimSpace(input.BorrowerName)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	app := &domain.LoanApplication{
		LoanNumber:      input.LoanNumber,
		BorrowerName:    input.BorrowerName,
		BorrowerEmail:   strings.TrimSpace(input.BorrowerEmail),
		LoanAmount:      input.LoanAmount,
		PropertyAddress: strings.TrimSpace(input.PropertyAddress),
		Status:          domain.ApplicationStatusOpen,
		CreatedBy:       input.CreatedBy,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	s.logger.Info("loan application created",
		zap.String("application_id", app.ID.String()), zap.String("loan_number", app.LoanNumber))
	return app, nil
}

func (s *applicationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	return s.appRepo.GetByID(ctx, id)
}

func (s *applicationService) List(ctx context.Context, offset, limit int) ([]domain.LoanApplication, int, error) {
	apps, total, err := s.appRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("applicationService.List: %w", err)
	}
	return apps, total, nil
}

func (s *applicationService) ListAll(ctx context.Context) ([]domain.LoanApplication, error) {
	return s.appRepo.ListAll(ctx)
}
