package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loanlens/internal/domain"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.LoanDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, applicationID, docID uuid.UUID) (*domain.LoanDocument, error) {
	args := m.Called(ctx, applicationID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDocument), args.Error(1)
}

func (m *MockDocumentRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.LoanDocument, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanDocument), args.Error(1)
}

func (m *MockDocumentRepo) ClaimPending(ctx context.Context, limit int) ([]domain.LoanDocument, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanDocument), args.Error(1)
}

func (m *MockDocumentRepo) SaveExtraction(ctx context.Context, doc *domain.LoanDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepo) MarkExtractionFailed(ctx context.Context, docID uuid.UUID, reason string, nextRetryAt *time.Time) error {
	args := m.Called(ctx, docID, reason, nextRetryAt)
	return args.Error(0)
}
