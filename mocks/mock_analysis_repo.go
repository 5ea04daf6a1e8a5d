package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loanlens/internal/domain"
)

// MockAnalysisRepo is a mock implementation of port.AnalysisRepository.
type MockAnalysisRepo struct {
	mock.Mock
}

func (m *MockAnalysisRepo) Record(ctx context.Context, analysis *domain.LoanAnalysis, summary *domain.ApplicationSummary, scoredDocIDs []uuid.UUID) error {
	args := m.Called(ctx, analysis, summary, scoredDocIDs)
	return args.Error(0)
}

func (m *MockAnalysisRepo) GetLatest(ctx context.Context, applicationID uuid.UUID) (*domain.LoanAnalysis, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanAnalysis), args.Error(1)
}

func (m *MockAnalysisRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID, offset, limit int) ([]domain.LoanAnalysis, int, error) {
	args := m.Called(ctx, applicationID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.LoanAnalysis), args.Int(1), args.Error(2)
}
