package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loanlens/internal/domain"
	"loanlens/internal/service"
	"loanlens/internal/underwriting"
)

// MockAnalysisService is a mock implementation of service.AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) AnalyzeApplication(ctx context.Context, applicationID, officerID uuid.UUID) (*service.AnalysisOutcome, error) {
	args := m.Called(ctx, applicationID, officerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalysisOutcome), args.Error(1)
}

func (m *MockAnalysisService) History(ctx context.Context, applicationID uuid.UUID, offset, limit int) ([]domain.LoanAnalysis, int, error) {
	args := m.Called(ctx, applicationID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.LoanAnalysis), args.Int(1), args.Error(2)
}

func (m *MockAnalysisService) Latest(ctx context.Context, applicationID uuid.UUID) (*domain.LoanAnalysis, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanAnalysis), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeInputs(ctx context.Context, inputs []underwriting.DocumentInput) (*underwriting.AnalysisResult, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*underwriting.AnalysisResult), args.Error(1)
}
