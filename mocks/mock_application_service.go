package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loanlens/internal/domain"
	"loanlens/internal/service"
)

// MockApplicationService is a mock implementation of service.ApplicationService.
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Create(ctx context.Context, input service.CreateApplicationInput) (*domain.LoanApplication, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanApplication), args.Error(1)
}

func (m *MockApplicationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanApplication), args.Error(1)
}

func (m *MockApplicationService) List(ctx context.Context, offset, limit int) ([]domain.LoanApplication, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.LoanApplication), args.Int(1), args.Error(2)
}

func (m *MockApplicationService) ListAll(ctx context.Context) ([]domain.LoanApplication, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanApplication), args.Error(1)
}
