package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loanlens/internal/domain"
)

// MockApplicationRepo is a mock implementation of port.ApplicationRepository.
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.LoanApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanApplication), args.Error(1)
}

func (m *MockApplicationRepo) List(ctx context.Context, offset, limit int) ([]domain.LoanApplication, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.LoanApplication), args.Int(1), args.Error(2)
}

func (m *MockApplicationRepo) ListAll(ctx context.Context) ([]domain.LoanApplication, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanApplication), args.Error(1)
}
