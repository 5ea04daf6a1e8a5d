package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loanlens/internal/domain"
)

// MockOfficerRepo is a mock implementation of port.OfficerRepository.
type MockOfficerRepo struct {
	mock.Mock
}

func (m *MockOfficerRepo) Create(ctx context.Context, officer *domain.Officer) error {
	args := m.Called(ctx, officer)
	return args.Error(0)
}

func (m *MockOfficerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Officer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Officer), args.Error(1)
}

func (m *MockOfficerRepo) GetByEmail(ctx context.Context, email string) (*domain.Officer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Officer), args.Error(1)
}
