package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loanlens/internal/port"
)

// MockDecisionNotifier is a mock implementation of port.DecisionNotifier.
type MockDecisionNotifier struct {
	mock.Mock
}

func (m *MockDecisionNotifier) NotifyDecision(ctx context.Context, notice port.DecisionNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
