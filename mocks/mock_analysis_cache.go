package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loanlens/internal/underwriting"
)

// MockAnalysisCache is a mock implementation of port.AnalysisCache.
type MockAnalysisCache struct {
	mock.Mock
}

func (m *MockAnalysisCache) Get(ctx context.Context, key string) (*underwriting.AnalysisResult, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*underwriting.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisCache) Set(ctx context.Context, key string, result *underwriting.AnalysisResult) error {
	args := m.Called(ctx, key, result)
	return args.Error(0)
}
