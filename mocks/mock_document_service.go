package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loanlens/internal/domain"
	"loanlens/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, input service.UploadDocumentInput) (*domain.LoanDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDocument), args.Error(1)
}

func (m *MockDocumentService) SubmitExtracted(ctx context.Context, input service.SubmitExtractedInput) (*domain.LoanDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDocument), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, applicationID uuid.UUID) ([]domain.LoanDocument, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanDocument), args.Error(1)
}

func (m *MockDocumentService) GetDownloadURL(ctx context.Context, applicationID, docID uuid.UUID) (string, error) {
	args := m.Called(ctx, applicationID, docID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) ExtractDocument(ctx context.Context, doc *domain.LoanDocument, maxAttempts int) {
	m.Called(ctx, doc, maxAttempts)
}
