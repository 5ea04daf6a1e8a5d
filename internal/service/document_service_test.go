package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loanlens/internal/config"
	"loanlens/internal/domain"
	"loanlens/internal/parser"
	"loanlens/internal/port"
	"loanlens/internal/service"
	"loanlens/mocks"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func upload(name string, body []byte) (multipart.File, *multipart.FileHeader) {
	return memFile{bytes.NewReader(body)}, &multipart.FileHeader{Filename: name, Size: int64(len(body))}
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

type docFixture struct {
	svc     service.DocumentService
	apps    *mocks.MockApplicationRepo
	docs    *mocks.MockDocumentRepo
	storage *mocks.MockObjectStorage
	parser  *mocks.MockDocumentParser
}

func setupDocumentService() docFixture {
	f := docFixture{
		apps:    new(mocks.MockApplicationRepo),
		docs:    new(mocks.MockDocumentRepo),
		storage: new(mocks.MockObjectStorage),
		parser:  new(mocks.MockDocumentParser),
	}
	cfg := &config.S3Config{Bucket: "loan-docs", MaxFileSizeMB: 1, PresignExpiry: 900}
	f.svc = service.NewDocumentService(f.apps, f.docs, f.storage, f.parser, cfg, zap.NewNop())
	return f
}

// --- Upload ---

func TestDocumentService_Upload_Success(t *testing.T) {
	f := setupDocumentService()
	appID, officerID := uuid.New(), uuid.New()

	f.apps.On("GetByID", mock.Anything, appID).Return(&domain.LoanApplication{ID: appID}, nil)
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "loan-docs" &&
			strings.HasPrefix(in.Key, "applications/"+appID.String()+"/documents/") &&
			strings.HasSuffix(in.Key, "/paystub_june.pdf") &&
			in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{}, nil)
	f.docs.On("Create", mock.Anything, mock.AnythingOfType("*domain.LoanDocument")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.LoanDocument).Position = 1 }).
		Return(nil)

	file, header := upload("paystub_june.pdf", pdfBytes)
	doc, err := f.svc.Upload(context.Background(), service.UploadDocumentInput{
		ApplicationID: appID,
		UploadedBy:    officerID,
		DeclaredType:  "Pay_Stub",
		File:          file,
		Header:        header,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusPending, doc.Status)
	assert.Equal(t, "pay_stub", doc.DeclaredType)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, 1, doc.Position)
	assert.Equal(t, officerID, doc.UploadedBy)
	assert.Contains(t, doc.S3Key, doc.ID.String())
	f.storage.AssertExpectations(t)
}

func TestDocumentService_Upload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		body     []byte
		declared string
		wantErr  error
	}{
		{"extension", "notes.txt", []byte("hello"), "", domain.ErrUnsupportedFileType},
		{"magic bytes", "fake.pdf", []byte("just some text pretending"), "", domain.ErrUnsupportedFileType},
		{"too large", "big.pdf", append(pdfBytes, make([]byte, 2<<20)...), "", domain.ErrFileTooLarge},
		{"declared type", "paystub.pdf", pdfBytes, "passport", domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupDocumentService()
			appID := uuid.New()
			f.apps.On("GetByID", mock.Anything, appID).Return(&domain.LoanApplication{ID: appID}, nil).Maybe()

			file, header := upload(tt.file, tt.body)
			_, err := f.svc.Upload(context.Background(), service.UploadDocumentInput{
				ApplicationID: appID, UploadedBy: uuid.New(), DeclaredType: tt.declared,
				File: file, Header: header,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestDocumentService_Upload_ApplicationNotFound(t *testing.T) {
	f := setupDocumentService()
	appID := uuid.New()
	f.apps.On("GetByID", mock.Anything, appID).Return(nil, domain.ErrApplicationNotFound)

	file, header := upload("paystub.pdf", pdfBytes)
	_, err := f.svc.Upload(context.Background(), service.UploadDocumentInput{
		ApplicationID: appID, File: file, Header: header,
	})
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestDocumentService_Upload_RecordFailureRemovesObject(t *testing.T) {
	f := setupDocumentService()
	appID := uuid.New()

	f.apps.On("GetByID", mock.Anything, appID).Return(&domain.LoanApplication{ID: appID}, nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.docs.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	f.storage.On("Delete", mock.Anything, "loan-docs", mock.AnythingOfType("string")).Return(nil)

	file, header := upload("bank.pdf", pdfBytes)
	_, err := f.svc.Upload(context.Background(), service.UploadDocumentInput{
		ApplicationID: appID, File: file, Header: header,
	})
	assert.Error(t, err)
	f.storage.AssertCalled(t, "Delete", mock.Anything, "loan-docs", mock.AnythingOfType("string"))
}

func TestDocumentService_Upload_StorageFailure(t *testing.T) {
	f := setupDocumentService()
	appID := uuid.New()

	f.apps.On("GetByID", mock.Anything, appID).Return(&domain.LoanApplication{ID: appID}, nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 unavailable"))

	file, header := upload("bank.pdf", pdfBytes)
	_, err := f.svc.Upload(context.Background(), service.UploadDocumentInput{
		ApplicationID: appID, File: file, Header: header,
	})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- SubmitExtracted ---

func TestDocumentService_SubmitExtracted_Success(t *testing.T) {
	f := setupDocumentService()
	appID := uuid.New()
	f.docs.On("Create", mock.Anything, mock.AnythingOfType("*domain.LoanDocument")).Return(nil)

	doc, err := f.svc.SubmitExtracted(context.Background(), service.SubmitExtractedInput{
		ApplicationID: appID,
		UploadedBy:    uuid.New(),
		FileName:      "scan_0042.pdf",
		Fields:        json.RawMessage(`{"document_type": "bank_statement", "assets": {"total_liquid_assets": 110000}}`),
		Confidence:    92,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusExtracted, doc.Status)
	assert.Equal(t, "bank_statement", doc.DocumentType)
	assert.Empty(t, doc.S3Key)
	assert.Equal(t, 92.0, doc.Confidence)
}

func TestDocumentService_SubmitExtracted_Malformed(t *testing.T) {
	f := setupDocumentService()

	_, err := f.svc.SubmitExtracted(context.Background(), service.SubmitExtractedInput{
		ApplicationID: uuid.New(),
		UploadedBy:    uuid.New(),
		FileName:      "paystub.pdf",
		Fields:        json.RawMessage(`["not", "an", "object"]`),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidExtraction)
	f.docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDocumentService_SubmitExtracted_Validation(t *testing.T) {
	f := setupDocumentService()

	_, err := f.svc.SubmitExtracted(context.Background(), service.SubmitExtractedInput{
		ApplicationID: uuid.New(),
		UploadedBy:    uuid.New(),
		Confidence:    150,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// --- List / GetDownloadURL ---

func TestDocumentService_List(t *testing.T) {
	f := setupDocumentService()
	appID := uuid.New()
	docs := []domain.LoanDocument{{ID: uuid.New(), Position: 1}, {ID: uuid.New(), Position: 2}}

	f.apps.On("GetByID", mock.Anything, appID).Return(&domain.LoanApplication{ID: appID}, nil)
	f.docs.On("ListByApplication", mock.Anything, appID).Return(docs, nil)

	got, err := f.svc.List(context.Background(), appID)
	require.NoError(t, err)
	assert.Equal(t, docs, got)
}

func TestDocumentService_GetDownloadURL(t *testing.T) {
	f := setupDocumentService()
	appID, docID := uuid.New(), uuid.New()

	f.docs.On("GetByID", mock.Anything, appID, docID).Return(&domain.LoanDocument{
		ID: docID, S3Bucket: "loan-docs", S3Key: "applications/x/documents/y/a.pdf",
	}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "loan-docs", "applications/x/documents/y/a.pdf", int64(900)).
		Return("https://signed.example/a.pdf", nil)

	url, err := f.svc.GetDownloadURL(context.Background(), appID, docID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/a.pdf", url)
}

func TestDocumentService_GetDownloadURL_SubmittedRecord(t *testing.T) {
	f := setupDocumentService()
	appID, docID := uuid.New(), uuid.New()
	f.docs.On("GetByID", mock.Anything, appID, docID).Return(&domain.LoanDocument{ID: docID}, nil)

	_, err := f.svc.GetDownloadURL(context.Background(), appID, docID)
	assert.ErrorIs(t, err, domain.ErrNoStoredFile)
}

// --- ExtractDocument ---

func claimedDoc(attempts int) *domain.LoanDocument {
	return &domain.LoanDocument{
		ID:                 uuid.New(),
		ApplicationID:      uuid.New(),
		FileName:           "paystub_june.pdf",
		ContentType:        "application/pdf",
		S3Bucket:           "loan-docs",
		S3Key:              "applications/a/documents/b/paystub_june.pdf",
		Status:             domain.DocumentStatusExtracting,
		ExtractionAttempts: attempts,
	}
}

func TestDocumentService_ExtractDocument_Success(t *testing.T) {
	f := setupDocumentService()
	doc := claimedDoc(1)

	f.storage.On("Download", mock.Anything, doc.S3Bucket, doc.S3Key).Return(pdfBytes, nil)
	f.parser.On("Parse", mock.Anything, mock.MatchedBy(func(in port.ParseInput) bool {
		return in.FileName == "paystub_june.pdf" && in.ContentType == "application/pdf"
	})).Return(&port.ParseOutput{
		Fields:     json.RawMessage(`{"income": {"total_monthly_income": 8500}}`),
		Text:       "EARNINGS STATEMENT",
		Confidence: 91,
		ModelUsed:  "gemini-1.5-flash",
	}, nil)
	f.docs.On("SaveExtraction", mock.Anything, doc).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)

	f.docs.AssertCalled(t, "SaveExtraction", mock.Anything, doc)
	assert.Equal(t, "pay_stub", doc.DocumentType)
	assert.Equal(t, "EARNINGS STATEMENT", doc.ExtractedText)
	assert.Equal(t, 91.0, doc.Confidence)
	assert.Equal(t, "gemini-1.5-flash", doc.ModelUsed)
	f.docs.AssertNotCalled(t, "MarkExtractionFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_ExtractDocument_RateLimitedRequeues(t *testing.T) {
	f := setupDocumentService()
	doc := claimedDoc(1)
	before := time.Now()

	f.storage.On("Download", mock.Anything, doc.S3Bucket, doc.S3Key).Return(pdfBytes, nil)
	f.parser.On("Parse", mock.Anything, mock.Anything).
		Return(nil, parser.NewRateLimitError("gemini", errors.New("quota"), 45))
	f.docs.On("MarkExtractionFailed", mock.Anything, doc.ID, mock.AnythingOfType("string"),
		mock.MatchedBy(func(at *time.Time) bool {
			return at != nil && !at.Before(before.Add(44*time.Second))
		})).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)

	f.docs.AssertExpectations(t)
	assert.Equal(t, domain.DocumentStatusPending, doc.Status)
	assert.Contains(t, doc.ExtractionError, "rate limited by gemini")
}

func TestDocumentService_ExtractDocument_GenericErrorBacksOff(t *testing.T) {
	f := setupDocumentService()
	doc := claimedDoc(2)
	before := time.Now()

	f.storage.On("Download", mock.Anything, doc.S3Bucket, doc.S3Key).Return(pdfBytes, nil)
	f.parser.On("Parse", mock.Anything, mock.Anything).Return(nil, errors.New("upstream 500"))
	f.docs.On("MarkExtractionFailed", mock.Anything, doc.ID, "upstream 500",
		mock.MatchedBy(func(at *time.Time) bool {
			return at != nil && !at.Before(before.Add(59*time.Second))
		})).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)
	f.docs.AssertExpectations(t)
}

func TestDocumentService_ExtractDocument_ExhaustedFails(t *testing.T) {
	f := setupDocumentService()
	doc := claimedDoc(3)

	f.storage.On("Download", mock.Anything, doc.S3Bucket, doc.S3Key).Return(nil, errors.New("no such key"))
	f.docs.On("MarkExtractionFailed", mock.Anything, doc.ID, mock.AnythingOfType("string"), (*time.Time)(nil)).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)

	f.docs.AssertExpectations(t)
	f.parser.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything)
	assert.Equal(t, domain.DocumentStatusFailed, doc.Status)
}

func TestDocumentService_ExtractDocument_MalformedOutputFailsImmediately(t *testing.T) {
	f := setupDocumentService()
	doc := claimedDoc(1)

	f.storage.On("Download", mock.Anything, doc.S3Bucket, doc.S3Key).Return(pdfBytes, nil)
	f.parser.On("Parse", mock.Anything, mock.Anything).Return(&port.ParseOutput{
		Fields: json.RawMessage(`{"income": "lots"}`),
	}, nil)
	f.docs.On("MarkExtractionFailed", mock.Anything, doc.ID, mock.AnythingOfType("string"), (*time.Time)(nil)).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)

	f.docs.AssertExpectations(t)
	f.docs.AssertNotCalled(t, "SaveExtraction", mock.Anything, mock.Anything)
}

func TestDocumentService_ExtractDocument_ReclaimedPastLimitFails(t *testing.T) {
	f := setupDocumentService()
	doc := claimedDoc(4)

	f.docs.On("MarkExtractionFailed", mock.Anything, doc.ID, "extraction abandoned after 3 attempts", (*time.Time)(nil)).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)

	f.docs.AssertExpectations(t)
	f.storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, domain.DocumentStatusFailed, doc.Status)
}
