package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loanlens/internal/config"
	"loanlens/internal/domain"
	"loanlens/internal/metrics"
	"loanlens/internal/parser"
	"loanlens/internal/port"
	"loanlens/internal/underwriting"
)

// retryBackoff is the delay before the next attempt after a non rate-limit
// extraction failure, multiplied by the attempt number.
const retryBackoff = 30 * time.Second

// UploadDocumentInput is the DTO for multipart document uploads.
type UploadDocumentInput struct {
	ApplicationID uuid.UUID
	UploadedBy    uuid.UUID
	DeclaredType  string
	File          multipart.File
	Header        *multipart.FileHeader
}

// SubmitExtractedInput is the DTO for documents the caller already ran
// through its own OCR/LLM pipeline.
type SubmitExtractedInput struct {
	ApplicationID    uuid.UUID       `json:"-" validate:"required"`
	UploadedBy       uuid.UUID       `json:"-" validate:"required"`
	FileName         string          `json:"file_name" validate:"required,max=512"`
	DeclaredType     string          `json:"declared_type" validate:"max=64"`
	Text             string          `json:"text"`
	Fields           json.RawMessage `json:"fields"`
	Confidence       float64         `json:"confidence" validate:"gte=0,lte=100"`
	ProcessingTimeMs int64           `json:"processing_time_ms" validate:"gte=0"`
	ModelUsed        string          `json:"model_used" validate:"max=128"`
}

// DocumentService defines the loan document contract.
type DocumentService interface {
	Upload(ctx context.Context, input UploadDocumentInput) (*domain.LoanDocument, error)
	SubmitExtracted(ctx context.Context, input SubmitExtractedInput) (*domain.LoanDocument, error)
	List(ctx context.Context, applicationID uuid.UUID) ([]domain.LoanDocument, error)
	GetDownloadURL(ctx context.Context, applicationID, docID uuid.UUID) (string, error)
	// ExtractDocument runs the parser on a claimed document and records the
	// outcome. It never returns an error; failures are written to the row.
	ExtractDocument(ctx context.Context, doc *domain.LoanDocument, maxAttempts int)
}

type documentService struct {
	appRepo port.ApplicationRepository
	docRepo port.DocumentRepository
	storage port.ObjectStorage
	parser  port.DocumentParser
	cfg     *config.S3Config
	logger  *zap.Logger
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	appRepo port.ApplicationRepository,
	docRepo port.DocumentRepository,
	storage port.ObjectStorage,
	docParser port.DocumentParser,
	cfg *config.S3Config,
	logger *zap.Logger,
) DocumentService {
	return &documentService{
		appRepo: appRepo,
		docRepo: docRepo,
		storage: storage,
		parser:  docParser,
		cfg:     cfg,
		logger:  logger,
	}
}

func checkDeclaredType(declared string) (string, error) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return "", nil
	}
	t, ok := underwriting.ParseDocumentType(declared)
	if !ok {
		return "", fmt.Errorf("%w: unknown document type %q", domain.ErrValidation, declared)
	}
	return string(t), nil
}

func (s *documentService) Upload(ctx context.Context, input UploadDocumentInput) (*domain.LoanDocument, error) {
	declared, err := checkDeclaredType(input.DeclaredType)
	if err != nil {
		return nil, err
	}
	if _, err := s.appRepo.GetByID(ctx, input.ApplicationID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if input.Header.Size > s.cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	// Magic bytes decide the content type, not the client header.
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	contentType := http.DetectContentType(buf[:n])
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	docID := uuid.New()
	fileName := path.Base(filepath.ToSlash(input.Header.Filename))
	key := fmt.Sprintf("applications/%s/documents/%s/%s", input.ApplicationID, docID, fileName)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	}); err != nil {
		s.logger.Error("document upload failed",
			zap.String("application_id", input.ApplicationID.String()), zap.Error(err))
		return nil, domain.ErrUploadFailed
	}

	doc := &domain.LoanDocument{
		ID:            docID,
		ApplicationID: input.ApplicationID,
		FileName:      fileName,
		DeclaredType:  declared,
		ContentType:   contentType,
		FileSize:      input.Header.Size,
		S3Bucket:      s.cfg.Bucket,
		S3Key:         key,
		Status:        domain.DocumentStatusPending,
		UploadedBy:    input.UploadedBy,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, s.cfg.Bucket, key); delErr != nil {
			s.logger.Warn("orphaned upload", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("documentService.Upload: %w", err)
	}

	s.logger.Info("document queued for extraction",
		zap.String("document_id", doc.ID.String()),
		zap.String("application_id", doc.ApplicationID.String()),
		zap.Int("position", doc.Position),
		zap.String("content_type", contentType))
	return doc, nil
}

func (s *documentService) SubmitExtracted(ctx context.Context, input SubmitExtractedInput) (*domain.LoanDocument, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	declared, err := checkDeclaredType(input.DeclaredType)
	if err != nil {
		return nil, err
	}

	partial, err := underwriting.Normalize(underwriting.DocumentInput{
		FileName:     input.FileName,
		DeclaredType: declared,
		Text:         input.Text,
		Fields:       input.Fields,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidExtraction, err)
	}

	doc := &domain.LoanDocument{
		ApplicationID:    input.ApplicationID,
		FileName:         input.FileName,
		DeclaredType:     declared,
		Status:           domain.DocumentStatusExtracted,
		DocumentType:     string(partial.DocumentType),
		ExtractedText:    input.Text,
		ExtractedFields:  domain.JSONPayload(input.Fields),
		Confidence:       input.Confidence,
		ProcessingTimeMs: input.ProcessingTimeMs,
		ModelUsed:        input.ModelUsed,
		UploadedBy:       input.UploadedBy,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, applicationID uuid.UUID) ([]domain.LoanDocument, error) {
	if _, err := s.appRepo.GetByID(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.docRepo.ListByApplication(ctx, applicationID)
}

func (s *documentService) GetDownloadURL(ctx context.Context, applicationID, docID uuid.UUID) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, applicationID, docID)
	if err != nil {
		return "", err
	}
	if doc.S3Key == "" {
		return "", domain.ErrNoStoredFile
	}
	return s.storage.GetPresignedURL(ctx, doc.S3Bucket, doc.S3Key, s.cfg.PresignExpiry)
}

func (s *documentService) ExtractDocument(ctx context.Context, doc *domain.LoanDocument, maxAttempts int) {
	log := s.logger.With(
		zap.String("document_id", doc.ID.String()),
		zap.Int("attempt", doc.ExtractionAttempts))

	// A reclaimed row that keeps stalling would otherwise be retried forever.
	if maxAttempts > 0 && doc.ExtractionAttempts > maxAttempts {
		s.failExtraction(ctx, log, doc, fmt.Sprintf("extraction abandoned after %d attempts", maxAttempts))
		return
	}

	fileBytes, err := s.storage.Download(ctx, doc.S3Bucket, doc.S3Key)
	if err != nil {
		s.handleExtractionError(ctx, log, doc, fmt.Errorf("downloading file: %w", err), maxAttempts)
		return
	}

	start := time.Now()
	out, err := s.parser.Parse(ctx, port.ParseInput{
		FileBytes:    fileBytes,
		ContentType:  doc.ContentType,
		FileName:     doc.FileName,
		DeclaredType: doc.DeclaredType,
	})
	elapsed := time.Since(start)
	metrics.ExtractionDuration.Observe(elapsed.Seconds())
	if err != nil {
		s.handleExtractionError(ctx, log, doc, err, maxAttempts)
		return
	}

	partial, err := underwriting.Normalize(underwriting.DocumentInput{
		FileName:     doc.FileName,
		DeclaredType: doc.DeclaredType,
		Text:         out.Text,
		Fields:       out.Fields,
	})
	if err != nil {
		// The model answered but not with an extraction payload; retrying
		// the same document is unlikely to help.
		s.failExtraction(ctx, log, doc, err.Error())
		return
	}

	doc.DocumentType = string(partial.DocumentType)
	doc.ExtractedText = out.Text
	doc.ExtractedFields = domain.JSONPayload(out.Fields)
	doc.Confidence = out.Confidence
	doc.ProcessingTimeMs = elapsed.Milliseconds()
	doc.ModelUsed = out.ModelUsed
	if err := s.docRepo.SaveExtraction(ctx, doc); err != nil {
		log.Error("saving extraction failed", zap.Error(err))
		return
	}
	metrics.ExtractionsTotal.WithLabelValues(metrics.ExtractionSucceeded).Inc()
	log.Info("document extracted",
		zap.String("document_type", doc.DocumentType),
		zap.String("model", doc.ModelUsed),
		zap.Float64("confidence", doc.Confidence),
		zap.Duration("elapsed", elapsed))
}

// handleExtractionError requeues the document while attempts remain. Rate
// limits wait for the provider's Retry-After; other failures back off linearly.
func (s *documentService) handleExtractionError(ctx context.Context, log *zap.Logger, doc *domain.LoanDocument, extractErr error, maxAttempts int) {
	if doc.ExtractionAttempts >= maxAttempts {
		s.failExtraction(ctx, log, doc, extractErr.Error())
		return
	}

	delay := time.Duration(doc.ExtractionAttempts) * retryBackoff
	reason := extractErr.Error()
	var rlErr *parser.RateLimitError
	if errors.As(extractErr, &rlErr) {
		delay = rlErr.RetryAfter
		reason = fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider)
	}
	retryAt := time.Now().Add(delay).UTC()

	if err := s.docRepo.MarkExtractionFailed(ctx, doc.ID, reason, &retryAt); err != nil {
		log.Error("requeueing document failed", zap.Error(err))
		return
	}
	doc.Status = domain.DocumentStatusPending
	doc.ExtractionError = reason
	doc.NextRetryAt = &retryAt
	metrics.ExtractionsTotal.WithLabelValues(metrics.ExtractionRetried).Inc()
	log.Warn("extraction failed, will retry", zap.Error(extractErr), zap.Time("retry_at", retryAt))
}

func (s *documentService) failExtraction(ctx context.Context, log *zap.Logger, doc *domain.LoanDocument, reason string) {
	if err := s.docRepo.MarkExtractionFailed(ctx, doc.ID, reason, nil); err != nil {
		log.Error("marking extraction failed", zap.Error(err))
		return
	}
	doc.Status = domain.DocumentStatusFailed
	doc.ExtractionError = reason
	metrics.ExtractionsTotal.WithLabelValues(metrics.ExtractionFailed).Inc()
	log.Error("extraction failed permanently", zap.String("reason", reason))
}
