package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loanlens/internal/domain"
	"loanlens/internal/metrics"
	"loanlens/internal/port"
	"loanlens/internal/underwriting"
)

// maxStatelessDocuments bounds POST /analyze payloads.
const maxStatelessDocuments = 100

// AnalysisOutcome is the result of analyzing a stored application.
type AnalysisOutcome struct {
	Analysis *domain.LoanAnalysis        `json:"analysis"`
	Result   *underwriting.AnalysisResult `json:"result"`
	Cached   bool                         `json:"cached"`
}

// AnalysisService defines the underwriting analysis contract.
type AnalysisService interface {
	AnalyzeApplication(ctx context.Context, applicationID, officerID uuid.UUID) (*AnalysisOutcome, error)
	History(ctx context.Context, applicationID uuid.UUID, offset, limit int) ([]domain.LoanAnalysis, int, error)
	Latest(ctx context.Context, applicationID uuid.UUID) (*domain.LoanAnalysis, error)
	AnalyzeInputs(ctx context.Context, inputs []underwriting.DocumentInput) (*underwriting.AnalysisResult, error)
}

// AnalysisDeps groups the collaborators of the analysis service. Cache may be nil.
type AnalysisDeps struct {
	Applications port.ApplicationRepository
	Documents    port.DocumentRepository
	Analyses     port.AnalysisRepository
	Officers     port.OfficerRepository
	Storage      port.ObjectStorage
	Cache        port.AnalysisCache
	Notifier     port.DecisionNotifier
	ReportBucket string
	FrontendURL  string
	Logger       *zap.Logger
}

type analysisService struct {
	deps AnalysisDeps
	now  func() time.Time
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(deps AnalysisDeps) AnalysisService {
	return &analysisService{deps: deps, now: time.Now}
}

func (s *analysisService) AnalyzeApplication(ctx context.Context, applicationID, officerID uuid.UUID) (*AnalysisOutcome, error) {
	log := s.deps.Logger.With(zap.String("application_id", applicationID.String()))

	app, err := s.deps.Applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	docs, err := s.deps.Documents.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("analysisService.AnalyzeApplication: %w", err)
	}

	inputs, docIDs, err := scorableInputs(docs)
	if err != nil {
		return nil, err
	}
	hash, err := InputHash(inputs)
	if err != nil {
		return nil, fmt.Errorf("analysisService.AnalyzeApplication: %w", err)
	}

	result, cached := s.lookup(ctx, log, hash)
	if result == nil {
		result, err = underwriting.Analyze(inputs)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidExtraction, err)
		}
		s.store(ctx, log, hash, result)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("analysisService.AnalyzeApplication: marshal result: %w", err)
	}

	analysis := &domain.LoanAnalysis{
		ID:               uuid.New(),
		ApplicationID:    applicationID,
		RiskScore:        result.Risk.Score,
		RiskLevel:        string(result.Risk.Level),
		Decision:         string(result.Decision),
		ConsistencyScore: result.Consistency.Score,
		DataQuality:      string(result.Consistency.DataQuality),
		DocumentCount:    result.Stats.DocumentsProcessed,
		InputHash:        hash,
		Result:           payload,
		CreatedBy:        officerID,
	}
	analysis.ReportKey = s.uploadReport(ctx, log, analysis, payload)

	if err := s.deps.Analyses.Record(ctx, analysis, summaryOf(result, s.now().UTC()), docIDs); err != nil {
		return nil, fmt.Errorf("analysisService.AnalyzeApplication: %w", err)
	}

	metrics.ObserveAnalysis(analysis.Decision, analysis.RiskScore)
	log.Info("application analyzed",
		zap.String("analysis_id", analysis.ID.String()),
		zap.String("decision", analysis.Decision),
		zap.Int("risk_score", analysis.RiskScore),
		zap.Int("consistency_score", analysis.ConsistencyScore),
		zap.Int("documents", analysis.DocumentCount),
		zap.Bool("cached", cached))

	s.notify(ctx, log, app, officerID, result)

	return &AnalysisOutcome{Analysis: analysis, Result: result, Cached: cached}, nil
}

// scorableInputs turns the application's documents into engine inputs in
// position order. Any document still being extracted blocks the analysis.
func scorableInputs(docs []domain.LoanDocument) ([]underwriting.DocumentInput, []uuid.UUID, error) {
	var (
		inputs []underwriting.DocumentInput
		ids    []uuid.UUID
	)
	for _, d := range docs {
		if d.Status.InFlight() {
			return nil, nil, domain.ErrExtractionInProgress
		}
		if !d.Status.Scorable() {
			continue
		}
		inputs = append(inputs, underwriting.DocumentInput{
			FileName:         d.FileName,
			DeclaredType:     d.DeclaredType,
			Text:             d.ExtractedText,
			Fields:           json.RawMessage(d.ExtractedFields),
			Confidence:       d.Confidence,
			ProcessingTimeMs: d.ProcessingTimeMs,
		})
		ids = append(ids, d.ID)
	}
	if len(inputs) == 0 {
		return nil, nil, domain.ErrNoScorableDocuments
	}
	return inputs, ids, nil
}

// InputHash is the SHA-256 of the canonical JSON encoding of inputs. Raw
// field payloads are compacted by the encoder, so whitespace does not matter.
func InputHash(inputs []underwriting.DocumentInput) (string, error) {
	b, err := json.Marshal(inputs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func (s *analysisService) lookup(ctx context.Context, log *zap.Logger, hash string) (*underwriting.AnalysisResult, bool) {
	if s.deps.Cache == nil {
		return nil, false
	}
	res, err := s.deps.Cache.Get(ctx, hash)
	switch {
	case err == nil:
		metrics.AnalysisCacheTotal.WithLabelValues(metrics.CacheHit).Inc()
		return res, true
	case errors.Is(err, domain.ErrCacheMiss):
		metrics.AnalysisCacheTotal.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		metrics.AnalysisCacheTotal.WithLabelValues(metrics.CacheError).Inc()
		log.Warn("analysis cache lookup failed", zap.Error(err))
	}
	return nil, false
}

func (s *analysisService) store(ctx context.Context, log *zap.Logger, hash string, res *underwriting.AnalysisResult) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Set(ctx, hash, res); err != nil {
		log.Warn("analysis cache write failed", zap.Error(err))
	}
}

// uploadReport stores the full JSON result next to the documents. A failed
// upload leaves the analysis without a report key.
func (s *analysisService) uploadReport(ctx context.Context, log *zap.Logger, a *domain.LoanAnalysis, payload []byte) string {
	if s.deps.Storage == nil || s.deps.ReportBucket == "" {
		return ""
	}
	key := fmt.Sprintf("reports/%s/%s.json", a.ApplicationID, a.ID)
	_, err := s.deps.Storage.Upload(ctx, port.UploadInput{
		Bucket:      s.deps.ReportBucket,
		Key:         key,
		Body:        bytes.NewReader(payload),
		ContentType: "application/json",
		Size:        int64(len(payload)),
	})
	if err != nil {
		log.Warn("analysis report upload failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}

func (s *analysisService) notify(ctx context.Context, log *zap.Logger, app *domain.LoanApplication, officerID uuid.UUID, res *underwriting.AnalysisResult) {
	if s.deps.Notifier == nil {
		return
	}
	officer, err := s.deps.Officers.GetByID(ctx, officerID)
	if err != nil {
		log.Warn("decision notice skipped", zap.Error(err))
		return
	}

	missing := make([]string, 0, len(res.Consistency.MissingDocuments))
	for _, t := range res.Consistency.MissingDocuments {
		missing = append(missing, string(t))
	}
	notice := port.DecisionNotice{
		ToEmail:          officer.Email,
		ToName:           officer.FullName,
		LoanNumber:       app.LoanNumber,
		BorrowerName:     app.BorrowerName,
		Decision:         string(res.Decision),
		RiskScore:        res.Risk.Score,
		RiskLevel:        string(res.Risk.Level),
		ConsistencyScore: res.Consistency.Score,
		MissingDocuments: missing,
		ApplicationURL:   fmt.Sprintf("%s/applications/%s", s.deps.FrontendURL, app.ID),
	}
	if err := s.deps.Notifier.NotifyDecision(ctx, notice); err != nil {
		log.Warn("decision notice failed", zap.String("to", officer.Email), zap.Error(err))
	}
}

func summaryOf(res *underwriting.AnalysisResult, at time.Time) *domain.ApplicationSummary {
	c := res.Combined
	return &domain.ApplicationSummary{
		RiskScore:     res.Risk.Score,
		RiskLevel:     string(res.Risk.Level),
		Decision:      string(res.Decision),
		DTIRatio:      res.Risk.DTIRatio,
		MonthlyIncome: c.Income.TotalMonthlyIncome,
		MonthlyDebts:  c.Debts.TotalMonthlyDebts,
		LiquidAssets:  c.Assets.TotalLiquidAssets,
		CreditScore:   c.CreditInfo.CreditScore,
		AnalyzedAt:    at,
	}
}

func (s *analysisService) History(ctx context.Context, applicationID uuid.UUID, offset, limit int) ([]domain.LoanAnalysis, int, error) {
	if _, err := s.deps.Applications.GetByID(ctx, applicationID); err != nil {
		return nil, 0, err
	}
	return s.deps.Analyses.ListByApplication(ctx, applicationID, offset, limit)
}

func (s *analysisService) Latest(ctx context.Context, applicationID uuid.UUID) (*domain.LoanAnalysis, error) {
	if _, err := s.deps.Applications.GetByID(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.deps.Analyses.GetLatest(ctx, applicationID)
}

func (s *analysisService) AnalyzeInputs(_ context.Context, inputs []underwriting.DocumentInput) (*underwriting.AnalysisResult, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrNoScorableDocuments
	}
	if len(inputs) > maxStatelessDocuments {
		return nil, fmt.Errorf("%w: at most %d documents per request", domain.ErrValidation, maxStatelessDocuments)
	}
	res, err := underwriting.Analyze(inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidExtraction, err)
	}
	return res, nil
}
