package port

import (
	"context"

	"loanlens/internal/underwriting"
)

// AnalysisCache stores analysis results keyed by a digest of their inputs.
// Get returns domain.ErrCacheMiss when nothing is stored under key.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (*underwriting.AnalysisResult, error)
	Set(ctx context.Context, key string, result *underwriting.AnalysisResult) error
}
