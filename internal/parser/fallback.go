package parser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"loanlens/internal/port"
)

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero means closed
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackParser tries providers in order, skipping any whose circuit was
// opened by a rate limit.
type FallbackParser struct {
	parsers  []port.DocumentParser
	circuits []*circuitState
	names    []string
	logger   *zap.Logger
}

// NewFallbackParser creates a FallbackParser from an ordered list of parsers and their names.
func NewFallbackParser(parsers []port.DocumentParser, names []string, logger *zap.Logger) *FallbackParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	circuits := make([]*circuitState, len(parsers))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackParser{
		parsers:  parsers,
		circuits: circuits,
		names:    names,
		logger:   logger,
	}
}

func (f *FallbackParser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	noteReset := func(t time.Time) {
		if earliestReset.IsZero() || t.Before(earliestReset) {
			earliestReset = t
		}
	}

	for i, p := range f.parsers {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.logger.Debug("skipping rate-limited parser",
				zap.String("provider", f.names[i]), zap.Time("reset_at", resetAt))
			noteReset(resetAt)
			continue
		}

		out, err := p.Parse(ctx, input)
		if err == nil {
			return out, nil
		}

		f.logger.Warn("parser failed", zap.String("provider", f.names[i]), zap.Error(err))
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			noteReset(resetAt)
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := earliestReset.Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", errors.New("all parsers rate limited"), int(retryAfter.Seconds()))
	}
	return nil, fmt.Errorf("all parsers failed: %w", lastErr)
}
