package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"loanlens/internal/port"
)

// extractionTimeout caps a single LLM extraction including the download.
const extractionTimeout = 5 * time.Minute

// ExtractionQueueConfig holds settings for the extraction queue worker.
type ExtractionQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// ExtractionQueueWorker polls for pending documents and dispatches them for
// field extraction.
type ExtractionQueueWorker struct {
	docRepo    port.DocumentRepository
	docService DocumentService
	cfg        ExtractionQueueConfig
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewExtractionQueueWorker creates a new ExtractionQueueWorker.
func NewExtractionQueueWorker(docRepo port.DocumentRepository, docService DocumentService, cfg ExtractionQueueConfig, logger *zap.Logger) *ExtractionQueueWorker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &ExtractionQueueWorker{
		docRepo:    docRepo,
		docService: docService,
		cfg:        cfg,
		logger:     logger.Named("extraction_queue"),
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extractions have finished.
func (w *ExtractionQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	w.logger.Info("started",
		zap.Duration("poll", w.cfg.PollInterval),
		zap.Int("concurrency", w.cfg.Concurrency),
		zap.Int("max_retries", w.cfg.MaxRetries))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("shutting down, waiting for in-flight extractions")
			w.wg.Wait()
			w.logger.Info("shutdown complete")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

func (w *ExtractionQueueWorker) poll(ctx context.Context, sem chan struct{}) {
	available := w.cfg.Concurrency - len(sem)
	if available <= 0 {
		return
	}

	docs, err := w.docRepo.ClaimPending(ctx, available)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("claiming pending documents failed", zap.Error(err))
		}
		return
	}

	for i := range docs {
		doc := docs[i]

		sem <- struct{}{}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }()

			// Detached from the poll context so shutdown lets claimed
			// documents finish instead of stranding them in extracting.
			extractCtx, cancel := context.WithTimeout(context.Background(), extractionTimeout)
			defer cancel()

			w.logger.Debug("dispatching document",
				zap.String("document_id", doc.ID.String()),
				zap.Int("attempt", doc.ExtractionAttempts))
			w.docService.ExtractDocument(extractCtx, &doc, w.cfg.MaxRetries)
		}()
	}
}

