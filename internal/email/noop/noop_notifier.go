package noop

import (
	"context"

	"go.uber.org/zap"

	"loanlens/internal/port"
)

type notifier struct {
	logger *zap.Logger
}

// NewNotifier returns a DecisionNotifier that only logs the notice.
func NewNotifier(logger *zap.Logger) port.DecisionNotifier {
	return &notifier{logger: logger}
}

func (n *notifier) NotifyDecision(_ context.Context, notice port.DecisionNotice) error {
	n.logger.Info("decision notice (noop)",
		zap.String("to", notice.ToEmail),
		zap.String("loan_number", notice.LoanNumber),
		zap.String("decision", notice.Decision),
		zap.Int("risk_score", notice.RiskScore),
		zap.String("url", notice.ApplicationURL),
	)
	return nil
}
