package noop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"loanlens/internal/email/noop"
	"loanlens/internal/port"
)

func TestNotifyDecision_Logs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := noop.NewNotifier(zap.New(core))

	require.NoError(t, n.NotifyDecision(context.Background(), port.DecisionNotice{
		ToEmail: "officer@bank.test", LoanNumber: "LN-1", Decision: "APPROVED", RiskScore: 90,
	}))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "LN-1", fields["loan_number"])
	assert.Equal(t, "APPROVED", fields["decision"])
	assert.Equal(t, int64(90), fields["risk_score"])
}
