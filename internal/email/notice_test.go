package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanlens/internal/email"
	"loanlens/internal/port"
)

func TestRenderDecision(t *testing.T) {
	subject, html, text, err := email.RenderDecision(port.DecisionNotice{
		ToName:           "Dana",
		LoanNumber:       "LN-2024-001",
		BorrowerName:     "Michael <Martinez>",
		Decision:         "CONDITIONAL_APPROVAL",
		RiskScore:        60,
		RiskLevel:        "FAIR",
		ConsistencyScore: 80,
		MissingDocuments: []string{"tax_return"},
		ApplicationURL:   "http://localhost:3000/applications/1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Loan LN-2024-001 analysis: CONDITIONAL_APPROVAL", subject)
	assert.Contains(t, html, "Michael &lt;Martinez&gt;")
	assert.Contains(t, html, "tax_return")
	assert.Contains(t, html, `href="http://localhost:3000/applications/1"`)
	assert.Contains(t, text, "Risk score: 60 (FAIR)")
	assert.Contains(t, text, "Missing documents: tax_return")
}

func TestRenderDecision_OmitsEmptySections(t *testing.T) {
	_, html, text, err := email.RenderDecision(port.DecisionNotice{LoanNumber: "LN-1", Decision: "APPROVED"})
	require.NoError(t, err)
	assert.NotContains(t, html, "Missing documents")
	assert.NotContains(t, html, "Open application")
	assert.NotContains(t, text, "Missing documents")
}
