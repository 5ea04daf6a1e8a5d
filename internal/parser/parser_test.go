package parser_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loanlens/internal/config"
	"loanlens/internal/parser"
	"loanlens/internal/port"
	"loanlens/internal/underwriting"
)

func TestDecodeExtraction_LiftsTextAndConfidence(t *testing.T) {
	out, err := parser.DecodeExtraction(`{
		"document_type": "pay_stub",
		"extracted_text": "ACME PAYROLL",
		"confidence": 92,
		"income": {"base_monthly_income": 8500}
	}`, "m", "p")
	require.NoError(t, err)

	assert.Equal(t, "ACME PAYROLL", out.Text)
	assert.Equal(t, 92.0, out.Confidence)
	assert.Equal(t, "m", out.ModelUsed)
	assert.Equal(t, "p", out.PromptUsed)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out.Fields, &fields))
	assert.Contains(t, fields, "income")
	assert.Contains(t, fields, "document_type")
	assert.NotContains(t, fields, "extracted_text")
	assert.NotContains(t, fields, "confidence")
}

func TestDecodeExtraction_CodeFenceAndFractionalConfidence(t *testing.T) {
	out, err := parser.DecodeExtraction("```json\n{\"confidence\": 0.85}\n```", "m", "p")
	require.NoError(t, err)
	assert.InDelta(t, 85.0, out.Confidence, 0.0001)
	assert.JSONEq(t, `{}`, string(out.Fields))
}

func TestDecodeExtraction_Errors(t *testing.T) {
	_, err := parser.DecodeExtraction("  ", "m", "p")
	assert.ErrorIs(t, err, parser.ErrEmptyResponse)

	_, err = parser.DecodeExtraction("I could not read this document", "m", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing LLM JSON output")
}

func TestBuildLoanExtractionPrompt(t *testing.T) {
	withHint := parser.BuildLoanExtractionPrompt("bank_statement")
	assert.Contains(t, withHint, "labelled this document as bank_statement")
	assert.Contains(t, withHint, "total_monthly_debts")
	assert.NotContains(t, withHint, "{{HINT}}")

	noHint := parser.BuildLoanExtractionPrompt(" ")
	assert.NotContains(t, noHint, "labelled")
}

func TestBuildLoanExtractionPrompt_DebtKeysReachProfile(t *testing.T) {
	m := regexp.MustCompile(`"debts": \{([^}]*)\}`).FindStringSubmatch(parser.BuildLoanExtractionPrompt(""))
	require.Len(t, m, 2)

	var pairs []string
	for _, key := range strings.Split(m[1], ",") {
		pairs = append(pairs, strings.TrimSpace(key)+": 100")
	}
	answer := `{"document_type": "credit_report", "debts": {` + strings.Join(pairs, ", ") + `}}`

	out, err := parser.DecodeExtraction(answer, "m", "p")
	require.NoError(t, err)
	partial, err := underwriting.Normalize(underwriting.DocumentInput{FileName: "report.pdf", Fields: out.Fields})
	require.NoError(t, err)

	debts := partial.Debts
	for name, v := range map[string]*float64{
		"housing":      debts.HousingPayment,
		"auto":         debts.AutoPayment,
		"credit_card":  debts.CreditCardPayment,
		"student_loan": debts.StudentLoanPayment,
		"total":        debts.TotalMonthlyDebts,
	} {
		if assert.NotNil(t, v, name) {
			assert.Equal(t, 100.0, *v, name)
		}
	}
}

func TestRateLimitError(t *testing.T) {
	base := errors.New("429")
	err := parser.NewRateLimitError("gemini", base, 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "gemini rate limited")

	assert.Equal(t, 30, parser.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, parser.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, parser.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestStatusError(t *testing.T) {
	err := parser.StatusError("claude", 429, []byte("slow down"), "12")
	var rl *parser.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 12*time.Second, rl.RetryAfter)

	err = parser.StatusError("claude", 500, []byte("boom"), "")
	assert.False(t, errors.As(err, &rl))
	assert.Contains(t, err.Error(), "status 500")
}

type stubParser struct{ model string }

func (s *stubParser) Parse(_ context.Context, _ port.ParseInput) (*port.ParseOutput, error) {
	return &port.ParseOutput{ModelUsed: s.model}, nil
}

func TestFactory_RegisterAndCreate(t *testing.T) {
	parser.RegisterProvider("test-provider", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return &stubParser{model: cfg.DefaultModel}, nil
	})

	p, err := parser.NewParser(&config.ParserProviderConfig{Provider: "test-provider", DefaultModel: "test-model"})
	require.NoError(t, err)
	out, err := p.Parse(context.Background(), port.ParseInput{})
	require.NoError(t, err)
	assert.Equal(t, "test-model", out.ModelUsed)
	assert.Contains(t, parser.Providers(), "test-provider")
}

func TestFactory_UnknownProvider(t *testing.T) {
	p, err := parser.NewParser(&config.ParserProviderConfig{Provider: "nonexistent-provider-xyz"})
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parser provider")
}

func TestBuild(t *testing.T) {
	parser.RegisterProvider("stub-a", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return &stubParser{model: "a"}, nil
	})
	parser.RegisterProvider("stub-b", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return &stubParser{model: "b"}, nil
	})

	single, err := parser.Build(&config.ParserConfig{Primary: config.ParserProviderConfig{Provider: "stub-a"}}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &stubParser{}, single)

	chain, err := parser.Build(&config.ParserConfig{
		Primary:   config.ParserProviderConfig{Provider: "stub-a"},
		Secondary: config.ParserProviderConfig{Provider: "stub-b"},
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &parser.FallbackParser{}, chain)

	_, err = parser.Build(&config.ParserConfig{
		Primary:   config.ParserProviderConfig{Provider: "stub-a"},
		Secondary: config.ParserProviderConfig{Provider: "missing"},
	}, zap.NewNop())
	assert.ErrorContains(t, err, "secondary parser")
}
