package underwriting_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanlens/internal/underwriting"
)

func martinezFile() []underwriting.DocumentInput {
	return []underwriting.DocumentInput{
		{
			FileName: "paystub_june.pdf",
			Fields: json.RawMessage(`{
				"employment": {"employer_name": "Northwind", "employment_length": "5 years"},
				"income": {"base_monthly_income": 8500, "total_monthly_income": 8500}
			}`),
			Confidence:       90,
			ProcessingTimeMs: 1500,
		},
		{
			FileName: "bank_statement_may.pdf",
			Fields: json.RawMessage(`{
				"assets": {"total_liquid_assets": 110000},
				"debts": {"total_monthly_debts": 2380}
			}`),
			Confidence:       95,
			ProcessingTimeMs: 1000,
		},
		{
			FileName: "tax_return_2023.pdf",
			Fields: json.RawMessage(`{
				"borrower_info": {"primary_name": "Michael Martinez"},
				"income": {"annual_income": 102000}
			}`),
			Confidence:       85,
			ProcessingTimeMs: 2500,
		},
	}
}

func TestAnalyze_CleanApplication(t *testing.T) {
	res, err := underwriting.Analyze(martinezFile())
	require.NoError(t, err)

	assert.Equal(t, underwriting.DecisionApproved, res.Decision)
	assert.Equal(t, 100, res.Risk.Score)
	assert.Equal(t, underwriting.RiskLevelExcellent, res.Risk.Level)
	assert.Equal(t, 95, res.Risk.ApprovalLikelihood)
	assert.Empty(t, res.Risk.Factors)
	require.NotNil(t, res.Risk.DTIRatio)
	assert.InDelta(t, 28.0, *res.Risk.DTIRatio, 0.01)

	assert.Equal(t, 100, res.Consistency.Score)
	assert.Empty(t, res.Consistency.MissingDocuments)
	assert.Equal(t, underwriting.DataQualityExcellent, res.Consistency.DataQuality)

	assert.Equal(t, []underwriting.DocumentType{
		underwriting.DocumentTypePayStub,
		underwriting.DocumentTypeBankStatement,
		underwriting.DocumentTypeTaxReturn,
	}, res.Combined.DocumentTypes)
	assert.Equal(t, "Michael Martinez", res.Combined.BorrowerInfo.PrimaryName)
	assert.Equal(t, 100.0, res.Combined.Completeness)

	assert.Equal(t, 3, res.Stats.DocumentsProcessed)
	assert.InDelta(t, 90.0, res.Stats.AverageConfidence, 0.0001)
	assert.Equal(t, int64(5000), res.Stats.TotalProcessingTimeMs)
	assert.Len(t, res.Documents, 3)
}

func TestAnalyze_HighRiskApplication(t *testing.T) {
	inputs := []underwriting.DocumentInput{
		{
			DeclaredType: "pay_stub",
			Fields:       json.RawMessage(`{"income": {"total_monthly_income": 6000}}`),
		},
		{
			DeclaredType: "bank_statement",
			Fields:       json.RawMessage(`{"assets": {"total_liquid_assets": 5000}, "debts": {"total_monthly_debts": 3300}}`),
		},
		{
			DeclaredType: "credit_report",
			Fields:       json.RawMessage(`{"credit_info": {"credit_score": 600}}`),
		},
	}
	res, err := underwriting.Analyze(inputs)
	require.NoError(t, err)

	assert.Equal(t, 15, res.Risk.Score)
	assert.Equal(t, underwriting.RiskLevelHighRisk, res.Risk.Level)
	assert.Equal(t, underwriting.DecisionDeclined, res.Decision)
	assert.Equal(t, []string{"risk.dti.very_high", "risk.assets.low_reserves", "risk.credit.low"}, factorKeys(res.Risk.Factors))
	assert.Equal(t, 80, res.Consistency.Score)
}

func TestAnalyze_DecisionIgnoresConsistency(t *testing.T) {
	inputs := []underwriting.DocumentInput{
		{FileName: "paystub.pdf", Fields: json.RawMessage(`{"borrower_info": {"primary_name": "Ann Lee"}}`)},
		{FileName: "scan.jpg", Fields: json.RawMessage(`{"borrower_info": {"primary_name": "Bob Stone"}}`)},
	}
	res, err := underwriting.Analyze(inputs)
	require.NoError(t, err)

	assert.Equal(t, 100-40-15, res.Consistency.Score)
	assert.Equal(t, []string{underwriting.NameInconsistencyFinding}, res.Consistency.Inconsistencies)
	assert.Equal(t, underwriting.DecisionApproved, res.Decision)
}

func TestAnalyze_Empty(t *testing.T) {
	res, err := underwriting.Analyze(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Stats.DocumentsProcessed)
	assert.Equal(t, 0.0, res.Stats.AverageConfidence)
	assert.Equal(t, 40, res.Consistency.Score)
	assert.Len(t, res.Consistency.MissingDocuments, 3)
	assert.Equal(t, underwriting.DataQualityPoor, res.Consistency.DataQuality)
	assert.Empty(t, res.Documents)

	// No facts means no deductions; callers refuse empty input before this.
	assert.Equal(t, 100, res.Risk.Score)
	assert.Equal(t, underwriting.RiskLevelExcellent, res.Risk.Level)
	assert.Equal(t, underwriting.DecisionApproved, res.Decision)

	_, err = json.Marshal(res)
	assert.NoError(t, err)
}

func TestAnalyze_MalformedDocumentFailsFast(t *testing.T) {
	inputs := martinezFile()
	inputs[1].Fields = json.RawMessage(`["not", "an", "object"]`)

	res, err := underwriting.Analyze(inputs)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, underwriting.ErrMalformedInput))
	assert.Contains(t, err.Error(), "document 1")
}

func TestAnalyze_Deterministic(t *testing.T) {
	a, err := underwriting.Analyze(martinezFile())
	require.NoError(t, err)
	b, err := underwriting.Analyze(martinezFile())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAnalyzeProfiles_DoesNotMutateInput(t *testing.T) {
	in := []underwriting.PartialProfile{
		doc(underwriting.DocumentTypeTaxReturn, "A"),
		doc(underwriting.DocumentTypePayStub, "A"),
	}
	res := underwriting.AnalyzeProfiles(in)
	res.Documents[0].DocumentType = underwriting.DocumentTypeOther

	assert.Equal(t, underwriting.DocumentTypeTaxReturn, in[0].DocumentType)
}
