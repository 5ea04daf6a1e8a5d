package underwriting

import (
	"fmt"
	"math"
	"strings"
)

// Impact is the severity tier of a triggered risk factor.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Policy thresholds. These are fixed lending policy, not per-call settings.
const (
	BaseRiskScore            = 100
	DTIHighThreshold         = 43.0
	DTIVeryHighThreshold     = 50.0
	IncomeVarianceThreshold  = 0.15
	MinLiquidAssets          = 10000.0
	LowCreditScoreThreshold  = 620.0
	FairCreditScoreThreshold = 680.0
)

// RiskFacts are the values the rule table reads, derived once per assessment.
type RiskFacts struct {
	// DTI is debts/income*100; nil unless both figures are known and income > 0.
	DTI *float64
	// IncomeVariance is |base - annual/12| / base; nil unless both are known and base > 0.
	IncomeVariance   *float64
	LiquidAssets     *float64
	EmploymentLength string
	CreditScore      *float64
}

// RiskRule is one row of the scoring policy. Rules run in table order and
// each deducts Points when Applies reports true.
type RiskRule struct {
	Key      string
	Category string
	Impact   Impact
	Points   int
	Applies  func(f *RiskFacts) bool
	Describe func(f *RiskFacts) string
}

// RiskRules returns the scoring policy in evaluation order. Rules that share
// a key prefix are mutually exclusive bands of the same measure.
func RiskRules() []RiskRule {
	return []RiskRule{
		{
			Key: "risk.dti.very_high", Category: "Income", Impact: ImpactHigh, Points: 40,
			Applies: func(f *RiskFacts) bool { return f.DTI != nil && *f.DTI > DTIVeryHighThreshold },
			Describe: func(f *RiskFacts) string {
				return fmt.Sprintf("Very high DTI ratio: %.1f%%", *f.DTI)
			},
		},
		{
			Key: "risk.dti.high", Category: "Income", Impact: ImpactHigh, Points: 25,
			Applies: func(f *RiskFacts) bool {
				return f.DTI != nil && *f.DTI > DTIHighThreshold && *f.DTI <= DTIVeryHighThreshold
			},
			Describe: func(f *RiskFacts) string {
				return fmt.Sprintf("High DTI ratio: %.1f%%", *f.DTI)
			},
		},
		{
			Key: "risk.income.cross_check", Category: "Income Verification", Impact: ImpactHigh, Points: 20,
			Applies: func(f *RiskFacts) bool {
				return f.IncomeVariance != nil && *f.IncomeVariance > IncomeVarianceThreshold
			},
			Describe: func(f *RiskFacts) string {
				return fmt.Sprintf("Income inconsistency between documents: %.1f%%", *f.IncomeVariance*100)
			},
		},
		{
			Key: "risk.assets.low_reserves", Category: "Assets", Impact: ImpactMedium, Points: 15,
			Applies: func(f *RiskFacts) bool { return f.LiquidAssets != nil && *f.LiquidAssets < MinLiquidAssets },
			Describe: func(*RiskFacts) string { return "Low liquid asset reserves" },
		},
		{
			Key: "risk.employment.short_tenure", Category: "Employment", Impact: ImpactMedium, Points: 15,
			Applies: func(f *RiskFacts) bool {
				l := strings.ToLower(f.EmploymentLength)
				return strings.Contains(l, "month") && !strings.Contains(l, "year")
			},
			Describe: func(f *RiskFacts) string {
				return "Short employment history: " + f.EmploymentLength
			},
		},
		{
			Key: "risk.credit.low", Category: "Credit", Impact: ImpactHigh, Points: 30,
			// A reported score of 0 is present and deducts.
			Applies: func(f *RiskFacts) bool {
				return f.CreditScore != nil && *f.CreditScore < LowCreditScoreThreshold
			},
			Describe: func(f *RiskFacts) string {
				return fmt.Sprintf("Low credit score: %s", formatScore(*f.CreditScore))
			},
		},
		{
			Key: "risk.credit.fair", Category: "Credit", Impact: ImpactMedium, Points: 15,
			Applies: func(f *RiskFacts) bool {
				return f.CreditScore != nil &&
					*f.CreditScore >= LowCreditScoreThreshold && *f.CreditScore < FairCreditScoreThreshold
			},
			Describe: func(f *RiskFacts) string {
				return fmt.Sprintf("Fair credit score: %s", formatScore(*f.CreditScore))
			},
		},
	}
}

// DeriveRiskFacts computes the rule inputs from a combined profile.
func DeriveRiskFacts(p *Profile) *RiskFacts {
	f := &RiskFacts{
		LiquidAssets:     p.Assets.TotalLiquidAssets,
		EmploymentLength: p.Employment.EmploymentLength,
		CreditScore:      p.CreditInfo.CreditScore,
	}
	if income, debts := p.Income.TotalMonthlyIncome, p.Debts.TotalMonthlyDebts; income != nil && debts != nil && *income > 0 {
		dti := *debts * 100 / *income
		f.DTI = &dti
	}
	if base, annual := p.Income.BaseMonthlyIncome, p.Income.AnnualIncome; base != nil && annual != nil && *base > 0 {
		v := math.Abs(*base-*annual/12) / *base
		f.IncomeVariance = &v
	}
	return f
}

func formatScore(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
