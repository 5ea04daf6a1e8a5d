package underwriting

// RiskLevel is the tier derived from the final risk score.
type RiskLevel string

const (
	RiskLevelExcellent RiskLevel = "EXCELLENT"
	RiskLevelGood      RiskLevel = "GOOD"
	RiskLevelFair      RiskLevel = "FAIR"
	RiskLevelPoor      RiskLevel = "POOR"
	RiskLevelHighRisk  RiskLevel = "HIGH_RISK"
)

// RiskFactor is one triggered rule.
type RiskFactor struct {
	Key            string `json:"key"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Impact         Impact `json:"impact"`
	PointsDeducted int    `json:"points_deducted"`
}

// RiskAssessment is the scored outcome for a combined profile.
type RiskAssessment struct {
	Score              int          `json:"overall_risk_score"`
	Level              RiskLevel    `json:"risk_level"`
	Factors            []RiskFactor `json:"risk_factors"`
	ApprovalLikelihood int          `json:"approval_likelihood"`
	DTIRatio           *float64     `json:"dti_ratio"`
}

var riskTiers = []struct {
	min   int
	level RiskLevel
}{
	{85, RiskLevelExcellent},
	{70, RiskLevelGood},
	{60, RiskLevelFair},
	{50, RiskLevelPoor},
}

var approvalSteps = []struct {
	min        int
	likelihood int
}{
	{80, 95},
	{70, 80},
	{60, 60},
}

// AssessRisk evaluates RiskRules against the combined profile.
func AssessRisk(c *CombinedProfile) RiskAssessment {
	facts := DeriveRiskFacts(&c.Profile)

	factors := []RiskFactor{}
	deducted := 0
	for _, r := range RiskRules() {
		if !r.Applies(facts) {
			continue
		}
		deducted += r.Points
		factors = append(factors, RiskFactor{
			Key:            r.Key,
			Category:       r.Category,
			Description:    r.Describe(facts),
			Impact:         r.Impact,
			PointsDeducted: r.Points,
		})
	}

	score := min(max(BaseRiskScore-deducted, 0), 100)
	return RiskAssessment{
		Score:              score,
		Level:              RiskLevelFor(score),
		Factors:            factors,
		ApprovalLikelihood: ApprovalLikelihood(score),
		DTIRatio:           facts.DTI,
	}
}

// RiskLevelFor maps a score to its tier.
func RiskLevelFor(score int) RiskLevel {
	for _, t := range riskTiers {
		if score >= t.min {
			return t.level
		}
	}
	return RiskLevelHighRisk
}

// ApprovalLikelihood maps a score to an approval percentage.
func ApprovalLikelihood(score int) int {
	for _, s := range approvalSteps {
		if score >= s.min {
			return s.likelihood
		}
	}
	return 30
}
