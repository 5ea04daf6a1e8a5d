package underwriting

// Decision is the lending outcome.
type Decision string

const (
	DecisionApproved            Decision = "APPROVED"
	DecisionConditionalApproval Decision = "CONDITIONAL_APPROVAL"
	DecisionDeclined            Decision = "DECLINED"
)

// Decide maps the final risk score to an outcome. Consistency findings are
// reported alongside but do not gate the decision.
func Decide(score int) Decision {
	switch {
	case score >= 70:
		return DecisionApproved
	case score >= 50:
		return DecisionConditionalApproval
	default:
		return DecisionDeclined
	}
}
