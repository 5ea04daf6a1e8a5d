package port

import "context"

// DecisionNotice is what an officer is told after an analysis completes.
type DecisionNotice struct {
	ToEmail          string
	ToName           string
	LoanNumber       string
	BorrowerName     string
	Decision         string
	RiskScore        int
	RiskLevel        string
	ConsistencyScore int
	MissingDocuments []string
	ApplicationURL   string
}

// DecisionNotifier delivers decision notices.
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, notice DecisionNotice) error
}
