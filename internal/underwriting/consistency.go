package underwriting

// DataQuality is the label derived from the consistency score.
type DataQuality string

const (
	DataQualityExcellent DataQuality = "excellent"
	DataQualityGood      DataQuality = "good"
	DataQualityFair      DataQuality = "fair"
	DataQualityPoor      DataQuality = "poor"
)

const (
	MissingDocumentPenalty   = 20
	NameMismatchPenalty      = 15
	NameInconsistencyFinding = "Name inconsistency across documents"
)

// ConsistencyReport describes agreement and completeness across documents.
// Score is not floored; enough penalties take it below zero.
type ConsistencyReport struct {
	Score            int            `json:"consistency_score"`
	Inconsistencies  []string       `json:"inconsistencies"`
	MissingDocuments []DocumentType `json:"missing_documents"`
	DataQuality      DataQuality    `json:"data_quality"`
}

// CheckConsistency looks for missing required document types and for
// disagreeing borrower names.
func CheckConsistency(partials []PartialProfile) ConsistencyReport {
	r := ConsistencyReport{
		Score:            100,
		Inconsistencies:  []string{},
		MissingDocuments: []DocumentType{},
	}

	seen := make(map[DocumentType]bool, len(partials))
	names := make(map[string]struct{})
	for i := range partials {
		seen[partials[i].DocumentType] = true
		if n := partials[i].BorrowerInfo.PrimaryName; n != "" {
			names[n] = struct{}{}
		}
	}

	for _, t := range RequiredDocumentTypes() {
		if !seen[t] {
			r.MissingDocuments = append(r.MissingDocuments, t)
			r.Score -= MissingDocumentPenalty
		}
	}
	if len(names) > 1 {
		r.Inconsistencies = append(r.Inconsistencies, NameInconsistencyFinding)
		r.Score -= NameMismatchPenalty
	}

	r.DataQuality = DataQualityFor(r.Score)
	return r
}

// DataQualityFor maps a consistency score to its label.
func DataQualityFor(score int) DataQuality {
	switch {
	case score >= 90:
		return DataQualityExcellent
	case score >= 80:
		return DataQualityGood
	case score >= 70:
		return DataQualityFair
	default:
		return DataQualityPoor
	}
}
