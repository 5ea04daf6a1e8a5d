package underwriting

import "fmt"

// Stats summarizes the extraction metadata of the analyzed documents.
type Stats struct {
	DocumentsProcessed    int     `json:"documents_processed"`
	AverageConfidence     float64 `json:"average_confidence"`
	TotalProcessingTimeMs int64   `json:"total_processing_time_ms"`
}

// AnalysisResult bundles everything produced for one application.
type AnalysisResult struct {
	Decision    Decision          `json:"decision"`
	Combined    CombinedProfile   `json:"combined_profile"`
	Risk        RiskAssessment    `json:"risk_assessment"`
	Consistency ConsistencyReport `json:"data_validation"`
	Stats       Stats             `json:"processing_stats"`
	Documents   []PartialProfile  `json:"documents"`
}

// Analyze normalizes the inputs in order and runs the full pipeline. The only
// error is an *InputError for a document whose fields are not an extraction
// payload at all.
func Analyze(inputs []DocumentInput) (*AnalysisResult, error) {
	partials := make([]PartialProfile, 0, len(inputs))
	for i, in := range inputs {
		p, err := Normalize(in)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		partials = append(partials, p)
	}
	return AnalyzeProfiles(partials), nil
}

// AnalyzeProfiles runs merge, scoring, consistency and decision over
// already-normalized profiles. The slice is copied, never modified.
func AnalyzeProfiles(partials []PartialProfile) *AnalysisResult {
	docs := make([]PartialProfile, len(partials))
	copy(docs, partials)

	combined := Merge(docs)
	risk := AssessRisk(&combined)
	return &AnalysisResult{
		Decision:    Decide(risk.Score),
		Combined:    combined,
		Risk:        risk,
		Consistency: CheckConsistency(docs),
		Stats:       summarize(docs),
		Documents:   docs,
	}
}

func summarize(docs []PartialProfile) Stats {
	s := Stats{DocumentsProcessed: len(docs)}
	if len(docs) == 0 {
		return s
	}
	var total float64
	for i := range docs {
		total += docs[i].Extraction.Confidence
		s.TotalProcessingTimeMs += docs[i].Extraction.ProcessingTimeMs
	}
	s.AverageConfidence = total / float64(len(docs))
	return s
}
