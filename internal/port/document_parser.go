package port

import (
	"context"
	"encoding/json"
)

// ParseInput carries a raw loan document to a field extractor.
type ParseInput struct {
	FileBytes    []byte
	ContentType  string
	FileName     string
	DeclaredType string
}

// ParseOutput is the structured result of an LLM extraction. Fields uses the
// extraction payload layout consumed by underwriting.Normalize.
type ParseOutput struct {
	Fields     json.RawMessage
	Text       string
	Confidence float64
	ModelUsed  string
	PromptUsed string
}

// DocumentParser abstracts LLM-based field extraction from a loan document.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
