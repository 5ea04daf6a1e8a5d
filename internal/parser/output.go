package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"loanlens/internal/port"
)

// DecodeExtraction turns the model's JSON answer into a ParseOutput. The
// extracted_text and confidence keys are lifted out; everything else is
// passed on untouched as the field payload.
func DecodeExtraction(text, model, prompt string) (*port.ParseOutput, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, truncate(text, 500))
	}

	out := &port.ParseOutput{ModelUsed: model, PromptUsed: prompt}
	if raw, ok := obj["extracted_text"]; ok {
		_ = json.Unmarshal(raw, &out.Text)
		delete(obj, "extracted_text")
	}
	if raw, ok := obj["confidence"]; ok {
		var c float64
		if json.Unmarshal(raw, &c) == nil {
			out.Confidence = scaleConfidence(c)
		}
		delete(obj, "confidence")
	}

	fields, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("re-encoding fields: %w", err)
	}
	out.Fields = fields
	return out, nil
}

// Some models answer 0..1 despite the prompt.
func scaleConfidence(c float64) float64 {
	if c > 0 && c <= 1 {
		c *= 100
	}
	switch {
	case c < 0:
		return 0
	case c > 100:
		return 100
	}
	return c
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ReadableMIME reports whether providers accept the content type inline.
func ReadableMIME(contentType string) bool {
	switch contentType {
	case "application/pdf", "image/jpeg", "image/png":
		return true
	}
	return false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
