package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"loanlens/internal/config"
	"loanlens/internal/parser"
	"loanlens/internal/port"
)

const (
	providerName = "gemini"
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return NewParser(cfg), nil
	})
}

// Parser implements port.DocumentParser using Google's Gemini API.
type Parser struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewParser creates a Gemini-based document parser. A non-empty BaseURL
// replaces the public endpoint.
func NewParser(cfg *config.ParserProviderConfig) *Parser {
	return NewParserWithEndpoint(cfg, cfg.BaseURL)
}

// NewParserWithEndpoint creates a parser pointing at a custom API endpoint.
func NewParserWithEndpoint(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-1.5-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Parser{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	if !parser.ReadableMIME(input.ContentType) {
		return nil, fmt.Errorf("unsupported content type for parsing: %s", input.ContentType)
	}
	prompt := parser.BuildLoanExtractionPrompt(input.DeclaredType)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"inline_data": map[string]interface{}{
							"mime_type": input.ContentType,
							"data":      base64.StdEncoding.EncodeToString(input.FileBytes),
						},
					},
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  16384,
			"temperature":      0,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parser.StatusError(providerName, resp.StatusCode, respBody, resp.Header.Get("Retry-After"))
	}

	return parseResponse(respBody, p.model, prompt)
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte, model, prompt string) (*port.ParseOutput, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, parser.ErrEmptyResponse
	}
	if resp.Candidates[0].FinishReason == "MAX_TOKENS" {
		return nil, parser.ErrTruncated
	}
	return parser.DecodeExtraction(resp.Candidates[0].Content.Parts[0].Text, model, prompt)
}
