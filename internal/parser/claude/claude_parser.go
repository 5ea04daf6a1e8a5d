package claude

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
	providerName = "claude"
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return NewParser(cfg), nil
	})
}

// Parser implements port.DocumentParser using the Anthropic Messages API.
type Parser struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewParser creates a Claude-based document parser from a provider config.
func NewParser(cfg *config.ParserProviderConfig) *Parser {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = apiURL
	}
	return NewParserWithEndpoint(cfg, endpoint)
}

// NewParserWithEndpoint creates a parser pointing at a custom API endpoint.
func NewParserWithEndpoint(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Parser{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	prompt := parser.BuildLoanExtractionPrompt(input.DeclaredType)

	contentBlocks, err := buildContentBlocks(input, prompt)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":      p.model,
		"max_tokens": 16384,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
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
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
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

func buildContentBlocks(input port.ParseInput, prompt string) ([]map[string]interface{}, error) {
	blockType := "image"
	switch input.ContentType {
	case "application/pdf":
		blockType = "document"
	case "image/jpeg", "image/png":
	default:
		return nil, fmt.Errorf("unsupported content type for parsing: %s", input.ContentType)
	}

	return []map[string]interface{}{
		{
			"type": blockType,
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": input.ContentType,
				"data":       base64.StdEncoding.EncodeToString(input.FileBytes),
			},
		},
		{"type": "text", "text": prompt},
	}, nil
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model, prompt string) (*port.ParseOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, parser.ErrEmptyResponse
	}
	if resp.StopReason == "max_tokens" {
		return nil, parser.ErrTruncated
	}
	return parser.DecodeExtraction(resp.Content[0].Text, model, prompt)
}
