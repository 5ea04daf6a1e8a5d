package openai

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
	providerName = "openai"
	apiURL       = "https://api.openai.com/v1/chat/completions"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return NewParser(cfg), nil
	})
}

// Parser implements port.DocumentParser using the OpenAI Chat Completions API.
type Parser struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewParser creates an OpenAI-based document parser from a provider config.
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
		model = "gpt-4o"
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

	block, err := fileBlock(input)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":                 p.model,
		"max_completion_tokens": 16384,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": []map[string]interface{}{block, {"type": "text", "text": prompt}},
			},
		},
		"response_format": map[string]interface{}{"type": "json_object"},
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
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
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

func fileBlock(input port.ParseInput) (map[string]interface{}, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", input.ContentType, base64.StdEncoding.EncodeToString(input.FileBytes))
	switch input.ContentType {
	case "application/pdf":
		name := input.FileName
		if name == "" {
			name = "document.pdf"
		}
		return map[string]interface{}{
			"type": "file",
			"file": map[string]interface{}{"filename": name, "file_data": dataURI},
		}, nil
	case "image/jpeg", "image/png":
		return map[string]interface{}{
			"type":      "image_url",
			"image_url": map[string]interface{}{"url": dataURI},
		}, nil
	}
	return nil, fmt.Errorf("unsupported content type for parsing: %s", input.ContentType)
}

type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte, model, prompt string) (*port.ParseOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, parser.ErrEmptyResponse
	}
	if resp.Choices[0].FinishReason == "length" {
		return nil, parser.ErrTruncated
	}
	return parser.DecodeExtraction(resp.Choices[0].Message.Content, model, prompt)
}
