package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanlens/internal/config"
	"loanlens/internal/parser"
	"loanlens/internal/parser/claude"
	"loanlens/internal/port"
)

func newTestParser(url string) *claude.Parser {
	return claude.NewParserWithEndpoint(&config.ParserProviderConfig{
		Provider:    "claude",
		APIKey:      "test-claude-key",
		TimeoutSecs: 5,
	}, url)
}

func TestParse_Image(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-claude-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-sonnet-4-20250514", body["model"])
		content := body["messages"].([]interface{})[0].(map[string]interface{})["content"].([]interface{})
		assert.Len(t, content, 2)
		assert.Equal(t, "image", content[0].(map[string]interface{})["type"])
		assert.Equal(t, "text", content[1].(map[string]interface{})["type"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content":     []map[string]interface{}{{"type": "text", "text": `{"credit_info":{"credit_score":712},"confidence":88}`}},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	out, err := newTestParser(server.URL).Parse(context.Background(), port.ParseInput{
		FileBytes: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, 88.0, out.Confidence)
	assert.JSONEq(t, `{"credit_info":{"credit_score":712}}`, string(out.Fields))
}

func TestParse_PDFUsesDocumentBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		content := body["messages"].([]interface{})[0].(map[string]interface{})["content"].([]interface{})
		assert.Equal(t, "document", content[0].(map[string]interface{})["type"])
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{}"}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Parse(context.Background(), port.ParseInput{ContentType: "application/pdf"})
	require.NoError(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"rate limited", http.StatusTooManyRequests, `{}`, func(t *testing.T, err error) {
			var rl *parser.RateLimitError
			assert.True(t, errors.As(err, &rl))
		}},
		{"server error", http.StatusInternalServerError, `oops`, func(t *testing.T, err error) {
			assert.Contains(t, err.Error(), "status 500")
		}},
		{"truncated", http.StatusOK, `{"content":[{"type":"text","text":"{"}],"stop_reason":"max_tokens"}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, parser.ErrTruncated)
		}},
		{"empty", http.StatusOK, `{"content":[]}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, parser.ErrEmptyResponse)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestParser(server.URL).Parse(context.Background(), port.ParseInput{ContentType: "application/pdf"})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestParse_UnsupportedContentType(t *testing.T) {
	_, err := newTestParser("http://unused").Parse(context.Background(), port.ParseInput{ContentType: "application/zip"})
	assert.ErrorContains(t, err, "unsupported content type")
}
