package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"loanlens/internal/handler"
	"loanlens/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newContext builds a test context authenticated as officer with the given
// path params ("key", "value", ...).
func newContext(method, path string, body io.Reader, officer uuid.UUID, params ...string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, body)
	if officer != uuid.Nil {
		c.Set(middleware.ContextKeyOfficerID, officer)
		c.Set(middleware.ContextKeyRole, "underwriter")
	}
	for i := 0; i+1 < len(params); i += 2 {
		c.Params = append(c.Params, gin.Param{Key: params[i], Value: params[i+1]})
	}
	return c, w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func withJSON(c *gin.Context) {
	c.Request.Header.Set("Content-Type", "application/json")
}

