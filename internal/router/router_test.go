package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"loanlens/internal/domain"
	"loanlens/internal/handler"
	"loanlens/internal/router"
	"loanlens/internal/service"
	"loanlens/mocks"
)

type pingerFunc func() error

func (f pingerFunc) PingContext(context.Context) error { return f() }

type fixture struct {
	engine *gin.Engine
	auth   *mocks.MockAuthService
	apps   *mocks.MockApplicationService
}

func newRouter(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	authSvc := new(mocks.MockAuthService)
	authSvc.On("ValidateToken", "admin-token").Return(&service.Claims{OfficerID: uuid.New(), Role: domain.RoleAdmin}, nil)
	authSvc.On("ValidateToken", "uw-token").Return(&service.Claims{OfficerID: uuid.New(), Role: domain.RoleUnderwriter}, nil)

	appSvc := new(mocks.MockApplicationService)
	h := router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, log),
		Application: handler.NewApplicationHandler(appSvc, log),
		Document:    handler.NewDocumentHandler(new(mocks.MockDocumentService), log),
		Analysis:    handler.NewAnalysisHandler(new(mocks.MockAnalysisService), log),
		Health:      handler.NewHealthHandler(pingerFunc(func() error { return nil })),
	}
	return fixture{
		engine: router.Setup(authSvc, h, []string{"http://localhost:3000"}, log),
		auth:   authSvc,
		apps:   appSvc,
	}
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, http.NoBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSetup_PublicRoutes(t *testing.T) {
	f := newRouter(t)

	assert.Equal(t, http.StatusOK, do(f.engine, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(f.engine, http.MethodGet, "/readyz", "").Code)

	w := do(f.engine, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetup_ProtectedRoutesNeedToken(t *testing.T) {
	f := newRouter(t)
	id := uuid.New().String()

	for _, path := range []string{
		"/api/v1/applications",
		"/api/v1/applications/" + id,
		"/api/v1/applications/" + id + "/documents",
		"/api/v1/applications/" + id + "/analyses",
		"/api/v1/applications/" + id + "/analyses/latest",
	} {
		assert.Equal(t, http.StatusUnauthorized, do(f.engine, http.MethodGet, path, "").Code, path)
	}
	assert.Equal(t, http.StatusUnauthorized, do(f.engine, http.MethodPost, "/api/v1/analyze", "").Code)
}

func TestSetup_ExportIsAdminOnly(t *testing.T) {
	f := newRouter(t)
	f.apps.On("ListAll", mock.Anything).Return([]domain.LoanApplication{}, nil)

	w := do(f.engine, http.MethodGet, "/api/v1/applications/export", "uw-token")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(f.engine, http.MethodGet, "/api/v1/applications/export?format=csv", "admin-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
}

func TestSetup_ExportDoesNotShadowGetByID(t *testing.T) {
	f := newRouter(t)
	id := uuid.New()
	f.apps.On("GetByID", mock.Anything, id).Return(&domain.LoanApplication{ID: id}, nil)

	w := do(f.engine, http.MethodGet, "/api/v1/applications/"+id.String(), "uw-token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetup_CreateOfficerIsAdminOnly(t *testing.T) {
	f := newRouter(t)
	w := do(f.engine, http.MethodPost, "/api/v1/officers", "uw-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
