package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loanlens/internal/domain"
	"loanlens/internal/handler"
	"loanlens/internal/service"
	"loanlens/internal/underwriting"
	"loanlens/mocks"
)

func newAnalysisHandler() (*handler.AnalysisHandler, *mocks.MockAnalysisService) {
	svc := new(mocks.MockAnalysisService)
	return handler.NewAnalysisHandler(svc, zap.NewNop()), svc
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	h, svc := newAnalysisHandler()
	appID, officer := uuid.New(), uuid.New()
	res := underwriting.AnalyzeProfiles(nil)

	svc.On("AnalyzeApplication", mock.Anything, appID, officer).Return(&service.AnalysisOutcome{
		Analysis: &domain.LoanAnalysis{ID: uuid.New(), Decision: string(res.Decision)},
		Result:   res,
	}, nil)

	c, w := newContext(http.MethodPost, "/", nil, officer, "id", appID.String())
	h.Analyze(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	result := data["result"].(map[string]any)
	assert.Equal(t, "APPROVED", result["decision"])
	assert.Contains(t, result, "risk_assessment")
	assert.Contains(t, result, "data_validation")
}

func TestAnalysisHandler_Analyze_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrExtractionInProgress, http.StatusConflict},
		{domain.ErrNoScorableDocuments, http.StatusUnprocessableEntity},
		{domain.ErrApplicationNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		h, svc := newAnalysisHandler()
		svc.On("AnalyzeApplication", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

		c, w := newContext(http.MethodPost, "/", nil, uuid.New(), "id", uuid.New().String())
		h.Analyze(c)
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}
}

func TestAnalysisHandler_History(t *testing.T) {
	h, svc := newAnalysisHandler()
	appID := uuid.New()
	svc.On("History", mock.Anything, appID, 0, 5).Return([]domain.LoanAnalysis{{ID: uuid.New()}}, 7, nil)

	c, w := newContext(http.MethodGet, "/?limit=5", nil, uuid.New(), "id", appID.String())
	h.History(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decode(t, w).Meta.Total)
}

func TestAnalysisHandler_Latest_NotFound(t *testing.T) {
	h, svc := newAnalysisHandler()
	appID := uuid.New()
	svc.On("Latest", mock.Anything, appID).Return(nil, domain.ErrAnalysisNotFound)

	c, w := newContext(http.MethodGet, "/", nil, uuid.New(), "id", appID.String())
	h.Latest(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalysisHandler_AnalyzeStateless(t *testing.T) {
	h, svc := newAnalysisHandler()
	svc.On("AnalyzeInputs", mock.Anything, mock.MatchedBy(func(in []underwriting.DocumentInput) bool {
		return len(in) == 2 && in[0].FileName == "paystub.pdf" && in[1].DeclaredType == "credit_report"
	})).Return(underwriting.AnalyzeProfiles(nil), nil)

	c, w := newContext(http.MethodPost, "/api/v1/analyze", strings.NewReader(`[
		{"file_name": "paystub.pdf", "fields": {"income": {"total_monthly_income": 8000}}},
		{"file_name": "report.pdf", "declared_type": "credit_report", "fields": {"credit_info": {"credit_score": 700}}}
	]`), uuid.New())
	withJSON(c)
	h.AnalyzeStateless(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"file_name": "x"}`), uuid.New())
	withJSON(c)
	h.AnalyzeStateless(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
