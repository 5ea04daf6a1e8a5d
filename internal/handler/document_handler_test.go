package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loanlens/internal/domain"
	"loanlens/internal/handler"
	"loanlens/internal/service"
	"loanlens/mocks"
)

func newDocumentHandler() (*handler.DocumentHandler, *mocks.MockDocumentService) {
	svc := new(mocks.MockDocumentService)
	return handler.NewDocumentHandler(svc, zap.NewNop()), svc
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestDocumentHandler_Upload(t *testing.T) {
	h, svc := newDocumentHandler()
	appID, officer := uuid.New(), uuid.New()

	svc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadDocumentInput) bool {
		return in.ApplicationID == appID && in.UploadedBy == officer &&
			in.DeclaredType == "bank_statement" && in.Header.Filename == "may.pdf"
	})).Return(&domain.LoanDocument{ID: uuid.New(), Status: domain.DocumentStatusPending}, nil)

	body, ct := multipartBody(t, "may.pdf", []byte("%PDF-1.4"), map[string]string{"declared_type": "bank_statement"})
	c, w := newContext(http.MethodPost, "/", body, officer, "id", appID.String())
	c.Request.Header.Set("Content-Type", ct)
	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestDocumentHandler_Upload_MissingFile(t *testing.T) {
	h, svc := newDocumentHandler()

	body, ct := multipartBody(t, "", nil, map[string]string{"declared_type": "w2"})
	c, w := newContext(http.MethodPost, "/", body, uuid.New(), "id", uuid.New().String())
	c.Request.Header.Set("Content-Type", ct)
	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDocumentHandler_Upload_TooLarge(t *testing.T) {
	h, svc := newDocumentHandler()
	svc.On("Upload", mock.Anything, mock.Anything).Return(nil, domain.ErrFileTooLarge)

	body, ct := multipartBody(t, "big.pdf", []byte("%PDF"), nil)
	c, w := newContext(http.MethodPost, "/", body, uuid.New(), "id", uuid.New().String())
	c.Request.Header.Set("Content-Type", ct)
	h.Upload(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDocumentHandler_SubmitExtracted(t *testing.T) {
	h, svc := newDocumentHandler()
	appID, officer := uuid.New(), uuid.New()

	svc.On("SubmitExtracted", mock.Anything, mock.MatchedBy(func(in service.SubmitExtractedInput) bool {
		return in.ApplicationID == appID && in.UploadedBy == officer && in.FileName == "w2_2023.pdf" &&
			string(in.Fields) == `{"income":{"annual_income":98000}}`
	})).Return(&domain.LoanDocument{ID: uuid.New(), Status: domain.DocumentStatusExtracted}, nil)

	c, w := newContext(http.MethodPost, "/", jsonBody(t, map[string]any{
		"file_name": "w2_2023.pdf",
		"fields":    map[string]any{"income": map[string]any{"annual_income": 98000}},
	}), officer, "id", appID.String())
	withJSON(c)
	h.SubmitExtracted(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestDocumentHandler_SubmitExtracted_Malformed(t *testing.T) {
	h, svc := newDocumentHandler()
	svc.On("SubmitExtracted", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidExtraction)

	c, w := newContext(http.MethodPost, "/", jsonBody(t, map[string]any{
		"file_name": "x.pdf", "fields": []int{1},
	}), uuid.New(), "id", uuid.New().String())
	withJSON(c)
	h.SubmitExtracted(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_EXTRACTION", decode(t, w).Error.Code)
}

func TestDocumentHandler_List(t *testing.T) {
	h, svc := newDocumentHandler()
	appID := uuid.New()
	svc.On("List", mock.Anything, appID).Return([]domain.LoanDocument{{Position: 1}, {Position: 2}}, nil)

	c, w := newContext(http.MethodGet, "/", nil, uuid.New(), "id", appID.String())
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data, ok := decode(t, w).Data.([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func TestDocumentHandler_GetDownloadURL(t *testing.T) {
	h, svc := newDocumentHandler()
	appID, docID := uuid.New(), uuid.New()
	svc.On("GetDownloadURL", mock.Anything, appID, docID).Return("https://signed.example/x", nil)

	c, w := newContext(http.MethodGet, "/", nil, uuid.New(), "id", appID.String(), "docId", docID.String())
	h.GetDownloadURL(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "https://signed.example/x", data["url"])

	c, w = newContext(http.MethodGet, "/", nil, uuid.New(), "id", appID.String(), "docId", "bad")
	h.GetDownloadURL(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
