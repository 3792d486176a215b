package router

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brownie44l1/nutrisense-api/internal/model"
	"github.com/Brownie44l1/nutrisense-api/internal/service"
)

type fakePredictor struct{}

func (fakePredictor) Predict(_ context.Context, _ service.Upload) (*model.Prediction, error) {
	return &model.Prediction{PredictedClass: "Kelewele", Confidence: 0.6}, nil
}

type readyModel struct{}

func (readyModel) Ready() bool { return true }

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return Setup(Deps{
		Predictor:      fakePredictor{},
		Model:          readyModel{},
		MaxUploadBytes: 1 << 20,
		Logger:         zap.NewNop(),
	})
}

func TestSetup_Routes(t *testing.T) {
	router := setupTestRouter()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/ready", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/search?query=fufu", http.StatusServiceUnavailable},
		{"GET", "/history", http.StatusServiceUnavailable},
		{"GET", "/missing", http.StatusNotFound},
		{"OPTIONS", "/predict", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestSetup_Predict(t *testing.T) {
	router := setupTestRouter()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "kelewele.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpeg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/predict", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"predicted_class":"Kelewele","confidence":0.6}`, w.Body.String())
}
