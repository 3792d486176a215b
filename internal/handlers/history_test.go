package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brownie44l1/nutrisense-api/internal/history"
)

// MockHistoryRepository is a mock implementation of history.Repository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Create(ctx context.Context, e *history.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockHistoryRepository) List(ctx context.Context, limit, offset int) ([]history.Entry, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]history.Entry), args.Get(1).(int64), args.Error(2)
}

func setupHistoryRouter(h *HistoryHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/history", h.List)
	return r
}

func TestHistory_List(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		repo := new(MockHistoryRepository)
		router := setupHistoryRouter(NewHistoryHandler(repo, zap.NewNop()))

		entries := []history.Entry{
			{ID: uuid.New(), PredictedClass: "Fufu", Confidence: 0.91},
			{ID: uuid.New(), PredictedClass: "Banku", Confidence: 0.77, Cached: true},
		}
		repo.On("List", mock.Anything, DefaultLimit, DefaultOffset).Return(entries, int64(2), nil)

		req, _ := http.NewRequest("GET", "/history", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var list HistoryList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list.Items, 2)
		assert.Equal(t, int64(2), list.Total)
		assert.Equal(t, DefaultLimit, list.Limit)
		assert.Equal(t, "Fufu", list.Items[0].PredictedClass)
	})

	t.Run("clamps and falls back", func(t *testing.T) {
		repo := new(MockHistoryRepository)
		router := setupHistoryRouter(NewHistoryHandler(repo, zap.NewNop()))
		repo.On("List", mock.Anything, MaxLimit, DefaultOffset).Return(nil, int64(0), nil)

		req, _ := http.NewRequest("GET", "/history?limit=5000&offset=-3", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[],"total":0,"limit":100,"offset":0}`, w.Body.String())
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockHistoryRepository)
		router := setupHistoryRouter(NewHistoryHandler(repo, zap.NewNop()))
		repo.On("List", mock.Anything, 10, 20).Return(nil, int64(0), errors.New("disk I/O error"))

		req, _ := http.NewRequest("GET", "/history?limit=10&offset=20", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		router := setupHistoryRouter(NewHistoryHandler(nil, zap.NewNop()))

		req, _ := http.NewRequest("GET", "/history", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query  string
		limit  int
		offset int
	}{
		{"", DefaultLimit, DefaultOffset},
		{"limit=5&offset=10", 5, 10},
		{"limit=0", DefaultLimit, DefaultOffset},
		{"limit=abc&offset=xyz", DefaultLimit, DefaultOffset},
		{"limit=101", MaxLimit, DefaultOffset},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest("GET", "/history?"+tt.query, http.NoBody)

		page := ParsePagination(c)

		assert.Equal(t, tt.limit, page.Limit, "query %q", tt.query)
		assert.Equal(t, tt.offset, page.Offset, "query %q", tt.query)
	}
}
