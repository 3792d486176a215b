package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Brownie44l1/nutrisense-api/internal/food"
)

// MockFoodRepository is a mock implementation of food.Repository
type MockFoodRepository struct {
	mock.Mock
}

func (m *MockFoodRepository) FindByName(ctx context.Context, query string) (*food.Food, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*food.Food), args.Error(1)
}

func (m *MockFoodRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFoodRepository) Create(ctx context.Context, f *food.Food) error {
	return m.Called(ctx, f).Error(0)
}

func setupSearchRouter(h *SearchHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/search", h.Search)
	return r
}

func TestSearch(t *testing.T) {
	t.Run("returns details with macros", func(t *testing.T) {
		repo := new(MockFoodRepository)
		router := setupSearchRouter(NewSearchHandler(repo, zap.NewNop()))

		repo.On("FindByName", mock.Anything, "kenkey").Return(&food.Food{
			Name:        "Fante Kenkey",
			NumCalories: "320 kcal",
			NutrientBreakdown: []food.Nutrient{
				{Nutrient: "Carbohydrates", Info: "70g"},
				{Nutrient: "Protein", Info: "6.5g"},
				{Nutrient: "Total Fat", Info: "1.2g"},
			},
		}, nil)

		req, _ := http.NewRequest("GET", "/search?query=%20kenkey%20", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Fante Kenkey", body["name"])
		assert.Equal(t, 70.0, body["carbs"])
		assert.Equal(t, 6.5, body["protein"])
		assert.Equal(t, 1.2, body["fat"])
		assert.Equal(t, []any{}, body["benefits"])
		repo.AssertExpectations(t)
	})

	t.Run("missing query", func(t *testing.T) {
		router := setupSearchRouter(NewSearchHandler(new(MockFoodRepository), zap.NewNop()))

		req, _ := http.NewRequest("GET", "/search", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "query is required", decodeBody(t, w)["message"])
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockFoodRepository)
		router := setupSearchRouter(NewSearchHandler(repo, zap.NewNop()))
		repo.On("FindByName", mock.Anything, "pizza").Return(nil, food.ErrFoodNotFound)

		req, _ := http.NewRequest("GET", "/search?query=pizza", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Food not found", decodeBody(t, w)["message"])
	})

	t.Run("storage error", func(t *testing.T) {
		repo := new(MockFoodRepository)
		router := setupSearchRouter(NewSearchHandler(repo, zap.NewNop()))
		repo.On("FindByName", mock.Anything, "fufu").Return(nil, errors.New("connection refused"))

		req, _ := http.NewRequest("GET", "/search?query=fufu", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error searching for food", decodeBody(t, w)["message"])
	})

	t.Run("no catalog configured", func(t *testing.T) {
		router := setupSearchRouter(NewSearchHandler(nil, zap.NewNop()))

		req, _ := http.NewRequest("GET", "/search?query=fufu", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
