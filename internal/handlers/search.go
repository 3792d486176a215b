package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brownie44l1/nutrisense-api/internal/food"
)

// SearchHandler serves the food catalog
type SearchHandler struct {
	foods  food.Repository
	logger *zap.Logger
}

// NewSearchHandler creates a search handler. foods may be nil when no
// database is configured.
func NewSearchHandler(foods food.Repository, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		foods:  foods,
		logger: logger,
	}
}

// Search handles GET /search?query=
func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		respondMessage(c, http.StatusBadRequest, "query is required")
		return
	}
	if h.foods == nil {
		respondMessage(c, http.StatusServiceUnavailable, "Food catalog is not configured")
		return
	}

	f, err := h.foods.FindByName(c.Request.Context(), query)
	if errors.Is(err, food.ErrFoodNotFound) {
		respondMessage(c, http.StatusNotFound, "Food not found")
		return
	}
	if err != nil {
		h.logger.Error("Error searching for food",
			zap.String("query", query),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		respondMessage(c, http.StatusInternalServerError, "Error searching for food")
		return
	}

	c.JSON(http.StatusOK, food.NewDetails(f))
}
