package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brownie44l1/nutrisense-api/internal/history"
)

// HistoryHandler lists served predictions
type HistoryHandler struct {
	history history.Repository
	logger  *zap.Logger
}

// HistoryList is the GET /history response
type HistoryList struct {
	Items  []history.Entry `json:"items"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func NewHistoryHandler(h history.Repository, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: h,
		logger:  logger,
	}
}

// List handles GET /history?limit=&offset=
func (h *HistoryHandler) List(c *gin.Context) {
	if h.history == nil {
		respondError(c, http.StatusServiceUnavailable, "history is not configured")
		return
	}

	page := ParsePagination(c)

	items, total, err := h.history.List(c.Request.Context(), page.Limit, page.Offset)
	if err != nil {
		h.logger.Error("Failed to list history",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "failed to list history")
		return
	}
	if items == nil {
		items = []history.Entry{}
	}

	c.JSON(http.StatusOK, HistoryList{
		Items:  items,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}
