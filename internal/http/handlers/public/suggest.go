package public

import (
	"errors"

	"github.com/lightbike-next/internal/http/response"
	"github.com/lightbike-next/internal/service"
	"github.com/lightbike-next/internal/suggest"

	"github.com/gin-gonic/gin"
)

// SuggestResponse 城市联想响应；superseded 表示结果已过期，前端应丢弃
type SuggestResponse struct {
	Items      []suggest.Item `json:"items"`
	Superseded bool           `json:"superseded"`
}

// SuggestCities 城市联想；上游失败时返回空列表
func (h *Handler) SuggestCities(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	items, err := h.CheckoutService.SuggestCities(c.Request.Context(), viewID, c.Query("q"))
	switch {
	case err == nil:
		response.Success(c, SuggestResponse{Items: items})
	case errors.Is(err, suggest.ErrSuperseded):
		response.Success(c, SuggestResponse{Items: []suggest.Item{}, Superseded: true})
	case errors.Is(err, service.ErrViewNotFound):
		respondViewError(c, err)
	default:
		requestLog(c).Warnw("suggest_cities_failed", "view_id", viewID, "error", err)
		response.Success(c, SuggestResponse{Items: []suggest.Item{}})
	}
}
