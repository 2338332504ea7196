package public

import (
	"errors"

	"github.com/lightbike-next/internal/http/response"
	"github.com/lightbike-next/internal/i18n"
	"github.com/lightbike-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CancelOrder 个人中心取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	card, err := h.OrderService.Cancel(c.Request.Context(), c.Request.Cookies(), c.Param("order_id"))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if card.Message == "" {
		card.Message = i18n.T(i18n.ResolveLocale(c), "notice.order_canceled")
	}
	response.Success(c, card)
}

// GetOrderStatus 查询订单状态；wait=1 时长轮询直到终态
func (h *Handler) GetOrderStatus(c *gin.Context) {
	if c.Query("wait") == "1" {
		h.waitOrderStatus(c)
		return
	}
	result, err := h.OrderService.Status(c.Request.Context(), c.Request.Cookies(), c.Param("order_id"))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, result)
}

// waitOrderStatus 超时返回最后一次状态
func (h *Handler) waitOrderStatus(c *gin.Context) {
	result, err := h.OrderService.WaitForFinal(c.Request.Context(), c.Request.Cookies(), c.Param("order_id"))
	if err != nil && !errors.Is(err, service.ErrOrderWaitTimeout) {
		respondOrderError(c, err)
		return
	}
	response.Success(c, result)
}
