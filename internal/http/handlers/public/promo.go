package public

import (
	"github.com/lightbike-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PromoRequest 提交促销码
type PromoRequest struct {
	PromoCode string `json:"promo_code"`
}

// ApplyPromo 应用促销码
func (h *Handler) ApplyPromo(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.CheckoutService.ApplyPromo(c.Request.Context(), viewID, req.PromoCode)
	if err != nil {
		respondPromoError(c, err)
		return
	}
	response.Success(c, result)
}

// RemovePromo 撤销促销码
func (h *Handler) RemovePromo(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	result, err := h.CheckoutService.RemovePromo(c.Request.Context(), viewID)
	if err != nil {
		respondPromoError(c, err)
		return
	}
	response.Success(c, result)
}
