package public

import "github.com/lightbike-next/internal/provider"

// Handler 购物车视图、结算与订单接口处理器
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
