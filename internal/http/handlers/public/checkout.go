package public

import (
	"strings"

	"github.com/lightbike-next/internal/checkout"
	"github.com/lightbike-next/internal/http/response"
	"github.com/lightbike-next/internal/service"
	"github.com/lightbike-next/internal/storefront"

	"github.com/gin-gonic/gin"
)

// DeliveryGroupRequest 选择配送分组
type DeliveryGroupRequest struct {
	Group    string `json:"group" binding:"required"`
	Disabled bool   `json:"disabled"`
}

// DeliveryCityRequest 切换城市
type DeliveryCityRequest struct {
	City string `json:"city" binding:"required"`
}

// DeliveryResolveRequest 初始城市候选
type DeliveryResolveRequest struct {
	Saved string   `json:"saved"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
}

// DeliveryAddressRequest 快递地址
type DeliveryAddressRequest struct {
	AddressLine string `json:"address_line"`
}

// PickPointRequest 选择自提点
type PickPointRequest struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	CityCode string `json:"city_code"`
	Provider string `json:"provider" binding:"required"`
}

// PreviewRequest 价格预览，金额为页面已渲染的文本
type PreviewRequest struct {
	SubtotalText string  `json:"subtotal_text"`
	DiscountText *string `json:"discount_text"`
}

// ListCities 城市目录
func (h *Handler) ListCities(c *gin.Context) {
	cities, err := h.CheckoutService.Cities(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondWithMappedError(c, err, upstreamErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, cities)
}

// ListPickupPoints 城市的门店与承运商自提点
func (h *Handler) ListPickupPoints(c *gin.Context) {
	set := h.CheckoutService.PickupPoints(c.Request.Context(), c.Request.Cookies(), c.Query("city"))
	response.Success(c, set)
}

// GetDelivery 当前配送状态
func (h *Handler) GetDelivery(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	session, err := h.ViewService.Get(viewID)
	if err != nil {
		respondViewError(c, err)
		return
	}
	response.Success(c, session.Delivery.View())
}

// SelectDeliveryGroup 选择配送分组
func (h *Handler) SelectDeliveryGroup(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	var req DeliveryGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.CheckoutService.SelectGroup(viewID, req.Group, req.Disabled)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	response.Success(c, view)
}

// SetDeliveryCity 切换城市
func (h *Handler) SetDeliveryCity(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	var req DeliveryCityRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.City) == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.CheckoutService.SetCity(viewID, req.City)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	response.Success(c, view)
}

// ResolveDeliveryCity 服务端值 → 已保存值 → 地理定位 → 默认城市
func (h *Handler) ResolveDeliveryCity(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	var req DeliveryResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	input := service.ResolveCityInput{ViewID: viewID, Saved: req.Saved}
	if req.Lat != nil && req.Lon != nil {
		input.Position = &checkout.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
	}
	view, err := h.CheckoutService.ResolveCity(c.Request.Context(), input)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	response.Success(c, view)
}

// ExpandDeliveryMap 更换自提点
func (h *Handler) ExpandDeliveryMap(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	view, err := h.CheckoutService.ExpandMap(viewID)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	response.Success(c, view)
}

// SetDeliveryAddress 快递地址
func (h *Handler) SetDeliveryAddress(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	var req DeliveryAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.CheckoutService.SetAddress(viewID, req.AddressLine)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	response.Success(c, view)
}

// PickDeliveryPoint 选择自提点并查询运费
func (h *Handler) PickDeliveryPoint(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	var req PickPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.CheckoutService.PickPoint(c.Request.Context(), viewID, storefront.PickupPoint{
		ID:       strings.TrimSpace(req.ID),
		Name:     strings.TrimSpace(req.Name),
		Address:  strings.TrimSpace(req.Address),
		CityCode: strings.TrimSpace(req.CityCode),
		Provider: strings.TrimSpace(req.Provider),
	})
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	response.Success(c, view)
}

// ValidateDelivery 提交前校验
func (h *Handler) ValidateDelivery(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	if err := h.CheckoutService.Validate(viewID); err != nil {
		respondDeliveryError(c, err)
		return
	}
	response.Success(c, gin.H{"valid": true})
}

// PreviewTotals 价格预览
func (h *Handler) PreviewTotals(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.CheckoutService.Preview(service.PreviewInput{
		ViewID:       viewID,
		SubtotalText: req.SubtotalText,
		DiscountText: req.DiscountText,
	})
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	response.Success(c, result)
}
