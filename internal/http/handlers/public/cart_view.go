package public

import (
	"net/http"
	"strconv"

	"github.com/lightbike-next/internal/cartview"
	handlershared "github.com/lightbike-next/internal/http/handlers/shared"
	"github.com/lightbike-next/internal/http/response"
	"github.com/lightbike-next/internal/i18n"
	"github.com/lightbike-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MutationResponse 行突变响应
type MutationResponse struct {
	*cartview.MutationResult
	NoticeText string `json:"notice_text,omitempty"`
	StaleText  string `json:"stale_text,omitempty"`
}

// CreateView 页面加载时创建购物车视图
func (h *Handler) CreateView(c *gin.Context) {
	cookies := c.Request.Cookies()
	result, err := h.ViewService.Create(c.Request.Context(), cookies)
	if err != nil {
		respondViewError(c, err)
		return
	}
	if session, err := h.ViewService.Get(result.View.ViewID); err == nil {
		forwardUpstreamCookies(c, cookies, session.Upstream.Cookies(), h.Config.Upstream.CSRFCookie)
	}
	response.Success(c, result)
}

// GetView 当前视图
func (h *Handler) GetView(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	snapshot, err := h.ViewService.Snapshot(viewID)
	if err != nil {
		respondViewError(c, err)
		return
	}
	response.Success(c, snapshot)
}

// ReloadView 重新拉取上游购物车
func (h *Handler) ReloadView(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	snapshot, err := h.ViewService.Reload(c.Request.Context(), viewID)
	if err != nil {
		respondViewError(c, err)
		return
	}
	response.Success(c, snapshot)
}

// MutateLine 对一行执行 increment|decrement|remove
func (h *Handler) MutateLine(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	result, err := h.ViewService.Mutate(c.Request.Context(), service.MutateInput{
		ViewID:    viewID,
		VariantID: c.Param("variant_id"),
		Action:    c.Param("action"),
		RequestID: handlershared.RequestID(c),
	})
	if err != nil {
		respondMutationError(c, err)
		return
	}

	locale := i18n.ResolveLocale(c)
	resp := MutationResponse{MutationResult: result}
	if result.Notice != "" {
		resp.NoticeText = outOfStockNotice(locale, result)
	}
	if result.SummaryStale {
		resp.StaleText = i18n.T(locale, "notice.summary_stale")
	}
	response.Success(c, resp)
}

// ActivateCheckout 点击结算入口；禁用时不跳转
func (h *Handler) ActivateCheckout(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	href, allowed, err := h.ViewService.ActivateCheckout(viewID)
	if err != nil {
		respondViewError(c, err)
		return
	}
	response.Success(c, gin.H{"navigate": allowed, "href": href})
}

// DeleteView 页面卸载时销毁视图
func (h *Handler) DeleteView(c *gin.Context) {
	viewID, ok := requireViewID(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"removed": h.ViewService.Teardown(viewID)})
}

func outOfStockNotice(locale string, result *cartview.MutationResult) string {
	if result.Line != nil && result.Line.StockAttr != "" {
		if stock, err := strconv.Atoi(result.Line.StockAttr); err == nil && stock > 0 {
			return i18n.Sprintf(locale, "notice.out_of_stock_with_stock", stock)
		}
	}
	return i18n.T(locale, result.Notice)
}

// forwardUpstreamCookies 上游新建或轮换的会话 cookie 回写给浏览器；CSRF cookie 需要前端可读
func forwardUpstreamCookies(c *gin.Context, sent, current []*http.Cookie, csrfCookie string) {
	known := make(map[string]string, len(sent))
	for _, cookie := range sent {
		known[cookie.Name] = cookie.Value
	}
	for _, cookie := range current {
		if value, ok := known[cookie.Name]; ok && value == cookie.Value {
			continue
		}
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     "/",
			HttpOnly: cookie.Name != csrfCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
