// Package storefronttest 提供模拟商店后端的 HTTP 服务，供各层测试使用
package storefronttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/lightbike-next/internal/config"
)

// Line 模拟购物车中的一行
type Line struct {
	VariantID string
	Name      string
	Quantity  int
	Stock     int
	Price     int
}

// Point 模拟自提点
type Point struct {
	ID       string
	Name     string
	Address  string
	Lat      float64
	Lon      float64
	CityCode string
	Provider string
}

// Server 模拟商店后端
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	lines       []Line
	orders      map[string]string
	cities      []map[string]string
	suggestions []map[string]string
	shopPoints  []Point
	carrierPts  []Point
	pickupPrice *float64
	priceForms  []url.Values
	promos      map[string]int
	promoCode   string
	whereAmI    string
	failCart    bool
	failMutate  bool
	rejectWith  string
	calls       map[string]int
	onMutate    func(variantID, action string)
}

// New 启动模拟服务，测试结束时关闭
func New(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		orders: map[string]string{},
		promos: map[string]int{},
		calls:  map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cart/", s.handleCart)
	mux.HandleFunc("/api/variants/", s.handleVariant)
	mux.HandleFunc("/api/orders/delete/", s.handleOrderCancel)
	mux.HandleFunc("/orders/", s.handleOrderStatus)
	mux.HandleFunc("/api/cdek/price/", s.handlePickupPrice)
	mux.HandleFunc("/api/city-suggest/", s.handleSuggest)
	mux.HandleFunc("/api/pvz/cities/", s.handleCities)
	mux.HandleFunc("/api/pvz/shop/", s.handlePoints(func() []Point { return s.shopPoints }))
	mux.HandleFunc("/api/pvz/cdek/", s.handlePoints(func() []Point { return s.carrierPts }))
	mux.HandleFunc("/api/whereami/", s.handleWhereAmI)
	mux.HandleFunc("/api/promo/apply/", s.handlePromoApply)
	mux.HandleFunc("/api/promo/remove/", s.handlePromoRemove)
	s.Server = httptest.NewServer(s.count(mux))
	t.Cleanup(s.Server.Close)
	return s
}

// Config 指向模拟服务的上游配置
func (s *Server) Config() config.UpstreamConfig {
	return config.UpstreamConfig{
		BaseURL:    s.URL,
		TimeoutMS:  5000,
		CSRFCookie: "csrftoken",
		Endpoints: config.UpstreamEndpoints{
			Cart:        "/api/cart/",
			Variant:     "/api/variants/",
			OrderCancel: "/api/orders/delete/",
			OrderStatus: "/orders/{id}/status",
			PickupPrice: "/api/cdek/price/",
			CitySuggest: "/api/city-suggest/",
			Cities:      "/api/pvz/cities/",
			ShopPoints:  "/api/pvz/shop/",
			CarrierPts:  "/api/pvz/cdek/",
			WhereAmI:    "/api/whereami/",
			PromoApply:  "/api/promo/apply/",
			PromoRemove: "/api/promo/remove/",
		},
	}
}

// SetLines 替换购物车内容
func (s *Server) SetLines(lines ...Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append([]Line(nil), lines...)
}

// Lines 当前购物车内容
func (s *Server) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// SetOrder 设置订单状态
func (s *Server) SetOrder(orderID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[orderID] = status
}

// Order 订单状态
func (s *Server) Order(orderID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[orderID]
}

// SetCities 城市目录
func (s *Server) SetCities(cities ...map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cities = cities
}

// SetSuggestions 联想结果
func (s *Server) SetSuggestions(items ...map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = items
}

// SetPoints 自提点
func (s *Server) SetPoints(shop, carrier []Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shopPoints = shop
	s.carrierPts = carrier
}

// SetPickupPrice 承运商报价，nil 表示 CITY_CODE_NOT_FOUND
func (s *Server) SetPickupPrice(price *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickupPrice = price
}

// PriceForms 运费查询收到的表单，按请求顺序
func (s *Server) PriceForms() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.priceForms...)
}

// SetPromo 登记有效促销码及其折扣额
func (s *Server) SetPromo(code string, discount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promos[code] = discount
}

// AppliedPromo 购物车上当前的促销码
func (s *Server) AppliedPromo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promoCode
}

// SetWhereAmI 坐标反查结果
func (s *Server) SetWhereAmI(city string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whereAmI = city
}

// FailCart 购物车集合接口返回 500
func (s *Server) FailCart(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCart = fail
}

// FailMutate 变体接口返回 500
func (s *Server) FailMutate(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMutate = fail
}

// RejectWith 变体接口以业务错误拒绝（空串恢复）
func (s *Server) RejectWith(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectWith = reason
}

// OnMutate 变体接口处理前的回调
func (s *Server) OnMutate(fn func(variantID, action string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutate = fn
}

// Calls 某路径收到的请求数
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCart {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	items := make([]map[string]interface{}, 0, len(s.lines))
	total, count := 0, 0
	for _, line := range s.lines {
		items = append(items, map[string]interface{}{
			"variant":             map[string]interface{}{"id": line.VariantID, "name": line.Name, "price": line.Price},
			"quantity":            line.Quantity,
			"stock_count":         line.Stock,
			"product_total_price": line.Quantity * line.Price,
		})
		total += line.Quantity * line.Price
		count += line.Quantity
	}
	subtotal := total
	if s.promoCode != "" {
		total -= s.promos[s.promoCode]
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"cart": map[string]interface{}{
			"cart_total_price":    total,
			"cart_subtotal_price": subtotal,
			"cart_total_count":    count,
		},
	})
}

func (s *Server) handleVariant(w http.ResponseWriter, r *http.Request) {
	variantID := r.URL.Query().Get("variant_id")
	action := r.URL.Query().Get("action")

	s.mu.Lock()
	hook := s.onMutate
	s.mu.Unlock()
	if hook != nil {
		hook(variantID, action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMutate {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if s.rejectWith != "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": s.rejectWith})
		return
	}
	idx := -1
	for i := range s.lines {
		if s.lines[i].VariantID == variantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "bad_request"})
		return
	}
	line := &s.lines[idx]
	body := map[string]interface{}{"success": true}
	switch action {
	case "add":
		if line.Quantity >= line.Stock {
			body["success"] = false
			body["error"] = "out_of_stock"
		} else {
			line.Quantity++
		}
	case "remove":
		line.Quantity--
	case "remove_all":
		line.Quantity = 0
	default:
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "bad_request"})
		return
	}
	body["count"] = line.Quantity
	body["stock_count"] = line.Stock
	body["product_total_price"] = line.Quantity * line.Price
	if line.Quantity <= 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	}
	total, count := 0, 0
	for _, l := range s.lines {
		total += l.Quantity * l.Price
		count += l.Quantity
	}
	body["cart_total_price"] = total
	body["cart_total_count"] = count
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleOrderCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_ = r.ParseForm()
	orderID := r.PostForm.Get("order_id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if orderID == "" {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Заказ не найден."})
		return
	}
	if _, ok := s.orders[orderID]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.orders[orderID] = "canceled"
	writeJSON(w, http.StatusOK, map[string]string{"message": "Заказ успешно отменён."})
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/orders/")
	orderID := strings.TrimSuffix(strings.TrimSuffix(rest, "/"), "/status")
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.orders[orderID]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) handlePickupPrice(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceForms = append(s.priceForms, r.PostForm)
	if s.pickupPrice == nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"ok": false, "error": "CITY_CODE_NOT_FOUND"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":         true,
		"price":      *s.pickupPrice,
		"currency":   "RUB",
		"period_min": 2,
		"period_max": 4,
	})
}

func (s *Server) handlePromoApply(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	code := r.PostForm.Get("promo_code")
	s.mu.Lock()
	defer s.mu.Unlock()
	discount, ok := s.promos[code]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "PROMO_NOT_FOUND"})
		return
	}
	s.promoCode = code
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "code": code, "discount": discount})
}

func (s *Server) handlePromoRemove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promoCode = ""
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]map[string]string, 0)
	for _, item := range s.suggestions {
		if strings.Contains(strings.ToLower(item["name"]), query) {
			items = append(items, item)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.cities)
}

func (s *Server) handlePoints(source func() []Point) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("city")
		s.mu.Lock()
		defer s.mu.Unlock()
		items := make([]map[string]interface{}, 0)
		for _, p := range source() {
			if city != "" && p.CityCode != "" && p.CityCode != city {
				continue
			}
			items = append(items, map[string]interface{}{
				"id":        p.ID,
				"name":      p.Name,
				"address":   p.Address,
				"lat":       p.Lat,
				"lon":       p.Lon,
				"city_code": p.CityCode,
				"provider":  p.Provider,
			})
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (s *Server) handleWhereAmI(w http.ResponseWriter, r *http.Request) {
	if _, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"city": s.whereAmI})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
