package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lightbike-next/internal/config"
)

var (
	ErrUpstreamUnavailable = errors.New("storefront upstream unavailable")
	ErrResponseInvalid     = errors.New("storefront response invalid")
	ErrNotFound            = errors.New("storefront resource not found")
)

// 上游响应体上限
const maxResponseBytes = 4 << 20

// Client 商店后端 REST 客户端，持有共享的 http.Client
type Client struct {
	baseURL    string
	endpoints  config.UpstreamEndpoints
	csrfCookie string
	httpClient *http.Client
}

// NewClient 创建上游客户端
func NewClient(cfg config.UpstreamConfig) *Client {
	csrfCookie := strings.TrimSpace(cfg.CSRFCookie)
	if csrfCookie == "" {
		csrfCookie = "csrftoken"
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		endpoints:  cfg.Endpoints,
		csrfCookie: csrfCookie,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Session 绑定浏览器 Cookie 的上游会话（购物车由上游 session 识别）
type Session struct {
	client  *Client
	mu      sync.RWMutex
	cookies map[string]*http.Cookie
}

// NewSession 以浏览器转发的 Cookie 创建会话
func (c *Client) NewSession(cookies []*http.Cookie) *Session {
	s := &Session{client: c, cookies: make(map[string]*http.Cookie, len(cookies))}
	for _, cookie := range cookies {
		if cookie == nil || cookie.Name == "" {
			continue
		}
		s.cookies[cookie.Name] = &http.Cookie{Name: cookie.Name, Value: cookie.Value}
	}
	return s
}

// CSRFToken 读取 CSRF Cookie，缺失时返回空串
func (s *Session) CSRFToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cookie, ok := s.cookies[s.client.csrfCookie]; ok {
		return cookie.Value
	}
	return ""
}

// Cookies 返回当前 Cookie 快照
func (s *Session) Cookies() []*http.Cookie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*http.Cookie, 0, len(s.cookies))
	for _, cookie := range s.cookies {
		out = append(out, &http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	return out
}

func (s *Session) absorb(resp *http.Response) {
	set := resp.Cookies()
	if len(set) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cookie := range set {
		if cookie.Name == "" {
			continue
		}
		if cookie.MaxAge < 0 || (!cookie.Expires.IsZero() && cookie.Expires.Before(time.Now())) {
			delete(s.cookies, cookie.Name)
			continue
		}
		s.cookies[cookie.Name] = &http.Cookie{Name: cookie.Name, Value: cookie.Value}
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	form   url.Values
}

// do 发送请求并解码 JSON。2xx 与 4xx 的 JSON 体都会解码（上游用 400 返回业务拒绝），
// 网络错误与 5xx 归为 ErrUpstreamUnavailable
func (s *Session) do(ctx context.Context, r request, out interface{}) (int, error) {
	endpoint := s.client.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.form != nil {
		body = strings.NewReader(r.form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if r.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if r.method != http.MethodGet {
		req.Header.Set("X-CSRFToken", s.CSRFToken())
	}
	for _, cookie := range s.Cookies() {
		req.AddCookie(cookie)
	}

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	s.absorb(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return resp.StatusCode, ErrNotFound
	case resp.StatusCode >= 500:
		return resp.StatusCode, fmt.Errorf("%w: http status %d", ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return resp.StatusCode, fmt.Errorf("%w: unexpected redirect %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if resp.StatusCode >= 400 {
			return resp.StatusCode, fmt.Errorf("%w: http status %d", ErrUpstreamUnavailable, resp.StatusCode)
		}
		return resp.StatusCode, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return resp.StatusCode, nil
}
