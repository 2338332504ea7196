package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 41)
	if p.TotalPage != 3 || p.Page != 2 || p.PageSize != 20 || p.Total != 41 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if got := NewPagination(1, 0, 5).TotalPage; got != 0 {
		t.Fatalf("zero page size must not divide, got %d", got)
	}
}

func TestWrapErrorKeepsKeyAndCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	appErr := WrapError(CodeBadGateway, "error.network_failed", "", cause)
	if appErr.Message != "error.network_failed" {
		t.Fatalf("empty message falls back to key, got %q", appErr.Message)
	}
	if !errors.Is(appErr, cause) {
		t.Fatalf("cause must unwrap")
	}
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-9")

	TooManyRequests(c, "slow down")

	var resp struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != CodeTooManyRequests || resp.Msg != "slow down" || resp.Data["request_id"] != "req-9" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
}
