package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/lightbike-next/internal/cache"
	"github.com/lightbike-next/internal/http/response"
	"github.com/lightbike-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// Diagnostics 运行状态：活跃视图、缓存与队列
func (h *Handler) Diagnostics(c *gin.Context) {
	redisStatus := "disabled"
	if cache.Enabled() {
		redisStatus = "ok"
		if err := cache.Ping(c.Request.Context()); err != nil {
			requestLog(c).Warnw("diagnostics_redis_ping_failed", "error", err)
			redisStatus = "unavailable"
		}
	}
	response.Success(c, gin.H{
		"active_views":  h.ViewService.Count(),
		"redis":         redisStatus,
		"queue_enabled": h.QueueClient.Enabled(),
	})
}

// ListMutationLogs 查询购物车突变审计记录
func (h *Handler) ListMutationLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter := repository.MutationLogFilter{
		Page:      page,
		PageSize:  pageSize,
		ViewID:    strings.TrimSpace(c.Query("view_id")),
		VariantID: strings.TrimSpace(c.Query("variant_id")),
		Outcome:   strings.TrimSpace(c.Query("outcome")),
	}.Normalize()
	if from, ok := parseQueryTime(c.Query("created_from")); ok {
		filter.CreatedFrom = &from
	}
	if to, ok := parseQueryTime(c.Query("created_to")); ok {
		filter.CreatedTo = &to
	}

	logs, total, err := h.AuditService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(filter.Page, filter.PageSize, total))
}

func parseQueryTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
