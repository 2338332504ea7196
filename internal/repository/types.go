package repository

import "time"

// MutationLogFilter 查询突变审计记录的过滤条件
type MutationLogFilter struct {
	Page        int
	PageSize    int
	ViewID      string
	VariantID   string
	Outcome     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

const (
	defaultMutationLogPageSize = 20
	maxMutationLogPageSize     = 100
)

// Normalize 补齐分页：页码从 1 开始，页大小默认 20、上限 100
func (f MutationLogFilter) Normalize() MutationLogFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultMutationLogPageSize
	}
	if f.PageSize > maxMutationLogPageSize {
		f.PageSize = maxMutationLogPageSize
	}
	return f
}

// Offset 当前页的偏移量
func (f MutationLogFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
