package repository

import (
	"strings"
	"time"

	"github.com/lightbike-next/internal/models"

	"gorm.io/gorm"
)

// MutationLogRepository 突变审计数据访问接口
type MutationLogRepository interface {
	Create(log *models.CartMutationLog) error
	List(filter MutationLogFilter) ([]models.CartMutationLog, int64, error)
	DeleteBefore(cutoff time.Time) (int64, error)
}

// GormMutationLogRepository GORM 实现
type GormMutationLogRepository struct {
	db *gorm.DB
}

// NewMutationLogRepository 创建突变审计仓库
func NewMutationLogRepository(db *gorm.DB) *GormMutationLogRepository {
	return &GormMutationLogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMutationLogRepository) WithTx(tx *gorm.DB) *GormMutationLogRepository {
	if tx == nil {
		return r
	}
	return &GormMutationLogRepository{db: tx}
}

// Create 写入审计记录
func (r *GormMutationLogRepository) Create(log *models.CartMutationLog) error {
	if log == nil {
		return nil
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	return r.db.Create(log).Error
}

// List 分页查询审计记录（按创建时间倒序）
func (r *GormMutationLogRepository) List(filter MutationLogFilter) ([]models.CartMutationLog, int64, error) {
	query := r.db.Model(&models.CartMutationLog{})
	if viewID := strings.TrimSpace(filter.ViewID); viewID != "" {
		query = query.Where("view_id = ?", viewID)
	}
	if variantID := strings.TrimSpace(filter.VariantID); variantID != "" {
		query = query.Where("variant_id = ?", variantID)
	}
	if outcome := strings.TrimSpace(filter.Outcome); outcome != "" {
		query = query.Where("outcome = ?", outcome)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.CartMutationLog
	page := filter.Normalize()
	query = query.Order("created_at desc").Order("id desc").Limit(page.PageSize).Offset(page.Offset())
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// DeleteBefore 清理早于 cutoff 的记录
func (r *GormMutationLogRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&models.CartMutationLog{})
	return result.RowsAffected, result.Error
}
