package models

import "time"

// CartMutationLog 购物车突变审计记录
type CartMutationLog struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                    // 主键
	ViewID         string    `gorm:"type:varchar(64);index;not null" json:"view_id"`          // 视图 ID
	RequestID      string    `gorm:"type:varchar(64);index" json:"request_id"`                // 请求 ID
	VariantID      string    `gorm:"type:varchar(64);index;not null" json:"variant_id"`       // 变体 ID
	Action         string    `gorm:"type:varchar(20);not null" json:"action"`                 // increment / decrement / remove
	Outcome        string    `gorm:"type:varchar(20);index;not null" json:"outcome"`          // applied / rejected / failed
	Reason         string    `gorm:"type:varchar(64)" json:"reason"`                          // 拒绝或失败原因
	QuantityBefore int       `gorm:"not null;default:0" json:"quantity_before"`               // 变更前数量
	QuantityAfter  int       `gorm:"not null;default:0" json:"quantity_after"`                // 变更后数量
	LineRemoved    bool      `gorm:"not null;default:false" json:"line_removed"`              // 是否移除行
	CartTotal      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"cart_total"` // 购物车总价
	LatencyMS      int64     `gorm:"not null;default:0" json:"latency_ms"`                    // 上游耗时
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
}

// TableName 指定表名
func (CartMutationLog) TableName() string {
	return "cart_mutation_logs"
}
