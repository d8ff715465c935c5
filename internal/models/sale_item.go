package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem 销售项表
type SaleItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	SaleID    string    `gorm:"type:char(36);not null;index" json:"sale_id"`             // 销售单ID
	BookID    uint      `gorm:"not null;index" json:"book_id"`                           // 图书ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 成交单价快照
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                              // 更新时间

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"` // 关联图书
	Sale *Sale `gorm:"foreignKey:SaleID" json:"-"`              // 关联销售单（仅内部读取成交时间）
}

// TableName 指定表名
func (SaleItem) TableName() string {
	return "sale_items"
}

// LineTotal 小计（单价快照 × 数量）
func (i SaleItem) LineTotal() Money {
	return NewMoneyFromDecimal(i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))))
}
