package models

import "time"

// Sale 销售单表
type Sale struct {
	ID        string    `gorm:"type:char(36);primarykey" json:"id"` // 主键（UUID）
	BuyerID   uint      `gorm:"not null;index" json:"buyer_id"`     // 买家用户ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`            // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                         // 更新时间

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"` // 销售项
	Buyer *User      `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"` // 关联买家
}

// TableName 指定表名
func (Sale) TableName() string {
	return "sales"
}

// TotalAmount 汇总各销售项小计
func (s Sale) TotalAmount() Money {
	total := Money{}
	for _, item := range s.Items {
		total = NewMoneyFromDecimal(total.Add(item.LineTotal().Decimal))
	}
	return total
}
