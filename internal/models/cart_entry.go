package models

import "time"

// CartEntry 购物车条目
//
// 同一用户同一本书允许存在多行（无唯一索引），读取方必须按 book_id 聚合求和，
// 合并在加购时完成（见 CartService.AddItem）。
type CartEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`            // 主键
	UserID    uint      `gorm:"not null;index" json:"user_id"`   // 用户ID
	BookID    uint      `gorm:"not null;index" json:"book_id"`   // 图书ID
	Quantity  int       `gorm:"not null" json:"quantity"`        // 数量
	CreatedAt time.Time `gorm:"index" json:"created_at"`         // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`         // 更新时间

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"` // 关联图书
}

// TableName 指定表名
func (CartEntry) TableName() string {
	return "cart_entries"
}
