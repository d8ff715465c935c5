package models

import (
	"time"

	"gorm.io/gorm"
)

// Book 图书表
type Book struct {
	ID            uint           `gorm:"primarykey" json:"id"`                              // 主键
	Title         string         `gorm:"not null;index" json:"title"`                       // 书名
	AuthorID      uint           `gorm:"not null;index" json:"author_id"`                   // 作者用户ID
	Genre         string         `gorm:"type:varchar(64);index" json:"genre"`               // 分类
	Description   string         `gorm:"type:text" json:"description"`                      // 简介
	ImageURL      string         `gorm:"type:varchar(500)" json:"image_url"`                // 封面图片
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 价格
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`          // 库存数量
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"` // 关联作者
}

// TableName 指定表名
func (Book) TableName() string {
	return "books"
}
