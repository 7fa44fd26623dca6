package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;check:chk_products_price,price >= 0" json:"price"`
	Slug        string          `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Image       string          `json:"image"`
	Featured    bool            `gorm:"default:false;index" json:"featured"`
	CategoryID  *uint           `json:"category_id"` // Nullable foreign key to Category
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
