package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	Price           float64        `gorm:"not null" json:"price"`
	StockQuantity   int            `gorm:"not null;default:0" json:"stock_quantity"`
	ImageURL        string         `json:"image_url"`
	Category        string         `gorm:"type:varchar(50);index" json:"category"`
	DiscountPercent float64        `gorm:"default:0" json:"discount_percent"`
	DiscountExpiry  *time.Time     `json:"discount_expiry,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
	Reviews    []Review    `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// DiscountActive reports whether the product currently has a time-limited discount
func (p *Product) DiscountActive(now time.Time) bool {
	return p.DiscountPercent > 0 && p.DiscountExpiry != nil && p.DiscountExpiry.After(now)
}

// EffectivePrice is the unit price after any active product discount.
// Loyalty-point discounts are order-level and never part of this.
func (p *Product) EffectivePrice(now time.Time) float64 {
	if p.DiscountActive(now) {
		return p.Price * (1 - p.DiscountPercent/100)
	}
	return p.Price
}
