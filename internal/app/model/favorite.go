package model

import (
	"time"

	"gorm.io/gorm"
)

type FavoriteItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index:idx_user_product_fav,unique" json:"user_id"`
	ProductID uint           `gorm:"not null;index:idx_user_product_fav,unique" json:"product_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Associations (loaded with Preload)
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (FavoriteItem) TableName() string {
	return "favorite_items"
}
