package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	Points       int            `gorm:"not null;default:0" json:"points"` // loyalty balance, never negative
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Orders    []Order        `gorm:"foreignKey:UserID" json:"-"`
	CartItems []CartItem     `gorm:"foreignKey:UserID" json:"-"`
	Reviews   []Review       `gorm:"foreignKey:UserID" json:"-"`
	Favorites []FavoriteItem `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
