package repository

import (
	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/pkg/logger"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(item *model.FavoriteItem) error
	FindByUserID(userID uint) ([]model.FavoriteItem, error)
	FindByUserAndProduct(userID, productID uint) (*model.FavoriteItem, error)
	DeleteByUserAndProduct(userID, productID uint) error
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(item *model.FavoriteItem) error {
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create favorite in database", err, map[string]interface{}{
			"user_id":    item.UserID,
			"product_id": item.ProductID,
		})
		return err
	}

	logger.Debug("Favorite created in database", map[string]interface{}{
		"favorite_id": item.ID,
		"user_id":     item.UserID,
		"product_id":  item.ProductID,
	})
	return nil
}

func (r *favoriteRepository) FindByUserID(userID uint) ([]model.FavoriteItem, error) {
	var items []model.FavoriteItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at DESC, id DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find favorites by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

func (r *favoriteRepository) FindByUserAndProduct(userID, productID uint) (*model.FavoriteItem, error) {
	var item model.FavoriteItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *favoriteRepository) DeleteByUserAndProduct(userID, productID uint) error {
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.FavoriteItem{}).Error
	if err != nil {
		logger.Error("Failed to delete favorite from database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	logger.Debug("Favorite deleted from database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}
