package repository

import (
	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByProductID(productID uint) ([]model.Review, error)
	FindByID(id uint) (*model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"user_id":    review.UserID,
			"product_id": review.ProductID,
		})
		return err
	}

	logger.Debug("Review created in database", map[string]interface{}{
		"review_id":  review.ID,
		"user_id":    review.UserID,
		"product_id": review.ProductID,
	})
	return nil
}

func (r *reviewRepository) FindByProductID(productID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Where("product_id = ?", productID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}
