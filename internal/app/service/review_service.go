package service

import (
	"errors"

	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/app/repository"
	"github.com/tiendago/tienda-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type ReviewService interface {
	GetProductReviews(productID uint) ([]model.Review, error)
	CreateReview(userID, productID uint, rating int, comment string) (*model.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) GetProductReviews(productID uint) ([]model.Review, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByProductID(productID)
	if err != nil {
		logger.Error("Failed to fetch reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return reviews, nil
}

func (s *reviewService) CreateReview(userID, productID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"rating":     rating,
	})
	return review, nil
}
