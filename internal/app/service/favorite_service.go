package service

import (
	"errors"

	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/app/repository"
	"github.com/tiendago/tienda-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrFavoriteAlreadyExists = errors.New("product is already in favorites")
	ErrFavoriteNotFound      = errors.New("favorite not found")
)

type FavoriteService interface {
	GetUserFavorites(userID uint) ([]model.FavoriteItem, error)
	AddFavorite(userID, productID uint) (*model.FavoriteItem, error)
	RemoveFavorite(userID, productID uint) error
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, productRepo repository.ProductRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

func (s *favoriteService) GetUserFavorites(userID uint) ([]model.FavoriteItem, error) {
	favorites, err := s.favoriteRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return favorites, nil
}

func (s *favoriteService) AddFavorite(userID, productID uint) (*model.FavoriteItem, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.favoriteRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrFavoriteAlreadyExists
	}

	favorite := &model.FavoriteItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		logger.Error("Failed to add favorite", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Product added to favorites", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return favorite, nil
}

func (s *favoriteService) RemoveFavorite(userID, productID uint) error {
	existing, err := s.favoriteRepo.FindByUserAndProduct(userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}
	if existing == nil {
		return ErrFavoriteNotFound
	}

	if err := s.favoriteRepo.DeleteByUserAndProduct(userID, productID); err != nil {
		logger.Error("Failed to remove favorite", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	logger.Info("Product removed from favorites", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}
