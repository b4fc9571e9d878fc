package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tiendago/tienda-backend/internal/app/service"
	apperrors "github.com/tiendago/tienda-backend/internal/errors"
	"github.com/tiendago/tienda-backend/internal/middleware"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
	}
}

type AddFavoriteRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetFavorites returns the user's favorites
// GET /api/v1/favorites
func (ctrl *FavoriteController) GetFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	favorites, err := ctrl.favoriteService.GetUserFavorites(userID)
	if err != nil {
		log.Error("Failed to fetch favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// AddFavorite marks a product as favorite
// POST /api/v1/favorites
func (ctrl *FavoriteController) AddFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add favorite request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product ID is required")
		return
	}

	favorite, err := ctrl.favoriteService.AddFavorite(userID, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrFavoriteAlreadyExists) {
			apperrors.Conflict(c, apperrors.FavoriteAlreadyExists, "Product is already in favorites")
			return
		}
		log.Error("Failed to add favorite", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "Failed to add favorite")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Product added to favorites",
		"favorite": favorite,
	})
}

// RemoveFavorite unmarks a product
// DELETE /api/v1/favorites/:productId
func (ctrl *FavoriteController) RemoveFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.favoriteService.RemoveFavorite(userID, uint(productID)); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			apperrors.NotFound(c, apperrors.FavoriteNotFound, "Favorite not found")
			return
		}
		log.Error("Failed to remove favorite", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to remove favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product removed from favorites",
	})
}
