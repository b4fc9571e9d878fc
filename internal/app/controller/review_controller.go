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

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

// GetProductReviews returns a product's reviews, newest first
// GET /api/v1/products/:id/reviews
func (ctrl *ReviewController) GetProductReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	reviews, err := ctrl.reviewService.GetProductReviews(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// CreateReview posts a review for a product
// POST /api/v1/products/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create review request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Rating and comment are required")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, uint(productID), req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
			return
		}
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to create review", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to create review")
		return
	}

	log.Info("Review created", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"rating":     req.Rating,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}
