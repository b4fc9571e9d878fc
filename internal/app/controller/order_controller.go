package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/app/service"
	apperrors "github.com/tiendago/tienda-backend/internal/errors"
	"github.com/tiendago/tienda-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CreateOrderRequest struct {
	UsePoints bool `json:"use_points"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder checks out the user's cart
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	// Body is optional; an empty body means use_points=false
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("Invalid create order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	log.Debug("Processing checkout", map[string]interface{}{
		"user_id":    userID,
		"use_points": req.UsePoints,
	})

	result, err := ctrl.orderService.CreateOrder(userID, req.UsePoints)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			log.Warn("Checkout rejected: empty cart", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
			return
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			log.Warn("Checkout rejected: insufficient stock", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
			apperrors.BadRequest(c, apperrors.OrderInsufficientStock, err.Error())
			return
		}
		log.Error("Checkout failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to create order")
		return
	}

	log.Info("Order created successfully", map[string]interface{}{
		"user_id":         userID,
		"order_id":        result.Order.ID,
		"total":           result.Total,
		"points_redeemed": result.PointsRedeemed,
		"points_earned":   result.PointsEarned,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Order created successfully",
		"order_id":         result.Order.ID,
		"total":            result.Total,
		"total_original":   result.TotalOriginal,
		"discount_applied": result.DiscountApplied,
		"points_redeemed":  result.PointsRedeemed,
		"points_earned":    result.PointsEarned,
		"order":            result.Order,
	})
}

// GetMyOrders returns the authenticated user's order history, newest first
// GET /api/v1/orders?page=&limit=
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	orders, total, err := ctrl.orderService.GetUserOrders(userID, page, limit)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// GetOrder returns one order. Owners and admins only; a mismatch reads as 404
// so order IDs cannot be probed.
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	role, _ := middleware.GetUserRole(c)
	order, err := ctrl.orderService.GetOrderByID(userID, role == model.RoleAdmin, uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		apperrors.InternalError(c, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// GetAllOrders returns every order (admin only)
// GET /api/v1/orders/admin?page=&limit=
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, total, err := ctrl.orderService.GetAllOrders(page, limit)
	if err != nil {
		log.Error("Failed to fetch all orders", err, nil)
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// UpdateOrderStatus transitions an order's status (admin only)
// PUT /api/v1/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update status request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status is required")
		return
	}

	if err := ctrl.orderService.UpdateOrderStatus(uint(orderID), model.OrderStatus(req.Status)); err != nil {
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Status must be pending, shipped or delivered")
			return
		}
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
			"status":   req.Status,
		})
		apperrors.InternalError(c, "Failed to update order status")
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
	})
}
