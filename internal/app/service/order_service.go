package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/app/repository"
	"github.com/tiendago/tienda-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// Loyalty program constants: 100 points redeem for 1 currency unit.
const pointsPerCurrencyUnit = 100

// earnedPoints returns the loyalty accrual for an order. The tiers apply to
// the pre-discount total, so redeeming points does not reduce what you earn.
func earnedPoints(totalOriginal float64) int {
	switch {
	case totalOriginal >= 150:
		return 200
	case totalOriginal >= 50:
		return 100
	case totalOriginal >= 20:
		return 50
	default:
		return 0
	}
}

// InsufficientStockError names the product that cannot be fulfilled.
// errors.Is(err, ErrInsufficientStock) matches it.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: %d available, %d requested",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// CheckoutResult is what a successful checkout reports back to the caller
type CheckoutResult struct {
	Order           *model.Order
	TotalOriginal   float64
	Total           float64
	DiscountApplied float64
	PointsRedeemed  int
	PointsEarned    int
}

type OrderService interface {
	CreateOrder(userID uint, usePoints bool) (*CheckoutResult, error)
	GetUserOrders(userID uint, page, limit int) ([]model.Order, int64, error)
	GetOrderByID(userID uint, isAdmin bool, orderID uint) (*model.Order, error)
	GetAllOrders(page, limit int) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	db        *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		db:        db,
	}
}

// CreateOrder converts the user's cart into an order inside one transaction:
// stock check and decrement, order and order item inserts, cart clearance and
// the loyalty-point debit/credit all commit together or not at all.
func (s *orderService) CreateOrder(userID uint, usePoints bool) (*CheckoutResult, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":    userID,
		"use_points": usePoints,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	// Reject obviously unfulfillable carts before opening a transaction.
	// The authoritative check happens again below under the row lock.
	for _, cartItem := range cartItems {
		if cartItem.Quantity > cartItem.Product.StockQuantity {
			logger.Warn("Order creation failed: insufficient product stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
				"requested":  cartItem.Quantity,
				"available":  cartItem.Product.StockQuantity,
			})
			return nil, &InsufficientStockError{
				ProductID: cartItem.ProductID,
				Requested: cartItem.Quantity,
				Available: cartItem.Product.StockQuantity,
			}
		}
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin checkout transaction", tx.Error, map[string]interface{}{
			"user_id": userID,
		})
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	now := time.Now()

	var (
		totalOriginal float64
		orderItems    []model.OrderItem
	)

	for _, cartItem := range cartItems {
		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, cartItem.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found during order creation", map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product during order creation", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}

		// Stock re-checked under the row lock: two concurrent checkouts of
		// the same product serialize here, so both cannot pass the check and
		// drive stock below zero.
		if product.StockQuantity < cartItem.Quantity {
			tx.Rollback()
			logger.Warn("Order creation failed: insufficient product stock", map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
				"requested":  cartItem.Quantity,
				"available":  product.StockQuantity,
			})
			return nil, &InsufficientStockError{
				ProductID: product.ID,
				Requested: cartItem.Quantity,
				Available: product.StockQuantity,
			}
		}

		unitPrice := product.EffectivePrice(now)
		subtotal := unitPrice * float64(cartItem.Quantity)

		orderItems = append(orderItems, model.OrderItem{
			ProductID: cartItem.ProductID,
			Quantity:  cartItem.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
		totalOriginal += subtotal

		if err := tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", cartItem.Quantity)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to update product stock", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
			})
			return nil, err
		}
	}

	var (
		discount       float64
		pointsRedeemed int
	)

	if usePoints {
		var user model.User
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to fetch user for loyalty redemption", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}

		if user.Points >= pointsPerCurrencyUnit {
			pointsRedeemed = (user.Points / pointsPerCurrencyUnit) * pointsPerCurrencyUnit
			discount = float64(pointsRedeemed) / pointsPerCurrencyUnit

			// Spent points never exceed what the discount amount justifies
			if discount > totalOriginal {
				discount = totalOriginal
				pointsRedeemed = int(math.Floor(totalOriginal)) * pointsPerCurrencyUnit
			}
		}
	}

	total := totalOriginal - discount

	order := &model.Order{
		UserID:     userID,
		Total:      total,
		Status:     model.OrderStatusPending,
		OrderItems: orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
			"total":   total,
		})
		return nil, err
	}

	if pointsRedeemed > 0 {
		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("points", gorm.Expr("points - ?", pointsRedeemed)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to debit loyalty points", err, map[string]interface{}{
				"user_id":         userID,
				"points_redeemed": pointsRedeemed,
			})
			return nil, err
		}
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after order creation", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	// Accrual is computed from the pre-discount total
	pointsEarned := earnedPoints(totalOriginal)
	if pointsEarned > 0 {
		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", pointsEarned)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to credit loyalty points", err, map[string]interface{}{
				"user_id":       userID,
				"points_earned": pointsEarned,
			})
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"user_id":          userID,
		"order_id":         order.ID,
		"total_original":   totalOriginal,
		"total":            total,
		"discount_applied": discount,
		"points_redeemed":  pointsRedeemed,
		"points_earned":    pointsEarned,
		"item_count":       len(orderItems),
	})

	full, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		Order:           full,
		TotalOriginal:   totalOriginal,
		Total:           total,
		DiscountApplied: discount,
		PointsRedeemed:  pointsRedeemed,
		PointsEarned:    pointsEarned,
	}, nil
}

func (s *orderService) GetUserOrders(userID uint, page, limit int) ([]model.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}

	orders, total, err := s.orderRepo.FindByUserID(userID, limit, (page-1)*limit)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	logger.Debug("User orders fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
		"total":   total,
	})
	return orders, total, nil
}

func (s *orderService) GetOrderByID(userID uint, isAdmin bool, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}

func (s *orderService) GetAllOrders(page, limit int) ([]model.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	orders, total, err := s.orderRepo.FindAll(limit, (page-1)*limit)
	if err != nil {
		logger.Error("Failed to fetch all orders", err, nil)
		return nil, 0, err
	}

	return orders, total, nil
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	if !model.ValidOrderStatus(status) {
		logger.Warn("Rejected invalid order status", map[string]interface{}{
			"order_id": orderID,
			"status":   status,
		})
		return ErrInvalidOrderStatus
	}

	logger.Info("Updating order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id":   orderID,
			"new_status": status,
		})
		return err
	}

	return nil
}
