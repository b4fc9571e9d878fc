package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tiendago/tienda-backend/internal/app/service"
	apperrors "github.com/tiendago/tienda-backend/internal/errors"
	"github.com/tiendago/tienda-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Name            string     `json:"name" binding:"required"`
	Description     string     `json:"description"`
	Price           float64    `json:"price" binding:"required,gt=0"`
	StockQuantity   int        `json:"stock_quantity" binding:"gte=0"`
	ImageURL        string     `json:"image_url"`
	Category        string     `json:"category"`
	DiscountPercent float64    `json:"discount_percent" binding:"gte=0,lte=100"`
	DiscountExpiry  *time.Time `json:"discount_expiry"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		StockQuantity:   r.StockQuantity,
		ImageURL:        r.ImageURL,
		Category:        r.Category,
		DiscountPercent: r.DiscountPercent,
		DiscountExpiry:  r.DiscountExpiry,
	}
}

// GetProducts returns the catalog, optionally filtered by category
// GET /api/v1/products?category=&page=&limit=
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category := c.Query("category")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	products, total, err := ctrl.productService.GetProducts(category, page, limit)
	if err != nil {
		log.Error("Failed to fetch products", err, map[string]interface{}{
			"category": category,
		})
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":    products,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
	})
}

// GetProduct returns one product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProductByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct creates a product (admin only)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name and a positive price are required")
		return
	}

	product, err := ctrl.productService.CreateProduct(req.toInput())
	if err != nil {
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "Failed to create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct updates a product (admin only)
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name and a positive price are required")
		return
	}

	product, err := ctrl.productService.UpdateProduct(uint(id), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to update product")
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct deletes a product (admin only)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to delete product")
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// ExportProducts streams the catalog as an Excel workbook (admin only)
// GET /api/v1/products/export
func (ctrl *ProductController) ExportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	f, err := ctrl.productService.ExportProductsExcel()
	if err != nil {
		log.Error("Failed to export products", err, nil)
		apperrors.InternalError(c, "Failed to export products")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to write export response", err, nil)
		return
	}

	log.Info("Products exported", map[string]interface{}{
		"filename": filename,
	})
}
