package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/app/repository"
	"github.com/tiendago/tienda-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductInput carries the writable product fields
type ProductInput struct {
	Name            string
	Description     string
	Price           float64
	StockQuantity   int
	ImageURL        string
	Category        string
	DiscountPercent float64
	DiscountExpiry  *time.Time
}

type ProductService interface {
	GetProducts(category string, page, limit int) ([]model.Product, int64, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
	ExportProductsExcel() (*excelize.File, error)
	ClearExpiredDiscounts() (int64, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) GetProducts(category string, page, limit int) ([]model.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	products, total, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		Category: category,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		logger.Error("Failed to fetch products", err, map[string]interface{}{
			"category": category,
			"page":     page,
			"limit":    limit,
		})
		return nil, 0, err
	}

	logger.Debug("Products fetched successfully", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":     input.Name,
		"price":    input.Price,
		"stock":    input.StockQuantity,
		"category": input.Category,
	})

	product := &model.Product{
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		StockQuantity:   input.StockQuantity,
		ImageURL:        input.ImageURL,
		Category:        input.Category,
		DiscountPercent: input.DiscountPercent,
		DiscountExpiry:  input.DiscountExpiry,
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot update: product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.StockQuantity = input.StockQuantity
	product.ImageURL = input.ImageURL
	product.Category = input.Category
	product.DiscountPercent = input.DiscountPercent
	product.DiscountExpiry = input.DiscountExpiry

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot delete: product not found", map[string]interface{}{
				"product_id": id,
			})
			return ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// ExportProductsExcel renders the whole catalog as an Excel workbook
func (s *productService) ExportProductsExcel() (*excelize.File, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to fetch products for export", err, nil)
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Products"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Description", "Price", "Stock", "Category", "Discount %", "Discount Expiry"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range products {
		values := []interface{}{
			p.ID, p.Name, p.Description, p.Price, p.StockQuantity, p.Category, p.DiscountPercent,
		}
		if p.DiscountExpiry != nil {
			values = append(values, p.DiscountExpiry.Format(time.RFC3339))
		} else {
			values = append(values, "")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	logger.Info("Product catalog exported", map[string]interface{}{
		"count": len(products),
	})
	return f, nil
}

// ClearExpiredDiscounts removes discounts past their expiry; run by the
// nightly scheduler and safe to call at any time.
func (s *productService) ClearExpiredDiscounts() (int64, error) {
	cleared, err := s.productRepo.ClearExpiredDiscounts(time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired discounts: %w", err)
	}

	if cleared > 0 {
		logger.Info("Expired product discounts cleared", map[string]interface{}{
			"count": cleared,
		})
	}
	return cleared, nil
}
