package repository

import (
	"time"

	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows and pages product listings
type ProductFilter struct {
	Category string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	Update(product *model.Product) error
	Delete(id uint) error
	ClearExpiredDiscounts(now time.Time) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		logger.Error("Failed to list products in database", err, nil)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.Model(&model.Product{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products in database", err, nil)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		logger.Error("Failed to list products with filter in database", err, map[string]interface{}{
			"category": filter.Category,
			"limit":    filter.Limit,
			"offset":   filter.Offset,
		})
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Debug("Product updated in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Debug("Product deleted from database", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// ClearExpiredDiscounts zeroes out discounts whose expiry has passed and
// returns how many products were touched.
func (r *productRepository) ClearExpiredDiscounts(now time.Time) (int64, error) {
	result := r.db.Model(&model.Product{}).
		Where("discount_percent > 0 AND discount_expiry IS NOT NULL AND discount_expiry <= ?", now).
		Updates(map[string]interface{}{
			"discount_percent": 0,
			"discount_expiry":  nil,
		})
	if result.Error != nil {
		logger.Error("Failed to clear expired discounts in database", result.Error, nil)
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
