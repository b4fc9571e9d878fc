package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/app/repository"
	"github.com/tiendago/tienda-backend/internal/db"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	return NewProductService(productRepo), testDB
}

func TestProductService_CreateProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(ProductInput{
		Name:          "New Product",
		Description:   "A product",
		Price:         25,
		StockQuantity: 10,
		Category:      "electronics",
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "New Product", product.Name)
	assert.Equal(t, float64(25), product.Price)
}

func TestProductService_GetProducts_CategoryFilter(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	for _, p := range []ProductInput{
		{Name: "Phone", Price: 100, StockQuantity: 5, Category: "electronics"},
		{Name: "Laptop", Price: 500, StockQuantity: 3, Category: "electronics"},
		{Name: "Shirt", Price: 15, StockQuantity: 20, Category: "clothing"},
	} {
		_, err := productService.CreateProduct(p)
		require.NoError(t, err)
	}

	products, total, err := productService.GetProducts("electronics", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)

	products, total, err = productService.GetProducts("", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, products, 3)
}

func TestProductService_GetProducts_Pagination(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	for i := 0; i < 12; i++ {
		_, err := productService.CreateProduct(ProductInput{
			Name:          "Product",
			Price:         10,
			StockQuantity: 1,
		})
		require.NoError(t, err)
	}

	products, total, err := productService.GetProducts("", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, products, 2)
}

func TestProductService_GetProductByID_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.GetProductByID(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, product)
}

func TestProductService_UpdateProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	created, err := productService.CreateProduct(ProductInput{
		Name:          "Old Name",
		Price:         10,
		StockQuantity: 5,
	})
	require.NoError(t, err)

	updated, err := productService.UpdateProduct(created.ID, ProductInput{
		Name:          "New Name",
		Price:         12,
		StockQuantity: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, float64(12), updated.Price)
	assert.Equal(t, 8, updated.StockQuantity)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	_, err := productService.UpdateProduct(9999, ProductInput{Name: "X", Price: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	created, err := productService.CreateProduct(ProductInput{
		Name:          "Doomed",
		Price:         10,
		StockQuantity: 5,
	})
	require.NoError(t, err)

	require.NoError(t, productService.DeleteProduct(created.ID))

	_, err = productService.GetProductByID(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_ClearExpiredDiscounts(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)

	expired := &model.Product{Name: "Expired", Price: 10, DiscountPercent: 20, DiscountExpiry: &past}
	active := &model.Product{Name: "Active", Price: 10, DiscountPercent: 30, DiscountExpiry: &future}
	testDB.Create(expired)
	testDB.Create(active)

	cleared, err := productService.ClearExpiredDiscounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	var p1, p2 model.Product
	testDB.First(&p1, expired.ID)
	testDB.First(&p2, active.ID)
	assert.Equal(t, float64(0), p1.DiscountPercent)
	assert.Nil(t, p1.DiscountExpiry)
	assert.Equal(t, float64(30), p2.DiscountPercent)
}

func TestProductService_ExportProductsExcel(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	_, err := productService.CreateProduct(ProductInput{
		Name:          "Exported Product",
		Price:         42,
		StockQuantity: 7,
		Category:      "test",
	})
	require.NoError(t, err)

	f, err := productService.ExportProductsExcel()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2) // header + one product

	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Exported Product", rows[1][1])
}
