package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/db"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCartRepository(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:          "Test Product",
		Price:         10,
		Category:      "test",
		StockQuantity: 10,
	}
	testDB.Create(product)

	return testDB, repo, user, product
}

func TestCartRepository_Create(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	}

	err := repo.Create(cartItem)
	assert.NoError(t, err)
	assert.NotZero(t, cartItem.ID)
}

func TestCartRepository_FindByUserID_PreloadsProduct(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2})

	items, err := repo.FindByUserID(user.ID)
	assert.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.Name, items[0].Product.Name)
	assert.Equal(t, float64(10), items[0].Product.Price)
}

func TestCartRepository_FindByID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  3,
	}
	repo.Create(cartItem)

	found, err := repo.FindByID(cartItem.ID)
	require.NoError(t, err)
	assert.Equal(t, cartItem.ID, found.ID)
	assert.Equal(t, 3, found.Quantity)
}

func TestCartRepository_FindByUserAndProduct(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	}
	repo.Create(cartItem)

	found, err := repo.FindByUserAndProduct(user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, cartItem.ID, found.ID)

	_, err = repo.FindByUserAndProduct(user.ID, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_Update(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	}
	repo.Create(cartItem)

	cartItem.Quantity = 5
	err := repo.Update(cartItem)
	assert.NoError(t, err)

	updated, _ := repo.FindByID(cartItem.ID)
	assert.Equal(t, 5, updated.Quantity)
}

func TestCartRepository_Delete(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	}
	repo.Create(cartItem)

	err := repo.Delete(cartItem.ID)
	assert.NoError(t, err)

	_, err = repo.FindByID(cartItem.ID)
	assert.Error(t, err)
}

func TestCartRepository_DeleteByUserID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	product2 := &model.Product{Name: "Second", Price: 5, StockQuantity: 10}
	testDB.Create(product2)

	repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	repo.Create(&model.CartItem{UserID: user.ID, ProductID: product2.ID, Quantity: 2})

	err := repo.DeleteByUserID(user.ID)
	assert.NoError(t, err)

	items, _ := repo.FindByUserID(user.ID)
	assert.Len(t, items, 0)
}
