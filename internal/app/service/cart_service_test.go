package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/app/repository"
	"github.com/tiendago/tienda-backend/internal/db"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:        "cart@example.com",
		PasswordHash: "hash",
		Name:         "Cart User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:          "Test Product",
		Price:         10,
		StockQuantity: 5,
		Category:      "test",
	}
	testDB.Create(product)

	return cartService, testDB, user, product
}

func TestCartService_AddToCart_Success(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)

	// Adding to cart never touches stock
	var updated model.Product
	testDB.First(&updated, product.ID)
	assert.Equal(t, 5, updated.StockQuantity)
}

func TestCartService_AddToCart_MergesExistingLine(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 3))

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddToCart_InsufficientStock(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, product.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddToCart_MergedQuantityExceedsStock(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 3))

	// 3 already in the cart, 3 more would exceed stock of 5
	err := cartService.AddToCart(user.ID, product.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestCartService_UpdateCartItem_Success(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 1))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	err := cartService.UpdateCartItem(user.ID, items[0].ID, 4)
	require.NoError(t, err)

	items, _ = cartService.GetUserCart(user.ID)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestCartService_UpdateCartItem_ZeroQuantityRemovesLine(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	err := cartService.UpdateCartItem(user.ID, items[0].ID, 0)
	require.NoError(t, err)

	items, _ = cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestCartService_UpdateCartItem_NotFound(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	err := cartService.UpdateCartItem(user.ID, 9999, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateCartItem_WrongUser(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other User",
		Role:         model.RoleUser,
	}
	testDB.Create(other)

	// Another user's line reads as not found
	err := cartService.UpdateCartItem(other.ID, items[0].ID, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateCartItem_InsufficientStock(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	items, _ := cartService.GetUserCart(user.ID)

	err := cartService.UpdateCartItem(user.ID, items[0].ID, 10)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	items, _ = cartService.GetUserCart(user.ID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	items, _ := cartService.GetUserCart(user.ID)
	require.Len(t, items, 1)

	err := cartService.RemoveFromCart(user.ID, items[0].ID)
	require.NoError(t, err)

	items, _ = cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestCartService_RemoveFromCart_WrongUser(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	items, _ := cartService.GetUserCart(user.ID)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other User",
		Role:         model.RoleUser,
	}
	testDB.Create(other)

	err := cartService.RemoveFromCart(other.ID, items[0].ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	items, _ = cartService.GetUserCart(user.ID)
	assert.Len(t, items, 1)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	product2 := &model.Product{
		Name:          "Second Product",
		Price:         5,
		StockQuantity: 10,
		Category:      "test",
	}
	testDB.Create(product2)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 1))
	require.NoError(t, cartService.AddToCart(user.ID, product2.ID, 2))

	err := cartService.ClearCart(user.ID)
	require.NoError(t, err)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}
