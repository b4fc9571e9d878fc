package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/app/repository"
	"github.com/tiendago/tienda-backend/internal/app/service"
	"github.com/tiendago/tienda-backend/internal/db"
	"github.com/tiendago/tienda-backend/internal/middleware"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	cartController := NewCartController(cartService)

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
		StockQuantity: 5,
		Category:      "test",
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router, testDB, user, product
}

func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set(middleware.UserIDKey, userID)
}

func setUserRoleInContext(c *gin.Context, role model.UserRole) {
	c.Set(middleware.UserRoleKey, role)
}

func TestCartController_GetCart_Success(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	cartRepo.Create(&model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  2,
	})

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])
	assert.Equal(t, float64(20), response["total"])
	items := response["items"].([]interface{})
	require.Len(t, items, 1)

	item := items[0].(map[string]interface{})
	assert.Equal(t, float64(2), item["quantity"])
}

func TestCartController_GetCart_Empty(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(0), response["count"])
}

func TestCartController_GetCart_Unauthorized(t *testing.T) {
	controller, router, _, _, _ := setupCartControllerTest(t)

	router.GET("/cart", controller.GetCart)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "AUTH_UNAUTHORIZED", response["error"])
}

func TestCartController_AddToCart_Success(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	reqBody := AddToCartRequest{
		ProductID: product.ID,
		Quantity:  2,
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var items []model.CartItem
	testDB.Where("user_id = ?", user.ID).Find(&items)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartController_AddToCart_ProductNotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	reqBody := AddToCartRequest{
		ProductID: 9999,
		Quantity:  1,
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "PRODUCT_NOT_FOUND", response["error"])
}

func TestCartController_AddToCart_InsufficientStock(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	reqBody := AddToCartRequest{
		ProductID: product.ID,
		Quantity:  100,
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ORDER_INSUFFICIENT_STOCK", response["error"])
}

func TestCartController_AddToCart_InvalidRequest(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddToCart(c)
	})

	tests := []struct {
		name    string
		reqBody map[string]interface{}
	}{
		{
			name:    "Missing product ID",
			reqBody: map[string]interface{}{"quantity": 1},
		},
		{
			name:    "Zero quantity",
			reqBody: map[string]interface{}{"product_id": product.ID, "quantity": 0},
		},
		{
			name:    "Negative quantity",
			reqBody: map[string]interface{}{"product_id": product.ID, "quantity": -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(tt.reqBody)
			req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			assert.Equal(t, "VALIDATION_INVALID_INPUT", response["error"])
		})
	}
}

func TestCartController_UpdateCartItem_Success(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	item := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	}
	testDB.Create(item)

	router.PUT("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateCartItem(c)
	})

	reqBody := UpdateCartItemRequest{Quantity: 3}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPut, "/cart/1", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.CartItem
	testDB.First(&updated, item.ID)
	assert.Equal(t, 3, updated.Quantity)
}

func TestCartController_UpdateCartItem_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.PUT("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateCartItem(c)
	})

	reqBody := UpdateCartItemRequest{Quantity: 3}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPut, "/cart/9999", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "CART_ITEM_NOT_FOUND", response["error"])
}

func TestCartController_UpdateCartItem_InvalidID(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.PUT("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateCartItem(c)
	})

	reqBody := UpdateCartItemRequest{Quantity: 3}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPut, "/cart/invalid", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "VALIDATION_INVALID_ID", response["error"])
}

func TestCartController_RemoveFromCart_Success(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	item := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
		Quantity:  1,
	}
	testDB.Create(item)

	router.DELETE("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveFromCart(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var items []model.CartItem
	testDB.Where("user_id = ?", user.ID).Find(&items)
	assert.Len(t, items, 0)
}

func TestCartController_RemoveFromCart_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.DELETE("/cart/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveFromCart(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "CART_ITEM_NOT_FOUND", response["error"])
}

func TestCartController_ClearCart_Success(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	testDB.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1})

	router.DELETE("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.ClearCart(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var items []model.CartItem
	testDB.Where("user_id = ?", user.ID).Find(&items)
	assert.Len(t, items, 0)
}
