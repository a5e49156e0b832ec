package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wholesale-backend/controllers"
	"wholesale-backend/middleware"
	"wholesale-backend/models"
	"wholesale-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// ---- concrete mock implementing services.CartService ----

type mockCartSvc struct {
	cart     *models.Cart
	update   *models.CartUpdate
	err      *services.ServiceError
	clearErr *services.ServiceError

	lastUserID    string
	lastProductID uuid.UUID
	lastQuantity  int
}

func (m *mockCartSvc) GetCart(_ context.Context, userID string) (*models.Cart, *services.ServiceError) {
	m.lastUserID = userID
	return m.cart, m.err
}

func (m *mockCartSvc) AddToCart(_ context.Context, userID string, productID uuid.UUID, quantity int) (*models.CartUpdate, *services.ServiceError) {
	m.lastUserID = userID
	m.lastProductID = productID
	m.lastQuantity = quantity
	return m.update, m.err
}

func (m *mockCartSvc) RemoveFromCart(_ context.Context, userID, _ string) (*models.CartUpdate, *services.ServiceError) {
	m.lastUserID = userID
	return m.update, m.err
}

func (m *mockCartSvc) UpdateQuantity(_ context.Context, userID, _ string, quantity int) (*models.CartUpdate, *services.ServiceError) {
	m.lastUserID = userID
	m.lastQuantity = quantity
	return m.update, m.err
}

func (m *mockCartSvc) ClearCart(_ context.Context, userID string) *services.ServiceError {
	m.lastUserID = userID
	return m.clearErr
}

// ---- helpers ----

func setupCartRouter(svc services.CartService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	c := controllers.NewCartController(svc)

	api := r.Group("/api/v1", middleware.AuthMiddleware())
	api.GET("/cart", c.GetCart)
	api.POST("/cart/items", c.AddToCart)
	api.PUT("/cart/items/:productId", c.UpdateQuantity)
	api.DELETE("/cart/items/:productId", c.RemoveFromCart)
	api.DELETE("/cart", c.ClearCart)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestGetCart_Success(t *testing.T) {
	svc := &mockCartSvc{
		cart: &models.Cart{UserID: "user-1", Items: []models.CartItem{
			{Product: models.Product{ID: uuid.New(), Name: "Whey Isolate 1kg", Price: 45}, Quantity: 4},
		}},
	}
	r := setupCartRouter(svc)

	w := doJSON(r, http.MethodGet, "/api/v1/cart", nil, "user-1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", svc.lastUserID)
	var cart models.Cart
	_ = json.Unmarshal(w.Body.Bytes(), &cart)
	assert.Len(t, cart.Items, 1)
}

func TestGetCart_Unauthorized(t *testing.T) {
	r := setupCartRouter(&mockCartSvc{})

	w := doJSON(r, http.MethodGet, "/api/v1/cart", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddToCart_Success(t *testing.T) {
	productID := uuid.New()
	svc := &mockCartSvc{
		update: &models.CartUpdate{
			Cart: &models.Cart{UserID: "user-1"},
			Advisory: &models.MOQAdvisory{
				Level: models.AdvisoryWarning, Category: "Protein Powder", Required: 12, Current: 5, Remaining: 7,
			},
		},
	}
	r := setupCartRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/v1/cart/items",
		gin.H{"product_id": productID.String(), "quantity": 5}, "user-1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, productID, svc.lastProductID)
	assert.Equal(t, 5, svc.lastQuantity)

	var resp models.CartUpdate
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotNil(t, resp.Advisory)
	assert.Equal(t, models.AdvisoryWarning, resp.Advisory.Level)
}

func TestAddToCart_InvalidProductID(t *testing.T) {
	r := setupCartRouter(&mockCartSvc{})

	w := doJSON(r, http.MethodPost, "/api/v1/cart/items",
		gin.H{"product_id": "not-a-uuid", "quantity": 5}, "user-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddToCart_MissingBodyFields(t *testing.T) {
	r := setupCartRouter(&mockCartSvc{})

	w := doJSON(r, http.MethodPost, "/api/v1/cart/items", gin.H{"quantity": 5}, "user-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddToCart_ServiceErrorPassedThrough(t *testing.T) {
	svc := &mockCartSvc{
		err: &services.ServiceError{StatusCode: 400, Message: "Whey Isolate 1kg has a minimum order quantity of 4"},
	}
	r := setupCartRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/v1/cart/items",
		gin.H{"product_id": uuid.NewString(), "quantity": 2}, "user-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Contains(t, resp["error"], "minimum order quantity")
}

func TestUpdateQuantity_Success(t *testing.T) {
	svc := &mockCartSvc{update: &models.CartUpdate{Cart: &models.Cart{UserID: "user-1"}}}
	r := setupCartRouter(svc)

	w := doJSON(r, http.MethodPut, "/api/v1/cart/items/"+uuid.NewString(),
		gin.H{"quantity": 9}, "user-1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 9, svc.lastQuantity)
}

func TestRemoveFromCart_NotFound(t *testing.T) {
	svc := &mockCartSvc{err: &services.ServiceError{StatusCode: 404, Message: "Item not in cart"}}
	r := setupCartRouter(svc)

	w := doJSON(r, http.MethodDelete, "/api/v1/cart/items/"+uuid.NewString(), nil, "user-1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearCart_Success(t *testing.T) {
	svc := &mockCartSvc{}
	r := setupCartRouter(svc)

	w := doJSON(r, http.MethodDelete, "/api/v1/cart", nil, "user-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", svc.lastUserID)
}
