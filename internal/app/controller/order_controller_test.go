package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/repository"
	"github.com/aokimoto/orderdesk-backend/internal/app/service"
	"github.com/aokimoto/orderdesk-backend/internal/db"
	"github.com/aokimoto/orderdesk-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderControllerFixture struct {
	router       *gin.Engine
	authService  service.AuthService
	orderService service.OrderService
}

func setupOrderControllerTest(t *testing.T) *orderControllerFixture {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	authService := service.NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	sessionService := service.NewSessionService(userRepo)
	orderService := service.NewOrderService(orderRepo)

	ctrl := NewOrderController(orderService, authService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret", sessionService)

	router := gin.New()
	orders := router.Group("/orders")
	orders.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole(model.RoleCustomer))
	{
		orders.POST("", ctrl.CreateOrder)
		orders.GET("", ctrl.GetOrders)
		orders.GET("/:id", ctrl.GetOrderByID)
	}

	return &orderControllerFixture{
		router:       router,
		authService:  authService,
		orderService: orderService,
	}
}

func (f *orderControllerFixture) registerCustomer(t *testing.T, email string) string {
	t.Helper()
	_, tokens, err := f.authService.Register(email, "password123", "山田 太郎", "ヤマダ タロウ")
	require.NoError(t, err)
	return tokens.AccessToken
}

func (f *orderControllerFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestOrderController_CreateOrder(t *testing.T) {
	f := setupOrderControllerTest(t)
	token := f.registerCustomer(t, "taro@example.com")

	w := f.do("POST", "/orders", token, CreateOrderRequest{
		Items:           "醤油ラーメン, 餃子",
		DeliveryAddress: "東京都新宿区1-2-3",
		PaymentMethod:   model.PaymentCashOnDelivery,
		Notes:           "夕方配達希望",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	order := response["order"].(map[string]interface{})
	assert.Equal(t, "received", order["status"])
	assert.Len(t, order["order_token"], 8)
	assert.Equal(t, "taro@example.com", order["customer_email"])

	// The customer name comes from the user record, not the request
	assert.Equal(t, "山田 太郎", order["customer_name"])
}

func TestOrderController_CreateOrder_Validation(t *testing.T) {
	f := setupOrderControllerTest(t)
	token := f.registerCustomer(t, "taro@example.com")

	w := f.do("POST", "/orders", token, CreateOrderRequest{
		Items:           " , ",
		DeliveryAddress: "東京都新宿区1-2-3",
		PaymentMethod:   model.PaymentCashOnDelivery,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_REQUIRED")

	w = f.do("POST", "/orders", token, CreateOrderRequest{
		Items:           "醤油ラーメン",
		DeliveryAddress: "東京都新宿区1-2-3",
		PaymentMethod:   model.PaymentMethod("bitcoin"),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER_INVALID_PAYMENT_METHOD")
}

func TestOrderController_CreateOrder_Unauthenticated(t *testing.T) {
	f := setupOrderControllerTest(t)

	w := f.do("POST", "/orders", "", CreateOrderRequest{
		Items:           "醤油ラーメン",
		DeliveryAddress: "東京都新宿区1-2-3",
		PaymentMethod:   model.PaymentCashOnDelivery,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderController_GetOrders_OwnHistoryOnly(t *testing.T) {
	f := setupOrderControllerTest(t)
	token := f.registerCustomer(t, "taro@example.com")
	f.registerCustomer(t, "other@example.com")

	for i := 0; i < 2; i++ {
		_, err := f.orderService.CreateOrder("山田 太郎", "taro@example.com", "醤油ラーメン", "東京都新宿区1-2-3", model.PaymentCreditCard, "")
		require.NoError(t, err)
	}
	_, err := f.orderService.CreateOrder("鈴木 花子", "other@example.com", "味噌ラーメン", "大阪府大阪市4-5-6", model.PaymentCreditCard, "")
	require.NoError(t, err)

	w := f.do("GET", "/orders", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Orders []model.Order `json:"orders"`
		Count  int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
	for _, o := range response.Orders {
		assert.Equal(t, "taro@example.com", o.CustomerEmail)
	}
}

func TestOrderController_GetOrderByID(t *testing.T) {
	f := setupOrderControllerTest(t)
	token := f.registerCustomer(t, "taro@example.com")
	f.registerCustomer(t, "other@example.com")

	mine, err := f.orderService.CreateOrder("山田 太郎", "taro@example.com", "醤油ラーメン", "東京都新宿区1-2-3", model.PaymentCreditCard, "")
	require.NoError(t, err)
	foreign, err := f.orderService.CreateOrder("鈴木 花子", "other@example.com", "味噌ラーメン", "大阪府大阪市4-5-6", model.PaymentCreditCard, "")
	require.NoError(t, err)

	w := f.do("GET", fmt.Sprintf("/orders/%d", mine.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A foreign order reads as 404, never 403
	w = f.do("GET", fmt.Sprintf("/orders/%d", foreign.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER_NOT_FOUND")

	w = f.do("GET", "/orders/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_ID")
}
