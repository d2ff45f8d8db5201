package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/service"
	apperrors "github.com/aokimoto/orderdesk-backend/internal/errors"
	"github.com/aokimoto/orderdesk-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// OrderController serves the customer workspace: submitting orders and
// reviewing own history. Manager operations live in ManagerController.
type OrderController struct {
	orderService service.OrderService
	authService  service.AuthService
}

func NewOrderController(orderService service.OrderService, authService service.AuthService) *OrderController {
	return &OrderController{
		orderService: orderService,
		authService:  authService,
	}
}

type CreateOrderRequest struct {
	Items           string              `json:"items" binding:"required"` // comma-separated item names
	DeliveryAddress string              `json:"delivery_address" binding:"required"`
	PaymentMethod   model.PaymentMethod `json:"payment_method" binding:"required"`
	Notes           string              `json:"notes"`
}

// CreateOrder submits a new order for the logged-in customer
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	email, exists := middleware.GetUserEmail(c)
	if !exists {
		log.Warn("Unauthorized attempt to create order", nil)
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create order request", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容が正しくありません")
		return
	}

	// The customer name on the order comes from the user record, not the
	// request, so a submission cannot spoof another customer.
	user, err := ctrl.authService.GetUserByEmail(email)
	if err != nil {
		log.Error("Failed to load user record for order submission", err, map[string]interface{}{
			"email": email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create order")
		return
	}

	order, err := ctrl.orderService.CreateOrder(
		user.Name,
		email,
		req.Items,
		req.DeliveryAddress,
		req.PaymentMethod,
		req.Notes,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyItems):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "商品を入力してください")
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			apperrors.BadRequest(c, apperrors.OrderInvalidPaymentMethod, "支払方法が正しくありません")
		default:
			log.Error("Failed to create order", err, map[string]interface{}{
				"email": email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create order")
		}
		return
	}

	log.Info("Order submitted", map[string]interface{}{
		"order_id":    order.ID,
		"order_token": order.OrderToken,
		"email":       email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "注文を送信しました",
		"order":   order,
	})
}

// GetOrders returns the customer's own order history
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	email, exists := middleware.GetUserEmail(c)
	if !exists {
		log.Warn("Unauthorized access to orders", nil)
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	orders, err := ctrl.orderService.GetCustomerOrders(email)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"email": email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one of the customer's own orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	email, exists := middleware.GetUserEmail(c)
	if !exists {
		log.Warn("Unauthorized access to order", nil)
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "注文IDが正しくありません")
		return
	}

	order, err := ctrl.orderService.GetCustomerOrder(email, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "注文が見つかりません")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"email":    email,
			"order_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
