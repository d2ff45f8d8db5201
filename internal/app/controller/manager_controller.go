package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/service"
	apperrors "github.com/aokimoto/orderdesk-backend/internal/errors"
	"github.com/aokimoto/orderdesk-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ManagerController serves the manager workspace: the order queue, status
// changes, order edits/deletes, the xlsx export, and role administration.
type ManagerController struct {
	orderService     service.OrderService
	userAdminService service.UserAdminService
}

func NewManagerController(
	orderService service.OrderService,
	userAdminService service.UserAdminService,
) *ManagerController {
	return &ManagerController{
		orderService:     orderService,
		userAdminService: userAdminService,
	}
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type EditOrderRequest struct {
	CustomerName    string              `json:"customer_name" binding:"required"`
	CustomerEmail   string              `json:"customer_email" binding:"required,email"`
	Items           []string            `json:"items" binding:"required"`
	DeliveryAddress string              `json:"delivery_address" binding:"required"`
	PaymentMethod   model.PaymentMethod `json:"payment_method" binding:"required"`
	Notes           string              `json:"notes"`
}

type UpdateUserRequest struct {
	Name     string           `json:"name" binding:"required"`
	NameKana string           `json:"name_kana"`
	Role     model.UserRole   `json:"role" binding:"required"`
	Status   model.UserStatus `json:"status" binding:"required"`
}

// ListOrders returns one page of the manager queue
// GET /api/v1/manager/orders?status=received&keyword=&page=1
func (ctrl *ManagerController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "ステータスが正しくありません")
		return
	}
	keyword := c.Query("keyword")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	orders, err := ctrl.orderService.ListOrders()
	if err != nil {
		log.Error("Failed to fetch order queue", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get orders")
		return
	}

	view := service.BuildOrderPage(orders, status, keyword, page)

	c.JSON(http.StatusOK, gin.H{
		"orders":      view.Orders,
		"page":        view.Page,
		"page_count":  view.PageCount,
		"total_count": view.TotalCount,
	})
}

// GetOrder returns any order by record ID
// GET /api/v1/manager/orders/:id
func (ctrl *ManagerController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "注文IDが正しくありません")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "注文が見つかりません")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// UpdateOrderStatus moves an order to any of the four pipeline stages
// PUT /api/v1/manager/orders/:id/status
func (ctrl *ManagerController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "注文IDが正しくありません")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid status update request", map[string]interface{}{
			"order_id": id,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容が正しくありません")
		return
	}

	order, err := ctrl.orderService.UpdateStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "注文が見つかりません")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "ステータスが正しくありません")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": id,
				"status":   req.Status,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		}
		return
	}

	log.Info("Order status changed", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "ステータスを変更しました",
		"order":   order,
	})
}

// EditOrder saves a manager's edit of the order fields
// PUT /api/v1/manager/orders/:id
func (ctrl *ManagerController) EditOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "注文IDが正しくありません")
		return
	}

	var req EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order edit request", map[string]interface{}{
			"order_id": id,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容が正しくありません")
		return
	}

	order, err := ctrl.orderService.EditOrder(id, service.OrderEdit{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Items:           req.Items,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "注文が見つかりません")
		case errors.Is(err, service.ErrEmptyItems):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "商品を入力してください")
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			apperrors.BadRequest(c, apperrors.OrderInvalidPaymentMethod, "支払方法が正しくありません")
		default:
			log.Error("Failed to save order edit", err, map[string]interface{}{
				"order_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		}
		return
	}

	log.Info("Order edited", map[string]interface{}{
		"order_id": order.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "保存しました",
		"order":   order,
	})
}

// DeleteOrder removes an order after explicit confirmation. The delete is
// irreversible, so confirm=true must be sent deliberately.
// DELETE /api/v1/manager/orders/:id?confirm=true
func (ctrl *ManagerController) DeleteOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "注文IDが正しくありません")
		return
	}

	if c.Query("confirm") != "true" {
		apperrors.BadRequest(c, apperrors.OrderConfirmRequired, "削除するには確認が必要です")
		return
	}

	if err := ctrl.orderService.DeleteOrder(id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "注文が見つかりません")
			return
		}
		log.Error("Failed to delete order", err, map[string]interface{}{
			"order_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete order")
		return
	}

	log.Info("Order deleted by manager", map[string]interface{}{
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "削除しました",
	})
}

// ExportOrders writes the filtered queue (all pages) as an xlsx sheet
// GET /api/v1/manager/orders/export?status=&keyword=
func (ctrl *ManagerController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "ステータスが正しくありません")
		return
	}
	keyword := c.Query("keyword")

	orders, err := ctrl.orderService.ListOrders()
	if err != nil {
		log.Error("Failed to fetch orders for export", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get orders")
		return
	}
	filtered := service.FilterOrders(orders, status, keyword)

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"No.", "注文ID", "日付", "ステータス", "顧客名", "Email", "商品", "配送先住所", "支払方法", "備考"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, o := range filtered {
		row := i + 2
		values := []interface{}{
			i + 1,
			o.OrderToken,
			o.OrderDate.Format("2006-01-02"),
			string(o.Status),
			o.CustomerName,
			o.CustomerEmail,
			strings.Join(o.Items, ", "),
			o.DeliveryAddress,
			string(o.PaymentMethod),
			o.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to write xlsx export", err, nil)
		return
	}

	log.Info("Order queue exported", map[string]interface{}{
		"count":   len(filtered),
		"status":  status,
		"keyword": keyword,
	})
}

// ListUsers returns every user record for the administration view
// GET /api/v1/manager/users
func (ctrl *ManagerController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	users, err := ctrl.userAdminService.ListUsers()
	if err != nil {
		log.Error("Failed to fetch users", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// UpdateUser saves a manager's edit of a user record (name, kana, role,
// status). The demoted/promoted role takes effect on the target's next
// guarded request.
// PUT /api/v1/manager/users/:id
func (ctrl *ManagerController) UpdateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ユーザーIDが正しくありません")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid user update request", map[string]interface{}{
			"user_id": id,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容が正しくありません")
		return
	}

	user, err := ctrl.userAdminService.UpdateUser(id, service.UserEdit{
		Name:     req.Name,
		NameKana: req.NameKana,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "ユーザーが見つかりません")
		case errors.Is(err, service.ErrInvalidRole):
			apperrors.BadRequest(c, apperrors.UserInvalidRole, "権限の値が正しくありません")
		case errors.Is(err, service.ErrInvalidStatus):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "ステータスの値が正しくありません")
		default:
			log.Error("Failed to update user record", err, map[string]interface{}{
				"user_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user")
		}
		return
	}

	log.Info("User record updated", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "保存しました",
		"user":    user,
	})
}
