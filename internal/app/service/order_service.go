package service

import (
	"errors"
	"strings"
	"time"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/repository"
	"github.com/aokimoto/orderdesk-backend/pkg/logger"
	"github.com/aokimoto/orderdesk-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrEmptyItems           = errors.New("order has no items")
)

// OrderEdit carries a manager's edit of an order, one named field per
// editable attribute. Status is deliberately absent: status changes go
// through UpdateStatus only.
type OrderEdit struct {
	CustomerName    string
	CustomerEmail   string
	Items           []string
	DeliveryAddress string
	PaymentMethod   model.PaymentMethod
	Notes           string
}

type OrderService interface {
	CreateOrder(customerName, customerEmail, itemsRaw, deliveryAddress string, paymentMethod model.PaymentMethod, notes string) (*model.Order, error)
	GetCustomerOrders(customerEmail string) ([]model.Order, error)
	GetCustomerOrder(customerEmail string, id uint) (*model.Order, error)
	ListOrders() ([]model.Order, error)
	GetOrderByID(id uint) (*model.Order, error)
	UpdateStatus(id uint, status model.OrderStatus) (*model.Order, error)
	EditOrder(id uint, edit OrderEdit) (*model.Order, error)
	DeleteOrder(id uint) error
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// CreateOrder records a customer submission. The status is always
// "received"; the submitter never chooses it. The order token is generated
// here, once, and never regenerated.
func (s *orderService) CreateOrder(
	customerName, customerEmail, itemsRaw, deliveryAddress string,
	paymentMethod model.PaymentMethod,
	notes string,
) (*model.Order, error) {
	items := SplitItems(itemsRaw)
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	if !paymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	token, err := util.GenerateOrderToken()
	if err != nil {
		logger.Error("Failed to generate order token", err, nil)
		return nil, err
	}

	order := &model.Order{
		OrderToken:      token,
		CustomerName:    customerName,
		CustomerEmail:   model.NormalizeEmail(customerEmail),
		Items:           items,
		DeliveryAddress: deliveryAddress,
		PaymentMethod:   paymentMethod,
		Notes:           notes,
		Status:          model.OrderStatusReceived,
		OrderDate:       time.Now(),
	}

	if err := s.orderRepo.Create(order); err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"customer_email": order.CustomerEmail,
		})
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id":       order.ID,
		"order_token":    order.OrderToken,
		"customer_email": order.CustomerEmail,
		"item_count":     len(order.Items),
	})

	return order, nil
}

func (s *orderService) GetCustomerOrders(customerEmail string) ([]model.Order, error) {
	return s.orderRepo.FindByCustomerEmail(customerEmail)
}

// GetCustomerOrder fetches one order, but only if it belongs to the
// customer. A foreign order reads as not found rather than forbidden, so
// record IDs don't leak.
func (s *orderService) GetCustomerOrder(customerEmail string, id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.CustomerEmail != model.NormalizeEmail(customerEmail) {
		logger.Warn("Customer requested an order they do not own", map[string]interface{}{
			"order_id":       id,
			"customer_email": model.NormalizeEmail(customerEmail),
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}

func (s *orderService) ListOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) GetOrderByID(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus sets an order to any of the four pipeline stages. The model
// permits moving backward and skipping stages; only membership in the enum
// is checked. The write is confirmed by the store before the updated record
// is returned, so callers never see an unconfirmed state.
func (s *orderService) UpdateStatus(id uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return nil, err
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return order, nil
}

// EditOrder overwrites the editable fields of an order. Saving stamps
// updated_at and never changes the status or the order token.
func (s *orderService) EditOrder(id uint, edit OrderEdit) (*model.Order, error) {
	if len(edit.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if !edit.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.CustomerName = edit.CustomerName
	order.CustomerEmail = model.NormalizeEmail(edit.CustomerEmail)
	order.Items = edit.Items
	order.DeliveryAddress = edit.DeliveryAddress
	order.PaymentMethod = edit.PaymentMethod
	order.Notes = edit.Notes

	if err := s.orderRepo.Update(order); err != nil {
		logger.Error("Failed to save order edit", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Info("Order edited", map[string]interface{}{
		"order_id": order.ID,
	})
	return order, nil
}

// DeleteOrder removes an order permanently. Irreversible; the confirmation
// step happens at the API surface.
func (s *orderService) DeleteOrder(id uint) error {
	if err := s.orderRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		logger.Error("Failed to delete order", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}

	logger.Info("Order deleted", map[string]interface{}{
		"order_id": id,
	})
	return nil
}

// SplitItems turns the submitted comma-separated item text into the stored
// item list, trimming whitespace and dropping empty entries.
func SplitItems(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
