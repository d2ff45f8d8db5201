package repository

import (
	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindAll() ([]model.Order, error)
	FindByCustomerEmail(email string) ([]model.Order, error)
	Update(order *model.Order) error
	UpdateStatus(id uint, status model.OrderStatus) error
	Delete(id uint) error
	BulkCreate(orders []model.Order, batchSize int) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_token":    order.OrderToken,
		"customer_email": order.CustomerEmail,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_token":    order.OrderToken,
			"customer_email": order.CustomerEmail,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":    order.ID,
		"order_token": order.OrderToken,
		"status":      order.Status,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}

	return &order, nil
}

// FindAll returns every order, oldest first, for the manager queue
func (r *orderRepository) FindAll() ([]model.Order, error) {
	logger.Debug("Finding all orders in database", nil)

	var orders []model.Order
	if err := r.db.Order("created_at ASC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders in database", err, nil)
		return nil, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

// FindByCustomerEmail returns a customer's order history, newest first
func (r *orderRepository) FindByCustomerEmail(email string) ([]model.Order, error) {
	email = model.NormalizeEmail(email)

	logger.Debug("Finding orders by customer email in database", map[string]interface{}{
		"customer_email": email,
	})

	var orders []model.Order
	if err := r.db.Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by customer email in database", err, map[string]interface{}{
			"customer_email": email,
		})
		return nil, err
	}

	logger.Debug("Orders found by customer email in database", map[string]interface{}{
		"customer_email": email,
		"count":          len(orders),
	})
	return orders, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	logger.Debug("Order updated in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return nil
}

// UpdateStatus sets the pipeline stage; GORM stamps updated_at with the write
func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	result := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Order status updated in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return nil
}

// BulkCreate inserts orders in batches; used by the xlsx import tool
func (r *orderRepository) BulkCreate(orders []model.Order, batchSize int) error {
	logger.Info("Bulk creating orders in database", map[string]interface{}{
		"count":      len(orders),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(orders, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create orders in database", err, map[string]interface{}{
			"count": len(orders),
		})
		return err
	}
	return nil
}

// Delete removes an order permanently; there is no soft-delete column
func (r *orderRepository) Delete(id uint) error {
	logger.Debug("Deleting order from database", map[string]interface{}{
		"order_id": id,
	})

	result := r.db.Delete(&model.Order{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete order from database", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Order deleted from database", map[string]interface{}{
		"order_id": id,
	})
	return nil
}
