package model

import (
	"time"
)

type OrderStatus string   // pipeline stage
type PaymentMethod string // how the customer pays

const (
	// The four pipeline stages. The progression is conventionally
	// received → confirmed → ordered-from-supplier → delivered, but a
	// manager may set any stage directly; nothing enforces forward-only.
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusOrdered   OrderStatus = "ordered-from-supplier"
	OrderStatusDelivered OrderStatus = "delivered"

	PaymentCreditCard     PaymentMethod = "credit-card"
	PaymentBankTransfer   PaymentMethod = "bank-transfer"
	PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"
)

// OrderStatuses lists every pipeline stage, in conventional order
var OrderStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusConfirmed,
	OrderStatusOrdered,
	OrderStatusDelivered,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusReceived, OrderStatusConfirmed, OrderStatusOrdered, OrderStatusDelivered:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentBankTransfer, PaymentCashOnDelivery:
		return true
	}
	return false
}

// Order is a customer submission moving through the status pipeline.
// ID is the authoritative identity for update/delete; OrderToken is the
// customer-facing 8-character token assigned once at creation.
// There is deliberately no DeletedAt: deletion is hard and irreversible.
type Order struct {
	ID              uint          `gorm:"primarykey" json:"id"`
	OrderToken      string        `gorm:"type:varchar(8);uniqueIndex;not null" json:"order_token"`
	CustomerName    string        `gorm:"not null" json:"customer_name"`
	CustomerEmail   string        `gorm:"index;not null" json:"customer_email"` // soft reference, no cascade
	Items           []string      `gorm:"serializer:json;type:text" json:"items"`
	DeliveryAddress string        `gorm:"type:text" json:"delivery_address"`
	PaymentMethod   PaymentMethod `gorm:"type:varchar(20)" json:"payment_method"`
	Notes           string        `gorm:"type:text" json:"notes"`
	Status          OrderStatus   `gorm:"type:varchar(30);default:'received';index" json:"status"`
	OrderDate       time.Time     `json:"order_date"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
