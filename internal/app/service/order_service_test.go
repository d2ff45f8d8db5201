package service

import (
	"testing"
	"time"

	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/repository"
	"github.com/aokimoto/orderdesk-backend/internal/db"
	"github.com/aokimoto/orderdesk-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderServiceTest(t *testing.T) (OrderService, repository.OrderRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	orderRepo := repository.NewOrderRepository(testDB)
	return NewOrderService(orderRepo), orderRepo
}

func createTestOrder(t *testing.T, svc OrderService, email string) *model.Order {
	t.Helper()
	order, err := svc.CreateOrder(
		"山田 太郎",
		email,
		"醤油ラーメン, 餃子",
		"東京都新宿区1-2-3",
		model.PaymentCashOnDelivery,
		"",
	)
	require.NoError(t, err)
	return order
}

func TestOrderService_CreateOrder(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	order, err := svc.CreateOrder(
		"山田 太郎",
		"Taro@Example.com",
		" 醤油ラーメン , 餃子 ,, ",
		"東京都新宿区1-2-3",
		model.PaymentCreditCard,
		"ネギ抜きでお願いします",
	)
	require.NoError(t, err)

	// The submitted status is always "received" regardless of input
	assert.Equal(t, model.OrderStatusReceived, order.Status)
	assert.Equal(t, "taro@example.com", order.CustomerEmail)
	assert.Equal(t, []string{"醤油ラーメン", "餃子"}, order.Items)
	assert.Len(t, order.OrderToken, util.OrderTokenLength)
	assert.False(t, order.OrderDate.IsZero())
	assert.NotZero(t, order.ID)
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	tests := []struct {
		name          string
		items         string
		paymentMethod model.PaymentMethod
		wantErr       error
	}{
		{
			name:          "Empty items",
			items:         " , , ",
			paymentMethod: model.PaymentCreditCard,
			wantErr:       ErrEmptyItems,
		},
		{
			name:          "Unknown payment method",
			items:         "醤油ラーメン",
			paymentMethod: model.PaymentMethod("bitcoin"),
			wantErr:       ErrInvalidPaymentMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := svc.CreateOrder(
				"山田 太郎",
				"taro@example.com",
				tt.items,
				"東京都新宿区1-2-3",
				tt.paymentMethod,
				"",
			)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, order)
		})
	}
}

func TestOrderService_CreateOrder_TokensAreUnique(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		order := createTestOrder(t, svc, "taro@example.com")
		assert.False(t, seen[order.OrderToken])
		seen[order.OrderToken] = true
	}
}

func TestOrderService_GetCustomerOrder_Ownership(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	mine := createTestOrder(t, svc, "taro@example.com")
	other := createTestOrder(t, svc, "other@example.com")

	found, err := svc.GetCustomerOrder("taro@example.com", mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, found.ID)

	// A foreign order reads as not found, not forbidden
	_, err = svc.GetCustomerOrder("taro@example.com", other.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.GetCustomerOrder("taro@example.com", 99999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetCustomerOrders_NewestFirst(t *testing.T) {
	svc, orderRepo := setupOrderServiceTest(t)

	first := createTestOrder(t, svc, "taro@example.com")
	first.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, orderRepo.Update(first))
	second := createTestOrder(t, svc, "taro@example.com")
	createTestOrder(t, svc, "other@example.com")

	orders, err := svc.GetCustomerOrders("taro@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	order := createTestOrder(t, svc, "taro@example.com")

	// Any stage may follow any other stage, including moving backward
	sequence := []model.OrderStatus{
		model.OrderStatusConfirmed,
		model.OrderStatusOrdered,
		model.OrderStatusDelivered,
		model.OrderStatusReceived,
	}
	for _, status := range sequence {
		updated, err := svc.UpdateStatus(order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)

		// The write stamps updated_at; creation time is untouched
		assert.False(t, updated.UpdatedAt.Before(order.UpdatedAt))
		assert.Equal(t, order.CreatedAt.Unix(), updated.CreatedAt.Unix())
	}
}

func TestOrderService_UpdateStatus_Errors(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	order := createTestOrder(t, svc, "taro@example.com")

	_, err := svc.UpdateStatus(order.ID, model.OrderStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	_, err = svc.UpdateStatus(99999, model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// The failed update must not have touched the stored record
	current, err := svc.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusReceived, current.Status)
}

// Moving an order out of a stage removes it from that stage's filtered
// listing and makes it appear in the new stage's listing.
func TestOrderService_UpdateStatus_MovesBetweenFilteredListings(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	order := createTestOrder(t, svc, "taro@example.com")
	createTestOrder(t, svc, "other@example.com")

	_, err := svc.UpdateStatus(order.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)

	all, err := svc.ListOrders()
	require.NoError(t, err)

	received := FilterOrders(all, model.OrderStatusReceived, "")
	confirmed := FilterOrders(all, model.OrderStatusConfirmed, "")

	for _, o := range received {
		assert.NotEqual(t, order.ID, o.ID)
	}
	require.Len(t, confirmed, 1)
	assert.Equal(t, order.ID, confirmed[0].ID)
}

func TestOrderService_EditOrder(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	order := createTestOrder(t, svc, "taro@example.com")
	_, err := svc.UpdateStatus(order.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)

	edited, err := svc.EditOrder(order.ID, OrderEdit{
		CustomerName:    "鈴木 花子",
		CustomerEmail:   "Hanako@Example.com",
		Items:           []string{"味噌ラーメン"},
		DeliveryAddress: "大阪府大阪市4-5-6",
		PaymentMethod:   model.PaymentBankTransfer,
		Notes:           "置き配希望",
	})
	require.NoError(t, err)

	assert.Equal(t, "鈴木 花子", edited.CustomerName)
	assert.Equal(t, "hanako@example.com", edited.CustomerEmail)
	assert.Equal(t, []string{"味噌ラーメン"}, edited.Items)
	assert.Equal(t, model.PaymentBankTransfer, edited.PaymentMethod)

	// Saving never changes the status or the token
	assert.Equal(t, model.OrderStatusConfirmed, edited.Status)
	assert.Equal(t, order.OrderToken, edited.OrderToken)
}

func TestOrderService_EditOrder_Errors(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	order := createTestOrder(t, svc, "taro@example.com")

	edit := OrderEdit{
		CustomerName:    "山田 太郎",
		CustomerEmail:   "taro@example.com",
		Items:           []string{"醤油ラーメン"},
		DeliveryAddress: "東京都新宿区1-2-3",
		PaymentMethod:   model.PaymentCreditCard,
	}

	noItems := edit
	noItems.Items = nil
	_, err := svc.EditOrder(order.ID, noItems)
	assert.ErrorIs(t, err, ErrEmptyItems)

	badPayment := edit
	badPayment.PaymentMethod = model.PaymentMethod("barter")
	_, err = svc.EditOrder(order.ID, badPayment)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = svc.EditOrder(99999, edit)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	order := createTestOrder(t, svc, "taro@example.com")

	require.NoError(t, svc.DeleteOrder(order.ID))

	_, err := svc.GetOrderByID(order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	assert.ErrorIs(t, svc.DeleteOrder(order.ID), ErrOrderNotFound)
}

func TestSplitItems(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "Single item",
			raw:  "醤油ラーメン",
			want: []string{"醤油ラーメン"},
		},
		{
			name: "Multiple items with whitespace",
			raw:  " 醤油ラーメン , 餃子 ",
			want: []string{"醤油ラーメン", "餃子"},
		},
		{
			name: "Empty entries dropped",
			raw:  ",醤油ラーメン,,餃子,",
			want: []string{"醤油ラーメン", "餃子"},
		},
		{
			name: "Only separators",
			raw:  " , , ",
			want: []string{},
		},
		{
			name: "Empty input",
			raw:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitItems(tt.raw))
		})
	}
}
