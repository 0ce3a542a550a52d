package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balloonshop/tables"
)

func TestProductFromRow_NormalisesBackendTypes(t *testing.T) {
	p, err := ProductFromRow(tables.Row{
		"id":             "p1",
		"name":           "Gold Arch",
		"price":          "199.00",
		"stock_quantity": int64(5),
		"is_active":      true,
	})
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(199)))
	assert.Equal(t, 5, p.StockQuantity)
	assert.True(t, p.InStock())

	_, err = ProductFromRow(tables.Row{"id": "bad", "price": "abc"})
	assert.Error(t, err)
}

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusFulfilled))
	assert.False(t, StatusPending.CanTransitionTo(StatusFulfilled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))
	assert.False(t, OrderStatus("shipped").Valid())
}

func TestPaymentMethod_Label(t *testing.T) {
	assert.Equal(t, "Cash on Delivery", CashOnDelivery.Label())
	assert.Equal(t, "UPI", UPI.Label())
}

func TestOrderRoundTrip(t *testing.T) {
	o := Order{
		ID:          "o1",
		OrderNumber: "ORD-123456ABCDEF",
		TotalAmount: decimal.NewFromInt(398),
		Status:      StatusPending,
	}
	back, err := OrderFromRow(o.Row())
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, back.OrderNumber)
	assert.True(t, back.TotalAmount.Equal(o.TotalAmount))
	assert.Equal(t, StatusPending, back.Status)
}
