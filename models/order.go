package models

import (
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"

	"balloonshop/tables"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusFulfilled OrderStatus = "fulfilled"
	StatusCancelled OrderStatus = "cancelled"
)

var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusFulfilled, StatusCancelled},
	StatusFulfilled: {},
	StatusCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	CashOnDelivery PaymentMethod = "cod"
	UPI            PaymentMethod = "upi"
)

// Label is the human readable form stored on the order row.
func (p PaymentMethod) Label() string {
	switch p {
	case UPI:
		return "UPI"
	default:
		return "Cash on Delivery"
	}
}

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"orderId"`
	ProductID  string          `json:"productId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (o Order) Row() tables.Row {
	r := tables.Row{
		"order_number":     o.OrderNumber,
		"customer_name":    o.CustomerName,
		"customer_email":   o.CustomerEmail,
		"customer_phone":   o.CustomerPhone,
		"shipping_address": o.ShippingAddress,
		"payment_method":   o.PaymentMethod,
		"total_amount":     o.TotalAmount,
		"status":           string(o.Status),
	}
	if o.ID != "" {
		r["id"] = o.ID
	}
	return r
}

func OrderFromRow(r tables.Row) (Order, error) {
	total, err := asDecimal(r["total_amount"])
	if err != nil {
		return Order{}, errors.Annotatef(err, "order %v total", r["id"])
	}
	return Order{
		ID:              asString(r["id"]),
		OrderNumber:     asString(r["order_number"]),
		CustomerName:    asString(r["customer_name"]),
		CustomerEmail:   asString(r["customer_email"]),
		CustomerPhone:   asString(r["customer_phone"]),
		ShippingAddress: asString(r["shipping_address"]),
		PaymentMethod:   asString(r["payment_method"]),
		TotalAmount:     total,
		Status:          OrderStatus(asString(r["status"])),
		CreatedAt:       asTime(r["created_at"]),
	}, nil
}

func (i OrderItem) Row() tables.Row {
	return tables.Row{
		"order_id":    i.OrderID,
		"product_id":  i.ProductID,
		"quantity":    i.Quantity,
		"unit_price":  i.UnitPrice,
		"total_price": i.TotalPrice,
	}
}

func OrderItemFromRow(r tables.Row) (OrderItem, error) {
	unit, err := asDecimal(r["unit_price"])
	if err != nil {
		return OrderItem{}, errors.Annotate(err, "order item unit price")
	}
	total, err := asDecimal(r["total_price"])
	if err != nil {
		return OrderItem{}, errors.Annotate(err, "order item total price")
	}
	return OrderItem{
		ID:         asString(r["id"]),
		OrderID:    asString(r["order_id"]),
		ProductID:  asString(r["product_id"]),
		Quantity:   asInt(r["quantity"]),
		UnitPrice:  unit,
		TotalPrice: total,
	}, nil
}
