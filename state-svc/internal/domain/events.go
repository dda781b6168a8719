package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced   = "order_placed"
	EventTicketOpened  = "ticket_opened"
	MessageOrderStatus = "order_status"
)

// OrderEvent is published on the order events topic.
type OrderEvent struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	OrderID   string          `json:"order_id,omitempty"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count,omitempty"`
	TicketID  string          `json:"ticket_id,omitempty"`
	Category  string          `json:"category,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// StatusMessage is what the tracking collaborator sends on the order status topic.
type StatusMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	OrderID   string      `json:"order_id"`
	Status    OrderStatus `json:"status"`
}

type CheckoutRequest struct {
	AddressID       string `json:"address_id,omitempty"`
	PaymentMethodID string `json:"payment_method_id,omitempty"`
	IdempotencyKey  string `json:"idempotency_key,omitempty"`
}

type Bill struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

type CheckoutResult struct {
	Order Order `json:"order"`
	// OverBudget is informational; the order is placed regardless.
	OverBudget bool   `json:"over_budget"`
	Budget     Budget `json:"budget"`
}
