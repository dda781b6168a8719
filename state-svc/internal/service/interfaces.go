package service

import (
	"context"

	"budget-bites/state-svc/internal/domain"
	"budget-bites/state-svc/internal/store"
)

type SessionServiceInterface interface {
	Create() string
	Session(id string) (*store.Store, error)
	Delete(id string) bool
	Count() int
	ResetDailySpend() int
	ResetMonthlySpend() int

	UpdateProfile(sessionID string, form ProfileForm) (*domain.UserProfile, error)
	AddAddress(sessionID string, form AddressForm) (*domain.Address, error)
	UpdateAddress(sessionID, addressID string, update domain.AddressUpdate) (*domain.Address, error)
	AddPaymentMethod(sessionID string, form PaymentForm) (*domain.PaymentMethod, error)
	OpenTicket(ctx context.Context, sessionID string, form TicketForm) (*domain.SupportTicket, error)

	Checkout(ctx context.Context, sessionID string, req domain.CheckoutRequest) (*domain.CheckoutResult, error)
	RecordOrderStatus(sessionID, orderID string, status domain.OrderStatus) error
	DeliveryQR(sessionID, orderID string) ([]byte, error)
}

type CheckoutGuard interface {
	CheckoutMarkerKey(sessionID, idempotencyKey string) string
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, msg domain.OrderEvent) error
}

type StatusRecorder interface {
	RecordOrderStatus(sessionID, orderID string, status domain.OrderStatus) error
}

var (
	_ SessionServiceInterface = (*SessionService)(nil)
	_ StatusRecorder          = (*SessionService)(nil)
	_ SpendResetter           = (*SessionService)(nil)
	_ QRGenerator             = DefaultQRGenerator{}
)
