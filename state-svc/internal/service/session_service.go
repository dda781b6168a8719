package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"budget-bites/state-svc/internal/domain"
	"budget-bites/state-svc/internal/store"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrAddressNotFound       = errors.New("address not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrNotLoggedIn           = errors.New("no user profile in session")
	ErrDuplicateCheckout     = errors.New("checkout already submitted")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrEmptyCart             = store.ErrEmptyCart
)

// SessionService keeps one store per session. Session state lives in process memory only.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*store.Store

	policy    store.Policy
	validator *Validator
	guard     CheckoutGuard
	publisher EventPublisher
	qr        QRGenerator
	orderIDs  *OrderIDs
	onCreate  []func(id string, st *store.Store)
	log       logrus.FieldLogger
	now       func() time.Time
}

type Option func(*SessionService)

func WithPolicy(p store.Policy) Option {
	return func(s *SessionService) { s.policy = p }
}

func WithCheckoutGuard(g CheckoutGuard) Option {
	return func(s *SessionService) { s.guard = g }
}

func WithPublisher(p EventPublisher) Option {
	return func(s *SessionService) { s.publisher = p }
}

func WithQRGenerator(g QRGenerator) Option {
	return func(s *SessionService) { s.qr = g }
}

func WithClock(now func() time.Time) Option {
	return func(s *SessionService) { s.now = now }
}

// WithSessionHook runs fn for every new session, before its id is returned.
func WithSessionHook(fn func(id string, st *store.Store)) Option {
	return func(s *SessionService) { s.onCreate = append(s.onCreate, fn) }
}

func NewSessionService(log logrus.FieldLogger, opts ...Option) *SessionService {
	s := &SessionService{
		sessions:  make(map[string]*store.Store),
		policy:    store.DefaultPolicy(),
		validator: NewValidator(),
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.orderIDs = NewOrderIDs(s.now)
	return s
}

func (s *SessionService) Create() string {
	id := uuid.NewString()
	st := store.New(s.policy)
	for _, fn := range s.onCreate {
		fn(id, st)
	}

	s.mu.Lock()
	s.sessions[id] = st
	s.mu.Unlock()

	s.log.WithField("session_id", id).Debug("session created")
	return id
}

func (s *SessionService) Session(id string) (*store.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st, nil
}

func (s *SessionService) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionService) all() []*store.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*store.Store, 0, len(s.sessions))
	for _, st := range s.sessions {
		out = append(out, st)
	}
	return out
}

// ResetDailySpend zeroes today's spend in every session and returns how many were visited.
func (s *SessionService) ResetDailySpend() int {
	stores := s.all()
	for _, st := range stores {
		st.ResetDailySpend()
	}
	return len(stores)
}

func (s *SessionService) ResetMonthlySpend() int {
	stores := s.all()
	for _, st := range stores {
		st.ResetMonthlySpend()
	}
	return len(stores)
}

func (s *SessionService) UpdateProfile(sessionID string, form ProfileForm) (*domain.UserProfile, error) {
	st, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Profile(&form); err != nil {
		return nil, err
	}
	update := domain.UserUpdate{
		Name:  &form.Name,
		Email: &form.Email,
		Phone: &form.Phone,
	}
	if form.Avatar != "" {
		update.Avatar = &form.Avatar
	}
	ok, err := st.UpdateUser(update)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return st.User(), nil
}

func (s *SessionService) AddAddress(sessionID string, form AddressForm) (*domain.Address, error) {
	st, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Address(&form); err != nil {
		return nil, err
	}
	addr := form.Address(uuid.NewString())
	st.AddAddress(addr)
	stored, _ := st.Address(addr.ID)
	return &stored, nil
}

// UpdateAddress validates the address as it would look after the update before applying it.
func (s *SessionService) UpdateAddress(sessionID, addressID string, update domain.AddressUpdate) (*domain.Address, error) {
	st, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	current, ok := st.Address(addressID)
	if !ok {
		return nil, ErrAddressNotFound
	}
	form := addressFormOf(current.Merge(update))
	if err := s.validator.Address(&form); err != nil {
		return nil, err
	}
	if !st.UpdateAddress(addressID, update) {
		return nil, ErrAddressNotFound
	}
	updated, _ := st.Address(addressID)
	return &updated, nil
}

func (s *SessionService) AddPaymentMethod(sessionID string, form PaymentForm) (*domain.PaymentMethod, error) {
	st, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Payment(&form); err != nil {
		return nil, err
	}
	pm := form.PaymentMethod(uuid.NewString())
	st.AddPaymentMethod(pm)
	stored, _ := st.PaymentMethod(pm.ID)
	return &stored, nil
}

func (s *SessionService) OpenTicket(ctx context.Context, sessionID string, form TicketForm) (*domain.SupportTicket, error) {
	st, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Ticket(&form); err != nil {
		return nil, err
	}
	ticket := domain.SupportTicket{
		ID:        uuid.NewString(),
		Category:  form.Category,
		Message:   form.Message,
		OrderID:   form.OrderID,
		Status:    domain.TicketOpen,
		CreatedAt: s.now(),
	}
	st.AddSupportTicket(ticket)

	s.publish(ctx, domain.OrderEvent{
		Type:      domain.EventTicketOpened,
		SessionID: sessionID,
		OrderID:   ticket.OrderID,
		TicketID:  ticket.ID,
		Category:  ticket.Category,
		Timestamp: ticket.CreatedAt,
	})
	return &ticket, nil
}

func (s *SessionService) Checkout(ctx context.Context, sessionID string, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	st, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if len(st.Cart()) == 0 {
		return nil, ErrEmptyCart
	}

	deliverTo, err := s.deliveryAddress(st, req.AddressID)
	if err != nil {
		return nil, err
	}
	paymentID, err := s.paymentMethodID(st, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	var claimedKey string
	if s.guard != nil && req.IdempotencyKey != "" {
		key := s.guard.CheckoutMarkerKey(sessionID, req.IdempotencyKey)
		claimed, err := s.guard.Claim(ctx, key)
		if err != nil {
			s.log.WithError(err).WithField("key", key).Warn("checkout guard unavailable")
		} else if !claimed {
			return nil, ErrDuplicateCheckout
		} else {
			claimedKey = key
		}
	}

	order, err := st.PlaceOrder(func(cart []domain.CartLine, subtotal decimal.Decimal) (domain.Order, error) {
		bill := ComputeBill(subtotal)
		return domain.Order{
			ID:              s.orderIDs.Next(),
			Items:           cart,
			Subtotal:        bill.Subtotal,
			DeliveryFee:     bill.DeliveryFee,
			Tax:             bill.Tax,
			Total:           bill.Total,
			Status:          domain.StatusConfirmed,
			DeliveryOTP:     NewDeliveryOTP(),
			EstimatedTime:   EstimatedDeliveryTime,
			DeliveryAddress: deliverTo,
			PaymentMethodID: paymentID,
			CreatedAt:       s.now(),
		}, nil
	})
	if err != nil {
		if claimedKey != "" {
			if relErr := s.guard.Release(context.WithoutCancel(ctx), claimedKey); relErr != nil {
				s.log.WithError(relErr).WithField("key", claimedKey).Warn("checkout marker release failed")
			}
		}
		return nil, err
	}

	budget := st.Budget()
	result := &domain.CheckoutResult{
		Order:      order,
		OverBudget: order.Total.GreaterThan(budget.DailyBudget),
		Budget:     budget,
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   order.ID,
		"total":      order.Total.String(),
	}).Info("order placed")

	s.publish(ctx, domain.OrderEvent{
		Type:      domain.EventOrderPlaced,
		SessionID: sessionID,
		OrderID:   order.ID,
		Total:     order.Total,
		ItemCount: len(order.Items),
		Timestamp: order.CreatedAt,
	})
	return result, nil
}

func (s *SessionService) deliveryAddress(st *store.Store, id string) (string, error) {
	if id != "" {
		addr, ok := st.Address(id)
		if !ok {
			return "", ErrAddressNotFound
		}
		return addr.FullAddress, nil
	}
	if addr, ok := st.DefaultAddress(); ok {
		return addr.FullAddress, nil
	}
	return "Home", nil
}

func (s *SessionService) paymentMethodID(st *store.Store, id string) (string, error) {
	if id != "" {
		if _, ok := st.PaymentMethod(id); !ok {
			return "", ErrPaymentMethodNotFound
		}
		return id, nil
	}
	if pm, ok := st.DefaultPaymentMethod(); ok {
		return pm.ID, nil
	}
	return "", nil
}

func (s *SessionService) publish(ctx context.Context, msg domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, msg); err != nil {
		s.log.WithError(err).WithField("type", msg.Type).Error("failed to publish order event")
	}
}

// RecordOrderStatus stores the status reported by the tracking collaborator as given.
func (s *SessionService) RecordOrderStatus(sessionID, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	st, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	if !st.UpdateOrderStatus(orderID, status) {
		return ErrOrderNotFound
	}
	return nil
}

func (s *SessionService) DeliveryQR(sessionID, orderID string) ([]byte, error) {
	st, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	order, ok := st.Order(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}
	if s.qr == nil {
		return nil, errors.New("qr generator not configured")
	}
	return s.qr.Generate(order.ID, order.DeliveryOTP)
}
