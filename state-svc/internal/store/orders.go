package store

import (
	"errors"

	"github.com/shopspring/decimal"

	"budget-bites/state-svc/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty")

// PlaceOrder builds an order from the current cart and, in the same mutation, prepends it,
// adds its total to the spend accumulators and empties the cart. build runs under the
// store lock and must not call back into the store.
func (s *Store) PlaceOrder(build func(cart []domain.CartLine, subtotal decimal.Decimal) (domain.Order, error)) (domain.Order, error) {
	var (
		order domain.Order
		err   error
	)
	s.mutate(func() bool {
		if len(s.cart) == 0 {
			err = ErrEmptyCart
			return false
		}
		order, err = build(s.cartLocked(), s.cartTotalLocked())
		if err != nil {
			return false
		}
		s.orders = append([]domain.Order{order.Clone()}, s.orders...)
		if order.Total.IsPositive() {
			s.budget.SpentToday = s.budget.SpentToday.Add(order.Total)
			s.budget.SpentThisMonth = s.budget.SpentThisMonth.Add(order.Total)
		}
		s.cart = nil
		return true
	})
	return order, err
}

// AddOrder prepends order so listings stay newest first.
func (s *Store) AddOrder(order domain.Order) {
	s.mutate(func() bool {
		s.orders = append([]domain.Order{order.Clone()}, s.orders...)
		return true
	})
}

func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ordersLocked()
}

func (s *Store) Order(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return domain.Order{}, false
}

// UpdateOrderStatus records status as given. Unknown orders and statuses are no-ops.
func (s *Store) UpdateOrderStatus(id string, status domain.OrderStatus) bool {
	if !status.Valid() {
		return false
	}
	return s.mutate(func() bool {
		for i := range s.orders {
			if s.orders[i].ID == id {
				s.orders[i].Status = status
				return true
			}
		}
		return false
	})
}

func (s *Store) ordersLocked() []domain.Order {
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.Clone())
	}
	return out
}
