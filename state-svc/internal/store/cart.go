package store

import (
	"github.com/shopspring/decimal"

	"budget-bites/state-svc/internal/domain"
)

// AddToCart merges line into the cart. An existing line for the same menu item keeps its
// restaurant and position and gains the incoming quantity. Non-positive quantities are ignored.
func (s *Store) AddToCart(line domain.CartLine) bool {
	if line.Quantity <= 0 {
		return false
	}
	return s.mutate(func() bool {
		if i := s.cartIndex(line.MenuItem.ID); i >= 0 {
			s.cart[i].Quantity += line.Quantity
			return true
		}
		s.cart = append(s.cart, line)
		return true
	})
}

func (s *Store) RemoveFromCart(menuItemID string) bool {
	return s.mutate(func() bool {
		return s.removeLine(menuItemID)
	})
}

// UpdateQuantity sets the quantity exactly. A quantity of zero or less removes the line.
func (s *Store) UpdateQuantity(menuItemID string, quantity int) bool {
	return s.mutate(func() bool {
		if quantity <= 0 {
			return s.removeLine(menuItemID)
		}
		i := s.cartIndex(menuItemID)
		if i < 0 {
			return false
		}
		s.cart[i].Quantity = quantity
		return true
	})
}

func (s *Store) ClearCart() {
	s.mutate(func() bool {
		s.cart = nil
		return true
	})
}

func (s *Store) Cart() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked()
}

// CartTotal is recomputed from the lines on every call.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartTotalLocked()
}

func (s *Store) cartIndex(menuItemID string) int {
	for i := range s.cart {
		if s.cart[i].MenuItem.ID == menuItemID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLine(menuItemID string) bool {
	i := s.cartIndex(menuItemID)
	if i < 0 {
		return false
	}
	s.cart = append(s.cart[:i:i], s.cart[i+1:]...)
	return true
}

func (s *Store) cartLocked() []domain.CartLine {
	return append([]domain.CartLine{}, s.cart...)
}

func (s *Store) cartTotalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.cart {
		total = total.Add(line.LineTotal())
	}
	return total
}
