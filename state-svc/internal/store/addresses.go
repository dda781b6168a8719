package store

import "budget-bites/state-svc/internal/domain"

// AddAddress appends addr. A default address clears the flag on every other entry first.
// An address whose id is already present is ignored.
func (s *Store) AddAddress(addr domain.Address) bool {
	return s.mutate(func() bool {
		return s.addresses.add(addr, s.policy)
	})
}

// UpdateAddress merges update into the matching address. IsDefault=true makes it the only
// default; any other value leaves all default flags as they are.
func (s *Store) UpdateAddress(id string, update domain.AddressUpdate) bool {
	makeDefault := update.IsDefault != nil && *update.IsDefault
	return s.mutate(func() bool {
		return s.addresses.update(id, func(a domain.Address) domain.Address {
			return a.Merge(update)
		}, makeDefault)
	})
}

func (s *Store) DeleteAddress(id string) bool {
	return s.mutate(func() bool {
		return s.addresses.remove(id, s.policy)
	})
}

func (s *Store) SetDefaultAddress(id string) bool {
	return s.mutate(func() bool {
		return s.addresses.setDefault(id)
	})
}

func (s *Store) Addresses() []domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addresses.list()
}

func (s *Store) Address(id string) (domain.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addresses.get(id)
}

func (s *Store) DefaultAddress() (domain.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addresses.defaultItem()
}

func (s *Store) AddPaymentMethod(pm domain.PaymentMethod) bool {
	return s.mutate(func() bool {
		return s.payments.add(pm, s.policy)
	})
}

func (s *Store) UpdatePaymentMethod(id string, update domain.PaymentMethodUpdate) bool {
	makeDefault := update.IsDefault != nil && *update.IsDefault
	return s.mutate(func() bool {
		return s.payments.update(id, func(p domain.PaymentMethod) domain.PaymentMethod {
			return p.Merge(update)
		}, makeDefault)
	})
}

func (s *Store) DeletePaymentMethod(id string) bool {
	return s.mutate(func() bool {
		return s.payments.remove(id, s.policy)
	})
}

func (s *Store) SetDefaultPaymentMethod(id string) bool {
	return s.mutate(func() bool {
		return s.payments.setDefault(id)
	})
}

func (s *Store) PaymentMethods() []domain.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments.list()
}

func (s *Store) PaymentMethod(id string) (domain.PaymentMethod, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments.get(id)
}

func (s *Store) DefaultPaymentMethod() (domain.PaymentMethod, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments.defaultItem()
}
