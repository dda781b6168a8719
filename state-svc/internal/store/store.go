package store

import (
	"sync"

	"budget-bites/state-svc/internal/domain"
)

// Observer receives a snapshot after every mutation that changed state.
type Observer func(domain.Snapshot)

// Policy resolves the default-flag behaviour the UI used to decide on its own.
type Policy struct {
	// DefaultFirstEntry marks the first address or payment method added to an empty
	// collection as default.
	DefaultFirstEntry bool
	// PromoteOnDefaultDelete makes the oldest remaining entry default when the default is deleted.
	PromoteOnDefaultDelete bool
}

func DefaultPolicy() Policy {
	return Policy{DefaultFirstEntry: true}
}

// Store owns the state of one session. All methods are safe for concurrent use;
// every mutation runs under a single lock.
type Store struct {
	mu      sync.Mutex
	policy  Policy
	version uint64

	user         *domain.UserProfile
	isOnboarded  bool
	isLoggedIn   bool
	budget       domain.Budget
	cart         []domain.CartLine
	orders       []domain.Order
	subscription *domain.Subscription
	addresses    *defaults[domain.Address]
	payments     *defaults[domain.PaymentMethod]
	notification domain.NotificationSettings
	app          domain.AppSettings
	tickets      []domain.SupportTicket

	observers    map[int]Observer
	nextObserver int
}

func New(policy Policy) *Store {
	return &Store{
		policy: policy,
		budget: domain.DefaultBudget(),
		addresses: newDefaults(
			func(a *domain.Address) string { return a.ID },
			func(a *domain.Address) *bool { return &a.IsDefault },
		),
		payments: newDefaults(
			func(p *domain.PaymentMethod) string { return p.ID },
			func(p *domain.PaymentMethod) *bool { return &p.IsDefault },
		),
		notification: domain.DefaultNotificationSettings(),
		app:          domain.DefaultAppSettings(),
		observers:    make(map[int]Observer),
	}
}

// mutate runs fn under the lock. When fn reports a change the version is bumped and
// observers are notified after the lock is released.
func (s *Store) mutate(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	var (
		notify []Observer
		snaps  []domain.Snapshot
	)
	if changed {
		s.version++
		for _, id := range s.observerIDs() {
			notify = append(notify, s.observers[id])
			snaps = append(snaps, s.snapshotLocked())
		}
	}
	s.mu.Unlock()

	for i, obs := range notify {
		obs(snaps[i])
	}
	return changed
}

func (s *Store) observerIDs() []int {
	ids := make([]int, 0, len(s.observers))
	for id := 0; id < s.nextObserver; id++ {
		if _, ok := s.observers[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Subscribe registers obs and returns a function that removes it.
func (s *Store) Subscribe(obs Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = obs

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Store) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Version:              s.version,
		User:                 cloneUser(s.user),
		IsOnboarded:          s.isOnboarded,
		IsLoggedIn:           s.isLoggedIn,
		Budget:               s.budget,
		Cart:                 s.cartLocked(),
		CartTotal:            s.cartTotalLocked(),
		Orders:               s.ordersLocked(),
		Subscription:         cloneSubscription(s.subscription),
		Addresses:            s.addresses.list(),
		PaymentMethods:       s.payments.list(),
		NotificationSettings: s.notification,
		AppSettings:          s.app,
		SupportTickets:       append([]domain.SupportTicket{}, s.tickets...),
	}
}

// SetUser replaces the profile. nil means logged out. The profile daily budget and the
// budget daily limit are one value: a zero profile budget takes the current limit, any
// other value must meet domain.MinDailyBudget and becomes the limit.
func (s *Store) SetUser(user *domain.UserProfile) error {
	if user != nil && !user.DailyBudget.IsZero() {
		if err := checkDailyBudget(user.DailyBudget); err != nil {
			return err
		}
	}
	s.mutate(func() bool {
		s.user = cloneUser(user)
		if s.user == nil {
			return true
		}
		if s.user.DailyBudget.IsZero() {
			s.user.DailyBudget = s.budget.DailyBudget
		} else {
			s.budget.DailyBudget = s.user.DailyBudget
		}
		return true
	})
	return nil
}

// UpdateUser merges update into the current profile. It reports false without a profile
// and leaves state unchanged when the daily budget is below the floor.
func (s *Store) UpdateUser(update domain.UserUpdate) (bool, error) {
	if update.DailyBudget != nil {
		if err := checkDailyBudget(*update.DailyBudget); err != nil {
			return false, err
		}
	}
	return s.mutate(func() bool {
		if s.user == nil {
			return false
		}
		merged := s.user.Merge(update)
		s.user = &merged
		s.budget.DailyBudget = merged.DailyBudget
		return true
	}), nil
}

func (s *Store) User() *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.user)
}

func (s *Store) SetIsOnboarded(v bool) {
	s.mutate(func() bool {
		s.isOnboarded = v
		return true
	})
}

func (s *Store) SetIsLoggedIn(v bool) {
	s.mutate(func() bool {
		s.isLoggedIn = v
		return true
	})
}

// SetSubscription replaces the active subscription. nil cancels it.
func (s *Store) SetSubscription(sub *domain.Subscription) {
	s.mutate(func() bool {
		s.subscription = cloneSubscription(sub)
		return true
	})
}

func (s *Store) Subscription() *domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSubscription(s.subscription)
}

func cloneUser(u *domain.UserProfile) *domain.UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneSubscription(sub *domain.Subscription) *domain.Subscription {
	if sub == nil {
		return nil
	}
	c := *sub
	return &c
}
