package tests

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget-bites/state-svc/internal/domain"
	"budget-bites/state-svc/internal/store"
)

func TestStore_CartScenario(t *testing.T) {
	st := store.New(store.DefaultPolicy())

	assert.True(t, st.AddToCart(line("X", 100, 1)))
	assert.True(t, st.AddToCart(line("X", 100, 2)))

	cart := st.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)
	assert.True(t, st.CartTotal().Equal(dec(300)))

	assert.True(t, st.UpdateQuantity("X", 1))
	assert.Equal(t, 1, st.Cart()[0].Quantity)
	assert.True(t, st.CartTotal().Equal(dec(100)))

	assert.True(t, st.RemoveFromCart("X"))
	assert.Empty(t, st.Cart())
	assert.True(t, st.CartTotal().IsZero())
}

func TestStore_AddToCart_KeepsOriginalRestaurantAndOrder(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	st.AddToCart(line("a", 50, 1))
	st.AddToCart(line("b", 70, 1))

	again := line("a", 50, 4)
	again.RestaurantID = "other"
	again.RestaurantName = "Other Place"
	st.AddToCart(again)

	cart := st.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, "a", cart[0].MenuItem.ID)
	assert.Equal(t, "b", cart[1].MenuItem.ID)
	assert.Equal(t, 5, cart[0].Quantity)
	assert.Equal(t, "r1", cart[0].RestaurantID)
	assert.Equal(t, "Sharma Kitchen", cart[0].RestaurantName)
}

func TestStore_AddToCart_Aggregation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 20; run++ {
		st := store.New(store.DefaultPolicy())
		sum := 0
		for i := 0; i < 1+rng.Intn(15); i++ {
			q := 1 + rng.Intn(5)
			sum += q
			st.AddToCart(line("same", 30, q))
		}
		cart := st.Cart()
		require.Len(t, cart, 1)
		assert.Equal(t, sum, cart[0].Quantity)
	}
}

func TestStore_AddToCart_NonPositiveQuantityIgnored(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	before := st.Version()

	assert.False(t, st.AddToCart(line("x", 10, 0)))
	assert.False(t, st.AddToCart(line("x", 10, -2)))
	assert.Empty(t, st.Cart())
	assert.Equal(t, before, st.Version())
}

func TestStore_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		expected []domain.CartLine
	}{
		{name: "sets exactly", quantity: 7, expected: []domain.CartLine{line("x", 10, 7)}},
		{name: "zero removes", quantity: 0, expected: []domain.CartLine{}},
		{name: "negative removes", quantity: -1, expected: []domain.CartLine{}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			st := store.New(store.DefaultPolicy())
			st.AddToCart(line("x", 10, 3))

			assert.True(t, st.UpdateQuantity("x", testCase.quantity))
			assert.Equal(t, testCase.expected, st.Cart())
		})
	}
}

func TestStore_UpdateQuantity_MatchesRemove(t *testing.T) {
	a := store.New(store.DefaultPolicy())
	b := store.New(store.DefaultPolicy())
	for _, st := range []*store.Store{a, b} {
		st.AddToCart(line("x", 10, 3))
		st.AddToCart(line("y", 20, 1))
	}

	a.UpdateQuantity("x", 0)
	b.RemoveFromCart("x")

	assert.Equal(t, b.Cart(), a.Cart())
	assert.True(t, a.CartTotal().Equal(b.CartTotal()))
}

func TestStore_CartTotalAlwaysMatchesLines(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	st := store.New(store.DefaultPolicy())
	ids := []string{"a", "b", "c", "d"}

	for i := 0; i < 300; i++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(5) {
		case 0, 1:
			st.AddToCart(domain.CartLine{
				MenuItem: domain.MenuItem{ID: id, Price: decimal.New(int64(rng.Intn(50000)), -2)},
				Quantity: 1 + rng.Intn(3),
			})
		case 2:
			st.UpdateQuantity(id, rng.Intn(6)-1)
		case 3:
			st.RemoveFromCart(id)
		case 4:
			if rng.Intn(10) == 0 {
				st.ClearCart()
			}
		}

		expected := decimal.Zero
		seen := map[string]bool{}
		for _, l := range st.Cart() {
			assert.False(t, seen[l.MenuItem.ID], "duplicate line for %s", l.MenuItem.ID)
			seen[l.MenuItem.ID] = true
			assert.Positive(t, l.Quantity)
			expected = expected.Add(l.MenuItem.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		require.True(t, st.CartTotal().Equal(expected), "step %d: %s != %s", i, st.CartTotal(), expected)
	}

	st.ClearCart()
	assert.True(t, st.CartTotal().IsZero())
}

func TestStore_UnknownIDsAreNoOps(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	st.AddAddress(domain.Address{ID: "a", Label: domain.LabelHome, FullAddress: "12 MG Road", City: "Pune", Pincode: "411001"})
	st.AddPaymentMethod(domain.PaymentMethod{ID: "p", Type: domain.PaymentCOD, Name: "Cash on Delivery"})
	st.AddToCart(line("x", 10, 1))

	before := st.Snapshot()

	assert.False(t, st.DeleteAddress("nonexistent-id"))
	assert.False(t, st.UpdateAddress("nonexistent-id", domain.AddressUpdate{City: strPtr("Delhi"), IsDefault: boolPtr(true)}))
	assert.False(t, st.SetDefaultAddress("nonexistent-id"))
	assert.False(t, st.DeletePaymentMethod("nonexistent-id"))
	assert.False(t, st.UpdatePaymentMethod("nonexistent-id", domain.PaymentMethodUpdate{IsDefault: boolPtr(true)}))
	assert.False(t, st.SetDefaultPaymentMethod("nonexistent-id"))
	assert.False(t, st.RemoveFromCart("nonexistent-id"))
	assert.False(t, st.UpdateQuantity("nonexistent-id", 4))
	assert.False(t, st.UpdateOrderStatus("nonexistent-id", domain.StatusDelivered))

	assert.Equal(t, before, st.Snapshot())
}

func TestStore_SetDefaultAddressScenario(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	st.AddAddress(domain.Address{ID: "A", Label: domain.LabelHome, IsDefault: true})
	st.AddAddress(domain.Address{ID: "B", Label: domain.LabelWork})

	assert.True(t, st.SetDefaultAddress("B"))

	a, _ := st.Address("A")
	b, _ := st.Address("B")
	assert.False(t, a.IsDefault)
	assert.True(t, b.IsDefault)
	assert.Equal(t, 1, countDefaultAddresses(st.Addresses()))
}

func TestStore_AddDefaultAddressClearsOthers(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	st.AddAddress(domain.Address{ID: "A"})
	st.AddAddress(domain.Address{ID: "B", IsDefault: true})

	addrs := st.Addresses()
	require.Len(t, addrs, 2)
	assert.False(t, addrs[0].IsDefault)
	assert.True(t, addrs[1].IsDefault)
}

func TestStore_UpdateAddress(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	st.AddAddress(domain.Address{ID: "A", City: "Pune", IsDefault: true})
	st.AddAddress(domain.Address{ID: "B", City: "Mumbai"})

	// IsDefault=false is not an instruction to clear the flag.
	assert.True(t, st.UpdateAddress("A", domain.AddressUpdate{City: strPtr("Nashik"), IsDefault: boolPtr(false)}))
	a, _ := st.Address("A")
	assert.Equal(t, "Nashik", a.City)
	assert.True(t, a.IsDefault)

	assert.True(t, st.UpdateAddress("B", domain.AddressUpdate{IsDefault: boolPtr(true)}))
	a, _ = st.Address("A")
	b, _ := st.Address("B")
	assert.False(t, a.IsDefault)
	assert.True(t, b.IsDefault)
	assert.Equal(t, "Mumbai", b.City)
}

func TestStore_DefaultExclusivity_RandomOperations(t *testing.T) {
	for _, policy := range []store.Policy{
		{},
		{DefaultFirstEntry: true},
		{DefaultFirstEntry: true, PromoteOnDefaultDelete: true},
	} {
		t.Run(fmt.Sprintf("%+v", policy), func(t *testing.T) {
			rng := rand.New(rand.NewSource(99))
			st := store.New(policy)

			for i := 0; i < 500; i++ {
				id := fmt.Sprintf("id-%d", rng.Intn(8))
				switch rng.Intn(6) {
				case 0:
					st.AddAddress(domain.Address{ID: id, IsDefault: rng.Intn(2) == 0})
					st.AddPaymentMethod(domain.PaymentMethod{ID: id, IsDefault: rng.Intn(2) == 0})
				case 1:
					st.UpdateAddress(id, domain.AddressUpdate{IsDefault: boolPtr(rng.Intn(2) == 0)})
					st.UpdatePaymentMethod(id, domain.PaymentMethodUpdate{IsDefault: boolPtr(rng.Intn(2) == 0)})
				case 2:
					st.SetDefaultAddress(id)
					st.SetDefaultPaymentMethod(id)
				case 3:
					st.DeleteAddress(id)
					st.DeletePaymentMethod(id)
				default:
					st.UpdateAddress(id, domain.AddressUpdate{City: strPtr("Pune")})
					st.UpdatePaymentMethod(id, domain.PaymentMethodUpdate{Name: strPtr("Wallet")})
				}

				require.LessOrEqual(t, countDefaultAddresses(st.Addresses()), 1, "step %d", i)
				require.LessOrEqual(t, countDefaultPayments(st.PaymentMethods()), 1, "step %d", i)
			}
		})
	}
}

func TestStore_Policy_DefaultFirstEntry(t *testing.T) {
	st := store.New(store.Policy{DefaultFirstEntry: true})
	st.AddAddress(domain.Address{ID: "A"})
	st.AddAddress(domain.Address{ID: "B"})
	st.AddPaymentMethod(domain.PaymentMethod{ID: "P"})

	a, _ := st.Address("A")
	b, _ := st.Address("B")
	p, _ := st.PaymentMethod("P")
	assert.True(t, a.IsDefault)
	assert.False(t, b.IsDefault)
	assert.True(t, p.IsDefault)

	literal := store.New(store.Policy{})
	literal.AddAddress(domain.Address{ID: "A"})
	_, ok := literal.DefaultAddress()
	assert.False(t, ok)
}

func TestStore_Policy_DeleteDefault(t *testing.T) {
	tests := []struct {
		name            string
		policy          store.Policy
		expectedDefault string
	}{
		{name: "leave_without_default", policy: store.DefaultPolicy(), expectedDefault: ""},
		{name: "promote_oldest", policy: store.Policy{DefaultFirstEntry: true, PromoteOnDefaultDelete: true}, expectedDefault: "B"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			st := store.New(testCase.policy)
			st.AddAddress(domain.Address{ID: "A"})
			st.AddAddress(domain.Address{ID: "B"})
			st.AddAddress(domain.Address{ID: "C"})

			assert.True(t, st.DeleteAddress("A"))
			def, ok := st.DefaultAddress()
			if testCase.expectedDefault == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, testCase.expectedDefault, def.ID)
		})
	}
}

func TestStore_DuplicateIDIgnored(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	assert.True(t, st.AddAddress(domain.Address{ID: "A", City: "Pune"}))
	assert.False(t, st.AddAddress(domain.Address{ID: "A", City: "Goa", IsDefault: true}))

	addrs := st.Addresses()
	require.Len(t, addrs, 1)
	assert.Equal(t, "Pune", addrs[0].City)
}

func TestStore_BudgetFloors(t *testing.T) {
	st := store.New(store.DefaultPolicy())

	err := st.SetDailyBudget(dec(49))
	assert.ErrorIs(t, err, store.ErrBelowMinimumBudget)
	assert.True(t, st.Budget().DailyBudget.Equal(domain.DefaultDailyBudget))

	assert.NoError(t, st.SetDailyBudget(dec(50)))
	assert.True(t, st.Budget().DailyBudget.Equal(dec(50)))

	err = st.SetMonthlyBudget(dec(999))
	assert.ErrorIs(t, err, store.ErrBelowMinimumBudget)
	assert.True(t, st.Budget().MonthlyBudget.Equal(domain.DefaultMonthlyBudget))

	assert.NoError(t, st.SetMonthlyBudget(dec(1000)))
	assert.True(t, st.Budget().MonthlyBudget.Equal(dec(1000)))
}

func TestStore_SpendAccumulators(t *testing.T) {
	st := store.New(store.DefaultPolicy())

	assert.True(t, st.RecordSpend(dec(150)))
	assert.True(t, st.RecordSpend(dec(120)))
	assert.False(t, st.RecordSpend(dec(-5)))

	b := st.Budget()
	assert.True(t, b.SpentToday.Equal(dec(270)))
	assert.True(t, b.SpentThisMonth.Equal(dec(270)))
	assert.True(t, b.DailyExceeded())
	assert.True(t, b.DailyRemaining().Equal(dec(-70)))

	st.ResetDailySpend()
	b = st.Budget()
	assert.True(t, b.SpentToday.IsZero())
	assert.True(t, b.SpentThisMonth.Equal(dec(270)))

	st.ResetMonthlySpend()
	assert.True(t, st.Budget().SpentThisMonth.IsZero())
}

func TestStore_OrdersNewestFirst(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	st.AddOrder(domain.Order{ID: "A"})
	st.AddOrder(domain.Order{ID: "B"})

	orders := st.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "B", orders[0].ID)
	assert.Equal(t, "A", orders[1].ID)
}

func TestStore_UpdateOrderStatusRecordsAsGiven(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	st.AddOrder(domain.Order{ID: "A", Status: domain.StatusDelivered})

	assert.True(t, st.UpdateOrderStatus("A", domain.StatusPreparing))
	o, _ := st.Order("A")
	assert.Equal(t, domain.StatusPreparing, o.Status)

	assert.False(t, st.UpdateOrderStatus("A", domain.OrderStatus("lost")))
}

func TestStore_PlaceOrder(t *testing.T) {
	st := store.New(store.DefaultPolicy())

	_, err := st.PlaceOrder(func([]domain.CartLine, decimal.Decimal) (domain.Order, error) {
		t.Fatal("build must not run for an empty cart")
		return domain.Order{}, nil
	})
	assert.ErrorIs(t, err, store.ErrEmptyCart)

	st.AddToCart(line("x", 100, 2))
	order, err := st.PlaceOrder(func(cart []domain.CartLine, subtotal decimal.Decimal) (domain.Order, error) {
		assert.Len(t, cart, 1)
		assert.True(t, subtotal.Equal(dec(200)))
		return domain.Order{ID: "ORD1", Items: cart, Total: dec(230)}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD1", order.ID)

	assert.Empty(t, st.Cart())
	assert.Len(t, st.Orders(), 1)
	assert.True(t, st.Budget().SpentToday.Equal(dec(230)))
}

func TestStore_UserUpdates(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	ok, err := st.UpdateUser(domain.UserUpdate{Name: strPtr("Priya")})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, st.User())

	require.NoError(t, st.SetUser(&domain.UserProfile{ID: "u1", Name: "Priya", Email: "priya@example.com", DailyBudget: dec(200)}))
	ok, err = st.UpdateUser(domain.UserUpdate{Phone: strPtr("+919876543210")})
	require.NoError(t, err)
	assert.True(t, ok)

	u := st.User()
	require.NotNil(t, u)
	assert.Equal(t, "Priya", u.Name)
	assert.Equal(t, "priya@example.com", u.Email)
	assert.Equal(t, "+919876543210", u.Phone)

	require.NoError(t, st.SetUser(nil))
	assert.Nil(t, st.User())
}

func TestStore_ProfileDailyBudgetFollowsBudget(t *testing.T) {
	st := store.New(store.DefaultPolicy())

	require.NoError(t, st.SetUser(&domain.UserProfile{ID: "u1", Name: "Priya"}))
	assert.True(t, st.User().DailyBudget.Equal(dec(200)))

	tests := []struct {
		name   string
		amount int64
	}{
		{name: "negative", amount: -50},
		{name: "below floor", amount: 10},
		{name: "just below floor", amount: 49},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			amount := dec(testCase.amount)
			ok, err := st.UpdateUser(domain.UserUpdate{DailyBudget: &amount})
			assert.ErrorIs(t, err, store.ErrBelowMinimumBudget)
			assert.False(t, ok)
			assert.True(t, st.User().DailyBudget.Equal(dec(200)))
			assert.True(t, st.Budget().DailyBudget.Equal(dec(200)))

			err = st.SetUser(&domain.UserProfile{ID: "u2", DailyBudget: amount})
			assert.ErrorIs(t, err, store.ErrBelowMinimumBudget)
			assert.Equal(t, "u1", st.User().ID)
		})
	}

	floor := dec(50)
	ok, err := st.UpdateUser(domain.UserUpdate{DailyBudget: &floor})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, st.Budget().DailyBudget.Equal(dec(50)))

	require.NoError(t, st.SetDailyBudget(dec(300)))
	assert.True(t, st.User().DailyBudget.Equal(dec(300)))

	require.NoError(t, st.SetUser(&domain.UserProfile{ID: "u3", DailyBudget: dec(150)}))
	assert.True(t, st.Budget().DailyBudget.Equal(dec(150)))
}

func TestStore_SettingsMerge(t *testing.T) {
	st := store.New(store.DefaultPolicy())

	n := st.UpdateNotificationSettings(domain.NotificationSettingsUpdate{Offers: boolPtr(false), Vibration: boolPtr(true)})
	assert.False(t, n.Offers)
	assert.True(t, n.Vibration)
	assert.True(t, n.OrderUpdates)

	a := st.UpdateAppSettings(domain.AppSettingsUpdate{DarkMode: boolPtr(true)})
	assert.True(t, a.DarkMode)
	assert.Equal(t, "en", a.Language)
}

func TestStore_TicketsNewestFirst(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	st.AddSupportTicket(domain.SupportTicket{ID: "1", Status: domain.TicketOpen})
	st.AddSupportTicket(domain.SupportTicket{ID: "2", Status: domain.TicketOpen})

	tickets := st.SupportTickets()
	require.Len(t, tickets, 2)
	assert.Equal(t, "2", tickets[0].ID)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	st := store.New(store.DefaultPolicy())
	st.AddToCart(line("x", 10, 1))
	st.AddAddress(domain.Address{ID: "A"})
	st.AddOrder(domain.Order{ID: "O", Items: []domain.CartLine{line("x", 10, 1)}})

	snap := st.Snapshot()
	snap.Cart[0].Quantity = 99
	snap.Addresses[0].IsDefault = false
	snap.Orders[0].Items[0].Quantity = 42

	assert.Equal(t, 1, st.Cart()[0].Quantity)
	assert.True(t, st.Addresses()[0].IsDefault)
	assert.Equal(t, 1, st.Orders()[0].Items[0].Quantity)
}

func TestStore_ObserversSeeEachMutation(t *testing.T) {
	st := store.New(store.DefaultPolicy())

	var versions []uint64
	unsubscribe := st.Subscribe(func(snap domain.Snapshot) {
		versions = append(versions, snap.Version)
	})

	st.AddToCart(line("x", 10, 1))
	st.SetIsOnboarded(true)
	st.RemoveFromCart("missing")
	unsubscribe()
	st.ClearCart()

	assert.Equal(t, []uint64{1, 2}, versions)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	st := store.New(store.DefaultPolicy())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				st.AddToCart(line("shared", 5, 1))
				id := fmt.Sprintf("%d-%d", g, i%4)
				st.AddAddress(domain.Address{ID: id, IsDefault: i%2 == 0})
				st.SetDefaultAddress(id)
			}
		}(g)
	}
	wg.Wait()

	cart := st.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 800, cart[0].Quantity)
	assert.Equal(t, 1, countDefaultAddresses(st.Addresses()))
	assert.True(t, st.CartTotal().Equal(dec(4000)))
}
