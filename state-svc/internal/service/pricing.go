package service

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"budget-bites/state-svc/internal/domain"
)

var (
	DeliveryFee = decimal.NewFromInt(20)
	TaxRate     = decimal.New(5, -2)
)

const EstimatedDeliveryTime = "30-35 min"

// ComputeBill adds the flat delivery fee and 5% tax rounded to a whole amount.
func ComputeBill(subtotal decimal.Decimal) domain.Bill {
	tax := subtotal.Mul(TaxRate).Round(0)
	return domain.Bill{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		Tax:         tax,
		Total:       subtotal.Add(DeliveryFee).Add(tax),
	}
}

// OrderIDs hands out "ORD<unix millis>" ids that never repeat within the process,
// even when two checkouts land in the same millisecond.
type OrderIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewOrderIDs(now func() time.Time) *OrderIDs {
	if now == nil {
		now = time.Now
	}
	return &OrderIDs{now: now}
}

func (g *OrderIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return "ORD" + strconv.FormatInt(ms, 10)
}

// NewDeliveryOTP returns a 4-digit code in [1000, 9999].
func NewDeliveryOTP() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}
