package tests

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"budget-bites/state-svc/internal/domain"
)

func nullLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}

func line(id string, price int64, qty int) domain.CartLine {
	return domain.CartLine{
		MenuItem: domain.MenuItem{
			ID:       id,
			Name:     "Item " + id,
			Price:    decimal.NewFromInt(price),
			IsVeg:    true,
			Category: "Main Course",
		},
		Quantity:       qty,
		RestaurantID:   "r1",
		RestaurantName: "Sharma Kitchen",
	}
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

func countDefaultAddresses(addrs []domain.Address) int {
	n := 0
	for _, a := range addrs {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func countDefaultPayments(pms []domain.PaymentMethod) int {
	n := 0
	for _, p := range pms {
		if p.IsDefault {
			n++
		}
	}
	return n
}

func newMiniredisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}
