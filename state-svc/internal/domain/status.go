package domain

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
)

var statusFlow = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
}

func (s OrderStatus) rank() int {
	for i, st := range statusFlow {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool {
	return s.rank() >= 0
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered
}

// Next returns the following status in the delivery flow, or false at the terminal status.
func (s OrderStatus) Next() (OrderStatus, bool) {
	r := s.rank()
	if r < 0 || r == len(statusFlow)-1 {
		return "", false
	}
	return statusFlow[r+1], true
}

// CanAdvanceTo reports whether next lies strictly ahead of s.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	from, to := s.rank(), next.rank()
	return from >= 0 && to > from
}
