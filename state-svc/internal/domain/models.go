package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type UserProfile struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone,omitempty"`
	Avatar      string          `json:"avatar,omitempty"`
	DailyBudget decimal.Decimal `json:"daily_budget"`
}

// UserUpdate carries the fields of a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Email       *string          `json:"email,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Avatar      *string          `json:"avatar,omitempty"`
	DailyBudget *decimal.Decimal `json:"daily_budget,omitempty"`
}

func (u UserProfile) Merge(update UserUpdate) UserProfile {
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	if update.DailyBudget != nil {
		u.DailyBudget = *update.DailyBudget
	}
	return u
}

type MenuItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	IsVeg    bool            `json:"is_veg"`
	Category string          `json:"category"`
}

type CartLine struct {
	MenuItem       MenuItem `json:"menu_item"`
	Quantity       int      `json:"quantity"`
	RestaurantID   string   `json:"restaurant_id"`
	RestaurantName string   `json:"restaurant_name"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.MenuItem.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID              string          `json:"id"`
	Items           []CartLine      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	DeliveryOTP     string          `json:"delivery_otp"`
	EstimatedTime   string          `json:"estimated_time"`
	DeliveryAddress string          `json:"delivery_address"`
	PaymentMethodID string          `json:"payment_method_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (o Order) Clone() Order {
	o.Items = append([]CartLine(nil), o.Items...)
	return o
}

type SubscriptionPlan string

const (
	PlanBreakfast SubscriptionPlan = "breakfast"
	PlanLunch     SubscriptionPlan = "lunch"
	PlanDinner    SubscriptionPlan = "dinner"
	PlanAll       SubscriptionPlan = "all"
)

type Subscription struct {
	ID             string           `json:"id"`
	Plan           SubscriptionPlan `json:"plan"`
	Budget         decimal.Decimal  `json:"budget"`
	StartDate      time.Time        `json:"start_date"`
	EndDate        time.Time        `json:"end_date"`
	IsActive       bool             `json:"is_active"`
	MealsDelivered int              `json:"meals_delivered"`
	TotalMeals     int              `json:"total_meals"`
}

var ErrInvalidSubscription = errors.New("invalid subscription")

// Validate checks the plan and that 0 <= MealsDelivered <= TotalMeals.
func (s Subscription) Validate() error {
	switch s.Plan {
	case PlanBreakfast, PlanLunch, PlanDinner, PlanAll:
	default:
		return fmt.Errorf("plan must be breakfast, lunch, dinner or all: %w", ErrInvalidSubscription)
	}
	if s.TotalMeals < 0 || s.MealsDelivered < 0 {
		return fmt.Errorf("meal counts must not be negative: %w", ErrInvalidSubscription)
	}
	if s.MealsDelivered > s.TotalMeals {
		return fmt.Errorf("meals delivered %d exceeds total meals %d: %w", s.MealsDelivered, s.TotalMeals, ErrInvalidSubscription)
	}
	return nil
}

// Progress is the delivered share of the plan, clamped to [0, 1].
func (s Subscription) Progress() float64 {
	if s.TotalMeals <= 0 || s.MealsDelivered <= 0 {
		return 0
	}
	if s.MealsDelivered >= s.TotalMeals {
		return 1
	}
	return float64(s.MealsDelivered) / float64(s.TotalMeals)
}

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
)

type SupportTicket struct {
	ID        string       `json:"id"`
	Category  string       `json:"category"`
	Message   string       `json:"message"`
	OrderID   string       `json:"order_id,omitempty"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// Snapshot is a point-in-time copy of a session's state. It shares no memory with the store.
type Snapshot struct {
	Version              uint64               `json:"version"`
	User                 *UserProfile         `json:"user"`
	IsOnboarded          bool                 `json:"is_onboarded"`
	IsLoggedIn           bool                 `json:"is_logged_in"`
	Budget               Budget               `json:"budget"`
	Cart                 []CartLine           `json:"cart"`
	CartTotal            decimal.Decimal      `json:"cart_total"`
	Orders               []Order              `json:"orders"`
	Subscription         *Subscription        `json:"subscription"`
	Addresses            []Address            `json:"addresses"`
	PaymentMethods       []PaymentMethod      `json:"payment_methods"`
	NotificationSettings NotificationSettings `json:"notification_settings"`
	AppSettings          AppSettings          `json:"app_settings"`
	SupportTickets       []SupportTicket      `json:"support_tickets"`
}
