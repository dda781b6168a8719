package domain

import (
	"strconv"
	"strings"
	"unicode"
)

type RestaurantFilter string

const (
	FilterAll          RestaurantFilter = "all"
	FilterHomeMade     RestaurantFilter = "home-made"
	FilterBudget       RestaurantFilter = "budget"
	FilterTopRated     RestaurantFilter = "top-rated"
	FilterFastDelivery RestaurantFilter = "fast-delivery"
)

const (
	TopRatedMinimum     = 4.5
	FastDeliveryMinutes = 25
	BudgetPriceRangeMax = 1
)

func (f RestaurantFilter) Valid() bool {
	switch f {
	case "", FilterAll, FilterHomeMade, FilterBudget, FilterTopRated, FilterFastDelivery:
		return true
	}
	return false
}

// Match reports whether r passes the filter. The empty filter matches everything.
func (f RestaurantFilter) Match(r Restaurant) bool {
	switch f {
	case FilterHomeMade:
		return r.IsHomeMade
	case FilterBudget:
		return r.PriceRange <= BudgetPriceRangeMax
	case FilterTopRated:
		return r.Rating >= TopRatedMinimum
	case FilterFastDelivery:
		minutes, ok := r.DeliveryMinutes()
		return ok && minutes <= FastDeliveryMinutes
	default:
		return true
	}
}

// DeliveryMinutes parses the leading number of a "20-25 min" style delivery time.
func (r Restaurant) DeliveryMinutes() (int, bool) {
	s := strings.TrimSpace(r.DeliveryTime)
	end := strings.IndexFunc(s, func(c rune) bool { return !unicode.IsDigit(c) })
	if end == -1 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r Restaurant) NameMatches(q string) bool {
	return containsFold(r.Name, q)
}

// Matches reports whether q occurs in the restaurant name, one of its cuisines or a menu item name.
func (r Restaurant) Matches(q string) bool {
	if r.NameMatches(q) {
		return true
	}
	for _, c := range r.Cuisines {
		if containsFold(c, q) {
			return true
		}
	}
	for _, item := range r.Menu {
		if containsFold(item.Name, q) {
			return true
		}
	}
	return false
}

func (m MenuItem) NameMatches(q string) bool {
	return containsFold(m.Name, q)
}
