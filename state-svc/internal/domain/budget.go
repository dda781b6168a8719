package domain

import "github.com/shopspring/decimal"

var (
	MinDailyBudget       = decimal.NewFromInt(50)
	MinMonthlyBudget     = decimal.NewFromInt(1000)
	DefaultDailyBudget   = decimal.NewFromInt(200)
	DefaultMonthlyBudget = decimal.NewFromInt(6000)
)

var hundred = decimal.NewFromInt(100)

// Budget holds spending limits and accumulators. Remaining amounts may go negative;
// being over budget is a flagged state, not an error.
type Budget struct {
	DailyBudget    decimal.Decimal `json:"daily_budget"`
	MonthlyBudget  decimal.Decimal `json:"monthly_budget"`
	SpentToday     decimal.Decimal `json:"spent_today"`
	SpentThisMonth decimal.Decimal `json:"spent_this_month"`
}

func DefaultBudget() Budget {
	return Budget{
		DailyBudget:    DefaultDailyBudget,
		MonthlyBudget:  DefaultMonthlyBudget,
		SpentToday:     decimal.Zero,
		SpentThisMonth: decimal.Zero,
	}
}

func (b Budget) DailyRemaining() decimal.Decimal {
	return b.DailyBudget.Sub(b.SpentToday)
}

func (b Budget) MonthlyRemaining() decimal.Decimal {
	return b.MonthlyBudget.Sub(b.SpentThisMonth)
}

func (b Budget) DailyExceeded() bool {
	return b.SpentToday.GreaterThan(b.DailyBudget)
}

func (b Budget) MonthlyExceeded() bool {
	return b.SpentThisMonth.GreaterThan(b.MonthlyBudget)
}

func (b Budget) DailyProgress() float64 {
	return progress(b.SpentToday, b.DailyBudget)
}

func (b Budget) MonthlyProgress() float64 {
	return progress(b.SpentThisMonth, b.MonthlyBudget)
}

func progress(spent, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 100
	}
	pct := spent.Div(limit).Mul(hundred)
	if pct.GreaterThan(hundred) {
		return 100
	}
	f, _ := pct.Float64()
	return f
}
