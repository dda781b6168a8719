package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"budget-bites/state-svc/internal/domain"
	"budget-bites/state-svc/internal/service"
	"budget-bites/state-svc/internal/store"
)

// setUser replaces the profile; a JSON null body logs the user out.
func (h *Handler) setUser(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	var user *domain.UserProfile
	if err := decode(r, &user); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if user != nil && user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := st.SetUser(user); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.User())
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var form service.ProfileForm
	if err := decode(r, &form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := h.Sessions.UpdateProfile(mux.Vars(r)["sid"], form)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) updateFlags(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	var payload struct {
		IsOnboarded *bool `json:"is_onboarded"`
		IsLoggedIn  *bool `json:"is_logged_in"`
	}
	if err := decode(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.IsOnboarded != nil {
		st.SetIsOnboarded(*payload.IsOnboarded)
	}
	if payload.IsLoggedIn != nil {
		st.SetIsLoggedIn(*payload.IsLoggedIn)
	}
	snap := st.Snapshot()
	writeJSON(w, http.StatusOK, map[string]bool{
		"is_onboarded": snap.IsOnboarded,
		"is_logged_in": snap.IsLoggedIn,
	})
}

type budgetView struct {
	domain.Budget
	DailyRemaining   decimal.Decimal `json:"daily_remaining"`
	MonthlyRemaining decimal.Decimal `json:"monthly_remaining"`
	DailyProgress    float64         `json:"daily_progress"`
	MonthlyProgress  float64         `json:"monthly_progress"`
	DailyExceeded    bool            `json:"daily_exceeded"`
	MonthlyExceeded  bool            `json:"monthly_exceeded"`
}

func newBudgetView(b domain.Budget) budgetView {
	return budgetView{
		Budget:           b,
		DailyRemaining:   b.DailyRemaining(),
		MonthlyRemaining: b.MonthlyRemaining(),
		DailyProgress:    b.DailyProgress(),
		MonthlyProgress:  b.MonthlyProgress(),
		DailyExceeded:    b.DailyExceeded(),
		MonthlyExceeded:  b.MonthlyExceeded(),
	}
}

func (h *Handler) getBudget(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newBudgetView(st.Budget()))
}

type amountPayload struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (h *Handler) setDailyBudget(w http.ResponseWriter, r *http.Request) {
	h.setBudget(w, r, (*store.Store).SetDailyBudget)
}

func (h *Handler) setMonthlyBudget(w http.ResponseWriter, r *http.Request) {
	h.setBudget(w, r, (*store.Store).SetMonthlyBudget)
}

func (h *Handler) setBudget(w http.ResponseWriter, r *http.Request, set func(*store.Store, decimal.Decimal) error) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	var payload amountPayload
	if err := decode(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Amount == nil {
		http.Error(w, "amount is required", http.StatusBadRequest)
		return
	}
	if err := set(st, *payload.Amount); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newBudgetView(st.Budget()))
}

type subscriptionView struct {
	*domain.Subscription
	Progress float64 `json:"progress"`
}

func (h *Handler) setSubscription(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	var sub domain.Subscription
	if err := decode(r, &sub); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := sub.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	st.SetSubscription(&sub)
	current := st.Subscription()
	writeJSON(w, http.StatusOK, subscriptionView{Subscription: current, Progress: current.Progress()})
}

func (h *Handler) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	st.SetSubscription(nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	var update domain.NotificationSettingsUpdate
	if err := decode(r, &update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, st.UpdateNotificationSettings(update))
}

func (h *Handler) updateAppSettings(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	var update domain.AppSettingsUpdate
	if err := decode(r, &update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, st.UpdateAppSettings(update))
}
