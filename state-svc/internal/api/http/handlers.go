package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"budget-bites/state-svc/internal/service"
	"budget-bites/state-svc/internal/store"
)

type Handler struct {
	Sessions service.SessionServiceInterface
	Log      logrus.FieldLogger
}

func NewHandler(sessions service.SessionServiceInterface, log logrus.FieldLogger) *Handler {
	return &Handler{
		Sessions: sessions,
		Log:      log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/sessions", h.createSession).Methods("POST")
	s := r.PathPrefix("/api/sessions/{sid}").Subrouter()
	s.HandleFunc("", h.getSession).Methods("GET")
	s.HandleFunc("", h.deleteSession).Methods("DELETE")
	s.HandleFunc("/events", h.streamEvents).Methods("GET")

	s.HandleFunc("/user", h.setUser).Methods("PUT")
	s.HandleFunc("/user", h.updateProfile).Methods("PATCH")
	s.HandleFunc("/flags", h.updateFlags).Methods("PATCH")

	s.HandleFunc("/budget", h.getBudget).Methods("GET")
	s.HandleFunc("/budget/daily", h.setDailyBudget).Methods("PUT")
	s.HandleFunc("/budget/monthly", h.setMonthlyBudget).Methods("PUT")

	s.HandleFunc("/cart", h.getCart).Methods("GET")
	s.HandleFunc("/cart", h.clearCart).Methods("DELETE")
	s.HandleFunc("/cart/items", h.addToCart).Methods("POST")
	s.HandleFunc("/cart/items/{itemId}", h.updateQuantity).Methods("PUT")
	s.HandleFunc("/cart/items/{itemId}", h.removeFromCart).Methods("DELETE")

	s.HandleFunc("/checkout", h.checkout).Methods("POST")
	s.HandleFunc("/orders", h.getOrders).Methods("GET")
	s.HandleFunc("/orders/{oid}", h.getOrder).Methods("GET")
	s.HandleFunc("/orders/{oid}/qrcode", h.getOrderQRCode).Methods("GET")

	s.HandleFunc("/subscription", h.setSubscription).Methods("PUT")
	s.HandleFunc("/subscription", h.cancelSubscription).Methods("DELETE")

	s.HandleFunc("/addresses", h.getAddresses).Methods("GET")
	s.HandleFunc("/addresses", h.addAddress).Methods("POST")
	s.HandleFunc("/addresses/{id}", h.updateAddress).Methods("PATCH")
	s.HandleFunc("/addresses/{id}", h.deleteAddress).Methods("DELETE")
	s.HandleFunc("/addresses/{id}/default", h.setDefaultAddress).Methods("PUT")

	s.HandleFunc("/payment-methods", h.getPaymentMethods).Methods("GET")
	s.HandleFunc("/payment-methods", h.addPaymentMethod).Methods("POST")
	s.HandleFunc("/payment-methods/{id}", h.updatePaymentMethod).Methods("PATCH")
	s.HandleFunc("/payment-methods/{id}", h.deletePaymentMethod).Methods("DELETE")
	s.HandleFunc("/payment-methods/{id}/default", h.setDefaultPaymentMethod).Methods("PUT")

	s.HandleFunc("/settings/notifications", h.updateNotificationSettings).Methods("PATCH")
	s.HandleFunc("/settings/app", h.updateAppSettings).Methods("PATCH")

	s.HandleFunc("/tickets", h.getTickets).Methods("GET")
	s.HandleFunc("/tickets", h.openTicket).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "state-svc",
		"sessions":  h.Sessions.Count(),
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.Snapshot())
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Delete(mux.Vars(r)["sid"]) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session resolves {sid} and writes 404 when it is unknown.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*store.Store, bool) {
	st, err := h.Sessions.Session(mux.Vars(r)["sid"])
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return st, true
}

func decode(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verrs,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrPaymentMethodNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrBelowMinimumBudget):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrDuplicateCheckout), errors.Is(err, service.ErrNotLoggedIn):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.Log.WithError(err).Error("request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
