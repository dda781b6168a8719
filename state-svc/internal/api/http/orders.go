package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"budget-bites/state-svc/internal/domain"
)

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}

	result, err := h.Sessions.Checkout(r.Context(), mux.Vars(r)["sid"], req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.Orders())
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	order, found := st.Order(mux.Vars(r)["oid"])
	if !found {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	qr, err := h.Sessions.DeliveryQR(vars["sid"], vars["oid"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}
