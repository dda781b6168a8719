package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"budget-bites/state-svc/internal/domain"
	"budget-bites/state-svc/internal/service"
)

func (h *Handler) getAddresses(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.Addresses())
}

func (h *Handler) addAddress(w http.ResponseWriter, r *http.Request) {
	var form service.AddressForm
	if err := decode(r, &form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	addr, err := h.Sessions.AddAddress(mux.Vars(r)["sid"], form)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addr)
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	var update domain.AddressUpdate
	if err := decode(r, &update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	vars := mux.Vars(r)
	addr, err := h.Sessions.UpdateAddress(vars["sid"], vars["id"], update)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addr)
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	if !st.DeleteAddress(mux.Vars(r)["id"]) {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	if !st.SetDefaultAddress(mux.Vars(r)["id"]) {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, st.Addresses())
}

func (h *Handler) getPaymentMethods(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.PaymentMethods())
}

func (h *Handler) addPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var form service.PaymentForm
	if err := decode(r, &form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	pm, err := h.Sessions.AddPaymentMethod(mux.Vars(r)["sid"], form)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pm)
}

func (h *Handler) updatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	var update domain.PaymentMethodUpdate
	if err := decode(r, &update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := mux.Vars(r)["id"]
	if !st.UpdatePaymentMethod(id, update) {
		http.Error(w, "Payment method not found", http.StatusNotFound)
		return
	}
	pm, _ := st.PaymentMethod(id)
	writeJSON(w, http.StatusOK, pm)
}

func (h *Handler) deletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	if !st.DeletePaymentMethod(mux.Vars(r)["id"]) {
		http.Error(w, "Payment method not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	if !st.SetDefaultPaymentMethod(mux.Vars(r)["id"]) {
		http.Error(w, "Payment method not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, st.PaymentMethods())
}
