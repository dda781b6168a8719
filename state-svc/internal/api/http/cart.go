package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"budget-bites/state-svc/internal/domain"
	"budget-bites/state-svc/internal/store"
)

type cartView struct {
	Lines []domain.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

func newCartView(st *store.Store) cartView {
	snap := st.Snapshot()
	count := 0
	for _, l := range snap.Cart {
		count += l.Quantity
	}
	return cartView{Lines: snap.Cart, Total: snap.CartTotal, Count: count}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newCartView(st))
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	var line domain.CartLine
	if err := decode(r, &line); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if line.MenuItem.ID == "" {
		http.Error(w, "menu_item.id is required", http.StatusBadRequest)
		return
	}
	if line.Quantity == 0 {
		line.Quantity = 1
	}
	if !st.AddToCart(line) {
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(st))
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := decode(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !st.UpdateQuantity(mux.Vars(r)["itemId"], payload.Quantity) {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(st))
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	if !st.RemoveFromCart(mux.Vars(r)["itemId"]) {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(st))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	st.ClearCart()
	writeJSON(w, http.StatusOK, newCartView(st))
}
