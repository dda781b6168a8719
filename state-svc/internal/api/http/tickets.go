package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"budget-bites/state-svc/internal/service"
)

func (h *Handler) getTickets(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.SupportTickets())
}

func (h *Handler) openTicket(w http.ResponseWriter, r *http.Request) {
	var form service.TicketForm
	if err := decode(r, &form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ticket, err := h.Sessions.OpenTicket(r.Context(), mux.Vars(r)["sid"], form)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}
