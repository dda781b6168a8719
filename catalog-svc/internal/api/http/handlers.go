package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"budget-bites/catalog-svc/internal/domain"
	"budget-bites/catalog-svc/internal/service"
)

type Handler struct {
	Catalog service.CatalogServiceInterface
	Log     logrus.FieldLogger
}

func NewHandler(catalog service.CatalogServiceInterface, log logrus.FieldLogger) *Handler {
	return &Handler{
		Catalog: catalog,
		Log:     log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/search", h.search).Methods("GET")

	r.HandleFunc("/api/grocery-shops", h.getGroceryShops).Methods("GET")
	r.HandleFunc("/api/grocery-shops/{id}", h.getGroceryShop).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "catalog-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	restaurants, err := h.Catalog.ListRestaurants(r.Context(), service.RestaurantQuery{
		Query:  query.Get("q"),
		Filter: domain.RestaurantFilter(query.Get("filter")),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Catalog.GetRestaurant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	vegOnly := false
	if v := query.Get("veg"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "veg must be true or false", http.StatusBadRequest)
			return
		}
		vegOnly = parsed
	}

	items, err := h.Catalog.Menu(r.Context(), mux.Vars(r)["id"], service.MenuQuery{
		VegOnly:  vegOnly,
		Category: query.Get("category"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	result, err := h.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getGroceryShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.Catalog.ListGroceryShops(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shops)
}

func (h *Handler) getGroceryShop(w http.ResponseWriter, r *http.Request) {
	shop, err := h.Catalog.GetGroceryShop(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		http.Error(w, "Restaurant not found", http.StatusNotFound)
	case errors.Is(err, service.ErrGroceryShopNotFound):
		http.Error(w, "Grocery shop not found", http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidFilter):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.Log.WithError(err).Error("request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
