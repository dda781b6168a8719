package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"budget-bites/state-svc/internal/domain"
	"budget-bites/state-svc/internal/store"
)

// StoreMetrics counts sessions and store mutations. Hook is meant for WithSessionHook.
type StoreMetrics struct {
	sessions  prometheus.Counter
	mutations prometheus.Counter
}

func NewStoreMetrics(namespace string) *StoreMetrics {
	return &StoreMetrics{
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "sessions_created_total",
			Help:      "Total number of sessions created.",
		}),
		mutations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Total number of state changing store operations.",
		}),
	}
}

func (m *StoreMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.sessions, m.mutations}
}

func (m *StoreMetrics) Hook(_ string, st *store.Store) {
	m.sessions.Inc()
	st.Subscribe(func(domain.Snapshot) {
		m.mutations.Inc()
	})
}
