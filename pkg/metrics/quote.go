package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records catalog and quotation activity.
type QuoteMetrics struct {
	unresolved *prometheus.CounterVec
	mutations  *prometheus.CounterVec
	queries    *prometheus.CounterVec
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	unresolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_unresolved_items_total",
		Help: "Merge entries skipped because they could not be resolved against the catalog.",
	}, []string{"reason"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_mutations_total",
		Help: "Applied quote mutations by operation.",
	}, []string{"op"})
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "Catalog queries by kind.",
	}, []string{"kind"})
	reg.MustRegister(unresolved, mutations, queries)
	return &QuoteMetrics{
		unresolved: unresolved,
		mutations:  mutations,
		queries:    queries,
	}
}

// IncUnresolved counts one skipped merge entry.
func (m *QuoteMetrics) IncUnresolved(reason string) {
	if m == nil || m.unresolved == nil {
		return
	}
	m.unresolved.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncMutation counts one applied quote operation.
func (m *QuoteMetrics) IncMutation(op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncQuery counts one catalog query.
func (m *QuoteMetrics) IncQuery(kind string) {
	if m == nil || m.queries == nil {
		return
	}
	m.queries.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
