// Package metrics exposes Prometheus counters for the resolution cache, the
// substitution points and edit-set commits. Every method is safe on a nil
// *Metrics, so components run unchanged without instrumentation.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "metakit"

// Metrics holds the registered collectors.
type Metrics struct {
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	cacheInvalidations *prometheus.CounterVec
	cacheEvictions     *prometheus.CounterVec
	substitutions      *prometheus.CounterVec
	commits            *prometheus.CounterVec
}

// Substitution outcomes.
const (
	OutcomeInstalled = "installed"
	OutcomeSkipped   = "skipped"
	OutcomeOffThread = "off_thread"
)

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which tests use to avoid global state.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "hits_total",
			Help: "Resolution cache hits per collection.",
		}, []string{"collection"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "misses_total",
			Help: "Resolution cache misses per collection.",
		}, []string{"collection"}),
		cacheInvalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "invalidations_total",
			Help: "Wholesale cache invalidations per collection.",
		}, []string{"collection"}),
		cacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "evictions_total",
			Help: "Entries evicted by capacity per collection.",
		}, []string{"collection"}),
		substitutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "substitute", Name: "calls_total",
			Help: "Substitution point calls by path and outcome.",
		}, []string{"path", "outcome"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "edit", Name: "commits_total",
			Help: "Edit-set commits per collection and result.",
		}, []string{"collection", "result"}),
	}
	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.cacheHits, m.cacheMisses, m.cacheInvalidations, m.cacheEvictions,
		m.substitutions, m.commits,
	}
}

func (m *Metrics) CacheHit(collection string) {
	if m != nil {
		m.cacheHits.WithLabelValues(collection).Inc()
	}
}

func (m *Metrics) CacheMiss(collection string) {
	if m != nil {
		m.cacheMisses.WithLabelValues(collection).Inc()
	}
}

func (m *Metrics) CacheInvalidated(collection string) {
	if m != nil {
		m.cacheInvalidations.WithLabelValues(collection).Inc()
	}
}

func (m *Metrics) CacheEvicted(collection string) {
	if m != nil {
		m.cacheEvictions.WithLabelValues(collection).Inc()
	}
}

// Substitution counts one substitution point call.
func (m *Metrics) Substitution(path, outcome string) {
	if m != nil {
		m.substitutions.WithLabelValues(path, outcome).Inc()
	}
}

// Commit counts one edit-set commit attempt.
func (m *Metrics) Commit(collection string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commits.WithLabelValues(collection, result).Inc()
}
