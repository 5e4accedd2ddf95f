// Package observability holds the client-side counters for API traffic and
// optimistic persistence.
package observability

import (
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Persistence outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeError      = "error"
	OutcomeSuperseded = "superseded"
)

// Metrics owns a private registry so several clients can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	persisted    *prometheus.CounterVec
	apiRequests  *prometheus.CounterVec
	refreshes    *prometheus.CounterVec
	inFlight     prometheus.Gauge
	gestureSteps *prometheus.CounterVec
}

// New registers the hawkeye counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		persisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hawkeye",
			Subsystem: "persistence",
			Name:      "updates_total",
			Help:      "Activity writes issued by the calendar, by operation and outcome.",
		}, []string{"op", "outcome"}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hawkeye",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "REST calls by method and status code.",
		}, []string{"method", "code"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hawkeye",
			Subsystem: "session",
			Name:      "refreshes_total",
			Help:      "Access token refresh attempts by outcome.",
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hawkeye",
			Subsystem: "persistence",
			Name:      "in_flight",
			Help:      "Fire-and-forget writes not yet answered.",
		}),
		gestureSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hawkeye",
			Subsystem: "calendar",
			Name:      "gesture_steps_total",
			Help:      "Applied drag and resize steps.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.persisted, m.apiRequests, m.refreshes, m.inFlight, m.gestureSteps)
	return m
}

// Registry exposes the registry for exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordPersist counts one finished write.
func (m *Metrics) RecordPersist(op, outcome string) {
	if m == nil {
		return
	}
	m.persisted.WithLabelValues(op, outcome).Inc()
}

// RecordRequest counts one REST call. code is 0 on transport errors.
func (m *Metrics) RecordRequest(method string, code int) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// RecordRefresh counts a token refresh attempt.
func (m *Metrics) RecordRefresh(ok bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeError
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

// RecordStep counts an applied gesture step.
func (m *Metrics) RecordStep(kind string) {
	if m == nil {
		return
	}
	m.gestureSteps.WithLabelValues(kind).Inc()
}

// TrackInFlight adjusts the in-flight gauge.
func (m *Metrics) TrackInFlight(delta int) {
	if m == nil {
		return
	}
	m.inFlight.Add(float64(delta))
}

// Snapshot gathers the current values keyed by metric name and sorted labels,
// for example `hawkeye_persistence_updates_total{op="move",outcome="ok"}`.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	out := make(map[string]float64)
	if m == nil {
		return out, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			out[seriesName(mf.GetName(), metric.GetLabel())] = value(mf.GetType(), metric)
		}
	}
	return out, nil
}

// Value returns a single series from the snapshot, 0 when absent.
func (m *Metrics) Value(name string, labels ...string) float64 {
	snap, err := m.Snapshot()
	if err != nil {
		return 0
	}
	pairs := make([]*dto.LabelPair, 0, len(labels)/2)
	for i := 0; i+1 < len(labels); i += 2 {
		n, v := labels[i], labels[i+1]
		pairs = append(pairs, &dto.LabelPair{Name: &n, Value: &v})
	}
	return snap[seriesName(name, pairs)]
}

func seriesName(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	parts := make([]string, 0, len(labels))
	for _, lp := range labels {
		parts = append(parts, lp.GetName()+"="+strconv.Quote(lp.GetValue()))
	}
	sort.Strings(parts)
	return name + "{" + strings.Join(parts, ",") + "}"
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue()
	default:
		return 0
	}
}
