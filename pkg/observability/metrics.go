package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the bridge.
type Metrics struct {
	registry *prometheus.Registry

	SlotWrites    *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Renders       prometheus.Counter
	RenderMisses  prometheus.Counter
	RenderNodes   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		SlotWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsonms_slot_writes_total",
				Help: "Total number of writes into store slots",
			},
			[]string{"slot"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsonms_notifications_total",
				Help: "Outbound notifications by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jsonms_template_renders_total",
			Help: "Total number of template recomputations",
		}),
		RenderMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jsonms_template_missing_placeholders_total",
			Help: "Placeholders that had no fragment provider",
		}),
		RenderNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jsonms_template_nodes",
			Help:    "Nodes produced per template recomputation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
	reg.MustRegister(m.SlotWrites, m.Notifications, m.Renders, m.RenderMisses, m.RenderNodes)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns hooks that record every event.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnSlotWrite: func(ctx context.Context, e *domain.SlotEvent) {
			m.SlotWrites.WithLabelValues(string(e.Slot)).Inc()
		},
		OnNotify: func(ctx context.Context, e *domain.NotifyEvent) {
			outcome := "sent"
			if e.Err != nil {
				outcome = "failed"
			}
			m.Notifications.WithLabelValues(string(e.Type), outcome).Inc()
		},
		OnRender: func(ctx context.Context, e *domain.RenderEvent) {
			m.Renders.Inc()
			m.RenderMisses.Add(float64(e.Missing))
			m.RenderNodes.Observe(float64(e.Nodes))
		},
	}
}
