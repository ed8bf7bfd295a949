package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimCollector bundles Prometheus metrics for a running simulation and
// provides a ready-to-serve /metrics handler. It implements the core's
// MetricsRecorder interface so the world can drive it directly.
type SimCollector struct {
	gatherer prometheus.Gatherer

	MessagesSent      prometheus.Counter
	MessagesDropped   prometheus.Counter
	MessagesDelivered prometheus.Counter

	ConflictEvents  *prometheus.CounterVec
	VehiclesArrived prometheus.Counter

	Vehicles        prometheus.Gauge
	PendingMessages prometheus.Gauge

	TickDuration prometheus.Histogram
}

// NewSimCollector registers simulation Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry
// when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	sent, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_messages_sent_total",
		Help: "Total intent message copies queued for delivery.",
	}), "sim_messages_sent_total")
	if err != nil {
		return nil, err
	}
	dropped, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_messages_dropped_total",
		Help: "Total intent message copies lost to simulated packet drop.",
	}), "sim_messages_dropped_total")
	if err != nil {
		return nil, err
	}
	delivered, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_messages_delivered_total",
		Help: "Total intent messages handed to recipients.",
	}), "sim_messages_delivered_total")
	if err != nil {
		return nil, err
	}

	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_conflict_events_total",
		Help: "Conflict resolution outcomes, labeled by resulting intent.",
	}, []string{"outcome"})
	conflicts, err = registerCounterVec(reg, conflicts, "sim_conflict_events_total")
	if err != nil {
		return nil, err
	}

	arrived, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_vehicles_arrived_total",
		Help: "Vehicles that reached their destination and stopped.",
	}), "sim_vehicles_arrived_total")
	if err != nil {
		return nil, err
	}

	vehicles, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_vehicles",
		Help: "Current number of vehicles in the world.",
	}), "sim_vehicles")
	if err != nil {
		return nil, err
	}
	pending, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_messages_pending",
		Help: "Intent messages currently in flight in the network simulator.",
	}), "sim_messages_pending")
	if err != nil {
		return nil, err
	}

	tickDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Wall-clock duration of one simulation tick.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
	tickDuration, err = registerHistogram(reg, tickDuration, "sim_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:          gatherer,
		MessagesSent:      sent,
		MessagesDropped:   dropped,
		MessagesDelivered: delivered,
		ConflictEvents:    conflicts,
		VehiclesArrived:   arrived,
		Vehicles:          vehicles,
		PendingMessages:   pending,
		TickDuration:      tickDuration,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveTickDuration records the wall-clock cost of one tick.
func (c *SimCollector) ObserveTickDuration(seconds float64) {
	if c == nil || c.TickDuration == nil {
		return
	}
	c.TickDuration.Observe(seconds)
}

// ---- core.MetricsRecorder ----

func (c *SimCollector) RecordMessagesSent(n int) {
	if c != nil && c.MessagesSent != nil {
		c.MessagesSent.Add(float64(n))
	}
}

func (c *SimCollector) RecordMessagesDropped(n int) {
	if c != nil && c.MessagesDropped != nil {
		c.MessagesDropped.Add(float64(n))
	}
}

func (c *SimCollector) RecordMessagesDelivered(n int) {
	if c != nil && c.MessagesDelivered != nil {
		c.MessagesDelivered.Add(float64(n))
	}
}

func (c *SimCollector) RecordYield() {
	if c != nil && c.ConflictEvents != nil {
		c.ConflictEvents.WithLabelValues("yield").Inc()
	}
}

func (c *SimCollector) RecordMerge() {
	if c != nil && c.ConflictEvents != nil {
		c.ConflictEvents.WithLabelValues("merge").Inc()
	}
}

func (c *SimCollector) RecordProximityStop() {
	if c != nil && c.ConflictEvents != nil {
		c.ConflictEvents.WithLabelValues("stop").Inc()
	}
}

func (c *SimCollector) RecordVehicleArrived() {
	if c != nil && c.VehiclesArrived != nil {
		c.VehiclesArrived.Inc()
	}
}

func (c *SimCollector) SetWorldCounts(vehicles, pendingMessages int) {
	if c == nil {
		return
	}
	if c.Vehicles != nil {
		c.Vehicles.Set(float64(vehicles))
	}
	if c.PendingMessages != nil {
		c.PendingMessages.Set(float64(pendingMessages))
	}
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerHistogram(reg prometheus.Registerer, histogram prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(histogram); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return histogram, nil
}
