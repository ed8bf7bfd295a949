package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestSimCollectorRecordsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	collector.RecordMessagesSent(5)
	collector.RecordMessagesDropped(2)
	collector.RecordMessagesDelivered(3)
	collector.RecordYield()
	collector.RecordYield()
	collector.RecordMerge()
	collector.RecordProximityStop()
	collector.RecordVehicleArrived()
	collector.SetWorldCounts(4, 7)

	if got := testutil.ToFloat64(collector.MessagesSent); got != 5 {
		t.Errorf("sim_messages_sent_total = %v, want 5", got)
	}
	if got := testutil.ToFloat64(collector.MessagesDropped); got != 2 {
		t.Errorf("sim_messages_dropped_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.MessagesDelivered); got != 3 {
		t.Errorf("sim_messages_delivered_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(collector.ConflictEvents.WithLabelValues("yield")); got != 2 {
		t.Errorf("yield events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.ConflictEvents.WithLabelValues("merge")); got != 1 {
		t.Errorf("merge events = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.ConflictEvents.WithLabelValues("stop")); got != 1 {
		t.Errorf("stop events = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Vehicles); got != 4 {
		t.Errorf("sim_vehicles = %v, want 4", got)
	}
	if got := testutil.ToFloat64(collector.PendingMessages); got != 7 {
		t.Errorf("sim_messages_pending = %v, want 7", got)
	}
}

func TestSimCollectorTickHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	collector.ObserveTickDuration(0.001)
	collector.ObserveTickDuration(0.002)

	if count := histogramSampleCount(t, reg, "sim_tick_duration_seconds"); count != 2 {
		t.Errorf("sim_tick_duration_seconds sample_count = %d, want 2", count)
	}
}

func TestSimCollectorReregistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("first NewSimCollector: %v", err)
	}
	second, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("second NewSimCollector against same registry: %v", err)
	}

	first.RecordVehicleArrived()
	second.RecordVehicleArrived()
	if got := testutil.ToFloat64(second.VehiclesArrived); got != 2 {
		t.Errorf("re-registered counter = %v, want shared value 2", got)
	}
}

func TestMetricsHandlerExposesSimSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}
	collector.RecordMessagesSent(1)
	collector.RecordYield()
	collector.SetWorldCounts(2, 0)
	collector.ObserveTickDuration(0.001)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"sim_messages_sent_total",
		"sim_conflict_events_total",
		"sim_vehicles",
		"sim_tick_duration_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("expected %q in /metrics output", metric)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	families, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findFamily(families, name)
	if mf == nil {
		return 0
	}
	for _, m := range mf.Metric {
		if h := m.GetHistogram(); h != nil {
			return h.GetSampleCount()
		}
	}
	return 0
}

func findFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}
