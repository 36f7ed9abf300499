package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/shazow/wifichan/wifi"
	"github.com/shazow/wifichan/wifi/rating"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	return collector, reg
}

func TestObserveScan(t *testing.T) {
	collector, reg := newTestCollector(t)

	collector.ObserveScan(ResultOK, 200*time.Millisecond)
	collector.ObserveScan(ResultOK, 300*time.Millisecond)
	collector.ObserveScan(ResultError, time.Second)

	if got := testutil.ToFloat64(collector.Scans.WithLabelValues(ResultOK)); got != 2 {
		t.Fatalf("wifichan_scans_total{result=ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.Scans.WithLabelValues(ResultError)); got != 1 {
		t.Fatalf("wifichan_scans_total{result=error} = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "wifichan_scan_duration_seconds"); count != 3 {
		t.Fatalf("wifichan_scan_duration_seconds sample_count = %d, want 3", count)
	}
}

func TestSetRatings(t *testing.T) {
	collector, reg := newTestCollector(t)

	aps := []wifi.AccessPoint{
		{SSID: "loud", BSSID: "00:00:00:00:00:01", Frequency: 2437, Level: -40},
		{SSID: "faint", BSSID: "00:00:00:00:00:02", Frequency: 2462, Level: -95},
	}
	r := rating.New(aps)
	channels := wifi.Band2GHz.Preferred("")
	collector.SetRatings(wifi.Band2GHz, r.Ratings(channels), r.BestChannels(channels))
	collector.SetAccessPoints(len(r.AccessPoints()))

	if got := testutil.ToFloat64(collector.ChannelAccessPoints.WithLabelValues("2.4GHz", "6")); got != 1 {
		t.Fatalf("channel 6 access points = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.ChannelStrength.WithLabelValues("2.4GHz", "6")); got != float64(wifi.StrengthFour) {
		t.Fatalf("channel 6 strength = %v, want 4", got)
	}
	if got := testutil.ToFloat64(collector.BestChannel.WithLabelValues("2.4GHz")); got != 1 {
		t.Fatalf("best channel = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.AccessPoints); got != 2 {
		t.Fatalf("access points = %v, want 2", got)
	}
	if got := gaugeValue(t, reg, "wifichan_channel_access_points", map[string]string{"band": "2.4GHz", "channel": "11"}); got != 1 {
		t.Fatalf("channel 11 access points = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(collector.ChannelAccessPoints); got != 3 {
		t.Fatalf("channel series = %d, want 3", got)
	}

	// A narrower channel list drops the stale series.
	collector.SetRatings(wifi.Band2GHz, r.Ratings(channels[:1]), nil)
	if got := testutil.CollectAndCount(collector.ChannelAccessPoints); got != 1 {
		t.Fatalf("channel series after update = %d, want 1", got)
	}
	if got := testutil.CollectAndCount(collector.BestChannel); got != 0 {
		t.Fatalf("best channel series = %d, want 0", got)
	}
}

func TestNilCollector(t *testing.T) {
	var collector *Collector
	collector.ObserveScan(ResultOK, time.Second)
	collector.SetAccessPoints(3)
	collector.SetRatings(wifi.Band5GHz, nil, nil)
}

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector again: %v", err)
	}
	first.ObserveScan(ResultOK, time.Millisecond)
	if got := testutil.ToFloat64(second.Scans.WithLabelValues(ResultOK)); got != 1 {
		t.Fatalf("expected collectors to share series, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	collector, _ := newTestCollector(t)
	collector.ObserveScan(ResultDisabled, time.Millisecond)
	collector.SetAccessPoints(7)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`wifichan_scans_total{result="disabled"} 1`,
		"wifichan_access_points 7",
		"wifichan_scan_duration_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in /metrics output: %s", want, body)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if h := m.GetHistogram(); h != nil {
				return h.GetSampleCount()
			}
		}
	}
	return 0
}

func gaugeValue(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) float64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetGauge() != nil {
				return m.GetGauge().GetValue()
			}
		}
	}
	t.Fatalf("no %s series with labels %v", name, labels)
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
