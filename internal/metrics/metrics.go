// Package metrics exports scan and channel rating results to Prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shazow/wifichan/wifi"
	"github.com/shazow/wifichan/wifi/rating"
)

// Scan results used as the result label of wifichan_scans_total.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultDisabled = "disabled"
)

// Collector bundles the wifichan Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Scans               *prometheus.CounterVec
	ScanDuration        prometheus.Histogram
	AccessPoints        prometheus.Gauge
	ChannelAccessPoints *prometheus.GaugeVec
	ChannelStrength     *prometheus.GaugeVec
	BestChannel         *prometheus.GaugeVec
}

// NewCollector registers the metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	scans, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wifichan_scans_total",
		Help: "Total number of scans, labeled by result.",
	}, []string{"result"}), "wifichan_scans_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wifichan_scan_duration_seconds",
		Help:    "Time taken by the backend to return scan results.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}), "wifichan_scan_duration_seconds")
	if err != nil {
		return nil, err
	}

	aps, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wifichan_access_points",
		Help: "Number of access points in the last scan, after guest networks are folded.",
	}), "wifichan_access_points")
	if err != nil {
		return nil, err
	}

	channelAPs, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wifichan_channel_access_points",
		Help: "Number of access points overlapping a channel.",
	}, []string{"band", "channel"}), "wifichan_channel_access_points")
	if err != nil {
		return nil, err
	}

	channelStrength, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wifichan_channel_strength",
		Help: "Strongest signal overlapping a channel, from 0 (none) to 4 (excellent).",
	}, []string{"band", "channel"}), "wifichan_channel_strength")
	if err != nil {
		return nil, err
	}

	best, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wifichan_best_channel",
		Help: "Least crowded recommended channel of a band.",
	}, []string{"band"}), "wifichan_best_channel")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:            gatherer,
		Scans:               scans,
		ScanDuration:        duration,
		AccessPoints:        aps,
		ChannelAccessPoints: channelAPs,
		ChannelStrength:     channelStrength,
		BestChannel:         best,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveScan counts a scan and records how long it took.
func (c *Collector) ObserveScan(result string, d time.Duration) {
	if c == nil {
		return
	}
	c.Scans.WithLabelValues(result).Inc()
	c.ScanDuration.Observe(d.Seconds())
}

// SetAccessPoints records the number of access points seen.
func (c *Collector) SetAccessPoints(n int) {
	if c == nil {
		return
	}
	c.AccessPoints.Set(float64(n))
}

// SetRatings replaces the channel series of a band.
func (c *Collector) SetRatings(band wifi.Band, ratings []rating.ChannelRating, best []rating.ChannelCount) {
	if c == nil {
		return
	}
	labels := prometheus.Labels{"band": band.String()}
	c.ChannelAccessPoints.DeletePartialMatch(labels)
	c.ChannelStrength.DeletePartialMatch(labels)
	for _, r := range ratings {
		channel := strconv.Itoa(r.Channel.Number)
		c.ChannelAccessPoints.WithLabelValues(band.String(), channel).Set(float64(r.Count))
		c.ChannelStrength.WithLabelValues(band.String(), channel).Set(float64(r.Strength))
	}

	if len(best) == 0 {
		c.BestChannel.Delete(labels)
		return
	}
	c.BestChannel.With(labels).Set(float64(best[0].Channel.Number))
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

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
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
