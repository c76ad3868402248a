package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/kitflow/core/metrics"
)

// PromSink records planning cycles in Prometheus metrics.
type PromSink struct {
	cycles    *prometheus.CounterVec
	duration  prometheus.Histogram
	cost      prometheus.Gauge
	unmet     *prometheus.GaugeVec
	purchases prometheus.Counter
}

// NewPromSink registers planning metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.PlanSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.PlanSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_cycles_total",
		Help: "Total number of planning cycles",
	}, []string{"status", "fallback"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plan_cycle_duration_seconds",
		Help:    "Time spent building and solving one planning cycle",
		Buckets: prometheus.DefBuckets,
	})
	cost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "plan_cycle_cost",
		Help: "Operating cost of the latest planning cycle",
	})
	unmet := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "plan_unmet_demand",
		Help: "Passengers left without a kit in the latest cycle",
	}, []string{"kit"})
	purchases := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plan_purchases_total",
		Help: "Total kit units ordered across cycles",
	})

	if err := reg.Register(cycles); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cycles = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(cost); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cost = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(unmet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			unmet = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(purchases); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			purchases = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromSink{cycles: cycles, duration: duration, cost: cost, unmet: unmet, purchases: purchases}, nil
}

// RecordPlanCycle updates every metric from one cycle record.
func (s *PromSink) RecordPlanCycle(c coremetrics.PlanCycle) error {
	s.cycles.WithLabelValues(c.Status, strconv.FormatBool(c.Fallback)).Inc()
	s.duration.Observe(c.Duration.Seconds())
	s.cost.Set(c.TotalCost)
	for kit, qty := range c.UnmetDemand {
		s.unmet.WithLabelValues(kit.String()).Set(float64(qty))
	}
	if c.Purchases > 0 {
		s.purchases.Add(float64(c.Purchases))
	}
	return nil
}
