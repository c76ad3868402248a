package metrics

import (
	coremetrics "github.com/kilianp07/kitflow/core/metrics"
)

// NewSink builds the metrics sink described by the configuration. Disabled
// backends are skipped; with none enabled the result is a NopSink.
func NewSink(cfg coremetrics.Config) (coremetrics.PlanSink, error) {
	var sinks []coremetrics.PlanSink
	if cfg.PrometheusEnabled {
		prom, err := NewPromSink(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, prom)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
