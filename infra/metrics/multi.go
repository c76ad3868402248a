package metrics

import coremetrics "github.com/kilianp07/kitflow/core/metrics"

// MultiSink fanouts plan cycle records to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.PlanSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.PlanSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlanCycle forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordPlanCycle(c coremetrics.PlanCycle) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlanCycle(c); err != nil {
			return err
		}
	}
	return nil
}
