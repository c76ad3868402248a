package model

// Decision is the immediate-hour output of one planning cycle: what to load
// onto flights departing now and what to order now. It is an immutable
// value handed from the extractor to the outgoing request; no decision
// state survives across cycles.
type Decision struct {
	Hour        int
	FlightLoads map[string]KitQuantities // flight id -> per-class load
	Purchases   map[KitType]int64        // order quantity placed this hour
}

// NewDecision returns an empty decision for the given hour.
func NewDecision(hour int) Decision {
	return Decision{
		Hour:        hour,
		FlightLoads: make(map[string]KitQuantities),
		Purchases:   make(map[KitType]int64),
	}
}

// IsEmpty reports whether the decision carries no loads and no purchases.
func (d Decision) IsEmpty() bool {
	return len(d.FlightLoads) == 0 && len(d.Purchases) == 0
}
