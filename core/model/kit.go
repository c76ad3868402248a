package model

import "fmt"

// KitType identifies one of the four passenger service kit classes.
type KitType int

const (
	KitFirst KitType = iota
	KitBusiness
	KitPremiumEconomy
	KitEconomy
)

// AllKitTypes lists every kit class in cabin order.
var AllKitTypes = []KitType{KitFirst, KitBusiness, KitPremiumEconomy, KitEconomy}

// String returns the canonical upper-case name of the kit class.
func (k KitType) String() string {
	switch k {
	case KitFirst:
		return "FIRST"
	case KitBusiness:
		return "BUSINESS"
	case KitPremiumEconomy:
		return "PREMIUM_ECONOMY"
	case KitEconomy:
		return "ECONOMY"
	default:
		return "unknown"
	}
}

// ParseKitType converts a canonical name into a KitType.
func ParseKitType(s string) (KitType, error) {
	switch s {
	case "FIRST":
		return KitFirst, nil
	case "BUSINESS":
		return KitBusiness, nil
	case "PREMIUM_ECONOMY":
		return KitPremiumEconomy, nil
	case "ECONOMY":
		return KitEconomy, nil
	default:
		return 0, fmt.Errorf("unknown kit type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k KitType) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *KitType) UnmarshalText(b []byte) error {
	kt, err := ParseKitType(string(b))
	if err != nil {
		return err
	}
	*k = kt
	return nil
}

// KitSpec carries the purchasing characteristics of one kit class. The
// values are configuration input, not constants: observed deployments use
// different tables, so the planner never hard-codes them.
type KitSpec struct {
	UnitCost      float64 // purchase price per unit
	UnitWeightKg  float64 // weight used for fuel cost
	LeadTimeHours int     // delay between order and delivery at the hub
}

// KitQuantities holds one integer quantity per kit class. The JSON field
// names match the scoring API wire format.
type KitQuantities struct {
	First          int64 `json:"first"`
	Business       int64 `json:"business"`
	PremiumEconomy int64 `json:"premiumEconomy"`
	Economy        int64 `json:"economy"`
}

// Get returns the quantity for the given kit class.
func (q KitQuantities) Get(k KitType) int64 {
	switch k {
	case KitFirst:
		return q.First
	case KitBusiness:
		return q.Business
	case KitPremiumEconomy:
		return q.PremiumEconomy
	default:
		return q.Economy
	}
}

// Set overwrites the quantity for the given kit class.
func (q *KitQuantities) Set(k KitType, v int64) {
	switch k {
	case KitFirst:
		q.First = v
	case KitBusiness:
		q.Business = v
	case KitPremiumEconomy:
		q.PremiumEconomy = v
	default:
		q.Economy = v
	}
}

// Add increments the quantity for the given kit class.
func (q *KitQuantities) Add(k KitType, v int64) { q.Set(k, q.Get(k)+v) }

// Total returns the sum over all kit classes.
func (q KitQuantities) Total() int64 {
	return q.First + q.Business + q.PremiumEconomy + q.Economy
}

// IsZero reports whether every class quantity is zero.
func (q KitQuantities) IsZero() bool { return q.Total() == 0 }

func (q KitQuantities) String() string {
	return fmt.Sprintf("[F:%d B:%d P:%d E:%d]", q.First, q.Business, q.PremiumEconomy, q.Economy)
}
