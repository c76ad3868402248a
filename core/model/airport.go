package model

import "fmt"

// Airport describes one station of the network together with its per-class
// kit handling characteristics.
type Airport struct {
	Code string
	// Hub marks the single purchasing hub. Purchase deliveries land only
	// there.
	Hub bool

	StorageCapacity KitQuantities // max units held per class
	InitialStock    KitQuantities // stock at hour zero

	LoadingCost    map[KitType]float64 // cost to load one unit onto a flight
	ProcessingCost map[KitType]float64 // cost to process one arrived unit
	ProcessingTime map[KitType]int     // hours until an arrived unit is usable again
}

// Validate checks that the airport definition is sound.
func (a Airport) Validate() error {
	if a.Code == "" {
		return fmt.Errorf("airport code is required")
	}
	for _, k := range AllKitTypes {
		if a.StorageCapacity.Get(k) < 0 {
			return fmt.Errorf("airport %s: negative storage capacity for %s", a.Code, k)
		}
		if a.ProcessingTime[k] < 0 {
			return fmt.Errorf("airport %s: negative processing time for %s", a.Code, k)
		}
	}
	return nil
}

// AircraftType describes the per-class kit carry capacity of an airframe.
type AircraftType struct {
	Code     string
	Capacity KitQuantities
}

// Validate checks that the aircraft definition is sound.
func (t AircraftType) Validate() error {
	if t.Code == "" {
		return fmt.Errorf("aircraft type code is required")
	}
	for _, k := range AllKitTypes {
		if t.Capacity.Get(k) < 0 {
			return fmt.Errorf("aircraft %s: negative capacity for %s", t.Code, k)
		}
	}
	return nil
}
