package config

import "fmt"

// PlannerConfig defines settings for the rolling-horizon planner.
type PlannerConfig struct {
	// HorizonHours is the width of the time-expanded network.
	HorizonHours int `json:"horizon_hours"`
	// SolveTimeoutMS bounds one exact solve before falling back.
	SolveTimeoutMS int `json:"solve_timeout_ms"`
	// PenaltyFactor scales the unmet-demand penalty over distance x unit cost.
	PenaltyFactor float64 `json:"penalty_factor"`
	// FuelCostPerKm is charged per km per kg of kit weight.
	FuelCostPerKm float64 `json:"fuel_cost_per_km"`
	// StorageCostPerHour is the per-unit holding cost, usually zero.
	StorageCostPerHour float64 `json:"storage_cost_per_hour"`
	// MaxOrderPerKit caps one cycle's purchase order per class.
	MaxOrderPerKit int64 `json:"max_order_per_kit"`
}

// SetDefaults applies sane defaults.
func (c *PlannerConfig) SetDefaults() {
	if c.HorizonHours == 0 {
		c.HorizonHours = 72
	}
	if c.SolveTimeoutMS == 0 {
		c.SolveTimeoutMS = 10000
	}
	if c.PenaltyFactor == 0 {
		c.PenaltyFactor = 10
	}
	if c.FuelCostPerKm == 0 {
		c.FuelCostPerKm = 0.5
	}
	if c.MaxOrderPerKit == 0 {
		c.MaxOrderPerKit = 1000
	}
}

// Validate checks mandatory fields.
func (c PlannerConfig) Validate() error {
	if c.HorizonHours < 2 {
		return fmt.Errorf("horizon_hours must be at least 2")
	}
	if c.PenaltyFactor <= 1 {
		return fmt.Errorf("penalty_factor must exceed 1")
	}
	if c.FuelCostPerKm < 0 || c.StorageCostPerHour < 0 {
		return fmt.Errorf("costs must be non-negative")
	}
	if c.MaxOrderPerKit < 0 {
		return fmt.Errorf("max_order_per_kit must be non-negative")
	}
	return nil
}
