package config

import (
	"fmt"

	"github.com/kilianp07/kitflow/core/model"
)

// KitClassConfig holds the business constants of one kit class. The
// observed tables of these numbers diverge between deployments, so every
// one of them is configuration with a documented default.
type KitClassConfig struct {
	UnitCost            float64 `json:"unit_cost"`
	UnitWeightKg        float64 `json:"unit_weight_kg"`
	LeadTimeHours       int     `json:"lead_time_hours"`
	LoadingCost         float64 `json:"loading_cost"`
	ProcessingCost      float64 `json:"processing_cost"`
	ProcessingTimeHours int     `json:"processing_time_hours"`
}

// FleetConfig describes the physical network: the purchasing hub, the
// reference data files and the per-class kit constants.
type FleetConfig struct {
	Hub          string                    `json:"hub"`
	AirportsFile string                    `json:"airports_file"`
	AircraftFile string                    `json:"aircraft_file"`
	Kits         map[string]KitClassConfig `json:"kits"`
}

var defaultKits = map[model.KitType]KitClassConfig{
	model.KitFirst:          {UnitCost: 500, UnitWeightKg: 5, LeadTimeHours: 72, LoadingCost: 2, ProcessingCost: 1, ProcessingTimeHours: 4},
	model.KitBusiness:       {UnitCost: 200, UnitWeightKg: 3, LeadTimeHours: 48, LoadingCost: 2, ProcessingCost: 1, ProcessingTimeHours: 4},
	model.KitPremiumEconomy: {UnitCost: 100, UnitWeightKg: 2, LeadTimeHours: 24, LoadingCost: 2, ProcessingCost: 1, ProcessingTimeHours: 4},
	model.KitEconomy:        {UnitCost: 50, UnitWeightKg: 1, LeadTimeHours: 24, LoadingCost: 2, ProcessingCost: 1, ProcessingTimeHours: 4},
}

// SetDefaults fills missing classes and fields from the default table.
func (c *FleetConfig) SetDefaults() {
	if c.Kits == nil {
		c.Kits = make(map[string]KitClassConfig, len(defaultKits))
	}
	for kit, def := range defaultKits {
		kc, ok := c.Kits[kit.String()]
		if !ok {
			c.Kits[kit.String()] = def
			continue
		}
		if kc.UnitCost == 0 {
			kc.UnitCost = def.UnitCost
		}
		if kc.UnitWeightKg == 0 {
			kc.UnitWeightKg = def.UnitWeightKg
		}
		if kc.LeadTimeHours == 0 {
			kc.LeadTimeHours = def.LeadTimeHours
		}
		if kc.LoadingCost == 0 {
			kc.LoadingCost = def.LoadingCost
		}
		if kc.ProcessingCost == 0 {
			kc.ProcessingCost = def.ProcessingCost
		}
		if kc.ProcessingTimeHours == 0 {
			kc.ProcessingTimeHours = def.ProcessingTimeHours
		}
		c.Kits[kit.String()] = kc
	}
}

// Validate checks mandatory fields.
func (c FleetConfig) Validate() error {
	if c.Hub == "" {
		return fmt.Errorf("fleet hub is required")
	}
	for name, kc := range c.Kits {
		if _, err := model.ParseKitType(name); err != nil {
			return err
		}
		if kc.UnitCost <= 0 || kc.UnitWeightKg <= 0 {
			return fmt.Errorf("kit %s: unit_cost and unit_weight_kg must be positive", name)
		}
		if kc.LeadTimeHours < 0 || kc.ProcessingTimeHours < 0 {
			return fmt.Errorf("kit %s: times must be non-negative", name)
		}
	}
	return nil
}

// KitSpecs converts the class table into the model representation.
func (c FleetConfig) KitSpecs() map[model.KitType]model.KitSpec {
	specs := make(map[model.KitType]model.KitSpec, len(c.Kits))
	for name, kc := range c.Kits {
		kit, err := model.ParseKitType(name)
		if err != nil {
			continue
		}
		specs[kit] = model.KitSpec{
			UnitCost:      kc.UnitCost,
			UnitWeightKg:  kc.UnitWeightKg,
			LeadTimeHours: kc.LeadTimeHours,
		}
	}
	return specs
}

// ApplyHandling fills an airport's handling tables from the class config.
// Values already present on the airport are kept.
func (c FleetConfig) ApplyHandling(ap *model.Airport) {
	if ap.LoadingCost == nil {
		ap.LoadingCost = make(map[model.KitType]float64, len(c.Kits))
	}
	if ap.ProcessingCost == nil {
		ap.ProcessingCost = make(map[model.KitType]float64, len(c.Kits))
	}
	if ap.ProcessingTime == nil {
		ap.ProcessingTime = make(map[model.KitType]int, len(c.Kits))
	}
	for name, kc := range c.Kits {
		kit, err := model.ParseKitType(name)
		if err != nil {
			continue
		}
		if _, ok := ap.LoadingCost[kit]; !ok {
			ap.LoadingCost[kit] = kc.LoadingCost
		}
		if _, ok := ap.ProcessingCost[kit]; !ok {
			ap.ProcessingCost[kit] = kc.ProcessingCost
		}
		if _, ok := ap.ProcessingTime[kit]; !ok {
			ap.ProcessingTime[kit] = kc.ProcessingTimeHours
		}
	}
}
