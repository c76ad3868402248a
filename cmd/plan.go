package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/kitflow/config"
	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/model"
	"github.com/kilianp07/kitflow/core/planner"
	"github.com/kilianp07/kitflow/core/solver"
	"github.com/kilianp07/kitflow/infra/csvdata"
	"github.com/kilianp07/kitflow/infra/logger"
)

var (
	flightsPath string
	planHour    int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run one offline planning cycle over a flight events file",
	RunE:  planOnce,
}

func init() {
	planCmd.Flags().StringVarP(&flightsPath, "flights", "f", "flights.json", "flight events file (JSON array)")
	planCmd.Flags().IntVar(&planHour, "hour", 0, "absolute hour to plan")
	rootCmd.AddCommand(planCmd)
}

func planOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("plan-command")
	loader := csvdata.NewLoader(logg)
	aircraft, err := loader.LoadAircraftTypes(cfg.Fleet.AircraftFile)
	if err != nil {
		return fmt.Errorf("aircraft types: %w", err)
	}
	airports, err := loader.LoadAirports(cfg.Fleet.AirportsFile)
	if err != nil {
		return fmt.Errorf("airports: %w", err)
	}
	for code, ap := range airports {
		cfg.Fleet.ApplyHandling(&ap)
		airports[code] = ap
	}

	data, err := os.ReadFile(flightsPath)
	if err != nil {
		return fmt.Errorf("read flights: %w", err)
	}
	var events []model.FlightEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("decode flights: %w", err)
	}

	kits := cfg.Fleet.KitSpecs()
	builder := graph.NewBuilder(kits, cfg.Fleet.Hub, cfg.Planner.HorizonHours, graph.CostConfig{
		FuelCostPerKm:      cfg.Planner.FuelCostPerKm,
		PenaltyFactor:      cfg.Planner.PenaltyFactor,
		StorageCostPerHour: cfg.Planner.StorageCostPerHour,
		MaxOrderPerKit:     cfg.Planner.MaxOrderPerKit,
	}, logg)
	ctrl := planner.NewController(planner.ControllerConfig{
		Builder:      builder,
		Exact:        solver.NewMinCostSolver(logg),
		Fallback:     solver.NewGreedySolver(logg),
		Airports:     airports,
		Aircraft:     aircraft,
		Kits:         kits,
		Hub:          cfg.Fleet.Hub,
		SolveTimeout: time.Duration(cfg.Planner.SolveTimeoutMS) * time.Millisecond,
		Logger:       logg,
	})
	ctrl.Ingest(events)

	decision, sol := ctrl.PlanHour(context.Background(), planHour)
	out := struct {
		Status   string         `json:"status"`
		Cost     string         `json:"cost"`
		Decision model.Decision `json:"decision"`
	}{
		Status:   sol.Status.String(),
		Cost:     sol.TotalCost.String(),
		Decision: decision,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
