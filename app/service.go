package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/kitflow/config"
	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/model"
	"github.com/kilianp07/kitflow/core/planner"
	"github.com/kilianp07/kitflow/core/solver"
	"github.com/kilianp07/kitflow/infra/csvdata"
	"github.com/kilianp07/kitflow/infra/feed"
	"github.com/kilianp07/kitflow/infra/gameapi"
	"github.com/kilianp07/kitflow/infra/logger"
	"github.com/kilianp07/kitflow/infra/metrics"
	"github.com/kilianp07/kitflow/internal/eventbus"
)

// Service orchestrates one full game: it wires the planner to the scoring
// API and the optional MQTT feed, then runs the hour loop until the
// session ends or the context is cancelled.
type Service struct {
	Controller *planner.Controller
	client     *gameapi.Client
	source     *feed.Source
	bus        eventbus.EventBus

	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	loader := csvdata.NewLoader(logger.New("csvdata"))
	aircraft, err := loader.LoadAircraftTypes(cfg.Fleet.AircraftFile)
	if err != nil {
		return nil, fmt.Errorf("aircraft types: %w", err)
	}
	airports, err := loader.LoadAirports(cfg.Fleet.AirportsFile)
	if err != nil {
		return nil, fmt.Errorf("airports: %w", err)
	}
	for code, ap := range airports {
		cfg.Fleet.ApplyHandling(&ap)
		airports[code] = ap
	}
	hub, ok := airports[cfg.Fleet.Hub]
	if !ok {
		return nil, fmt.Errorf("hub %q not present in airports data", cfg.Fleet.Hub)
	}
	if !hub.Hub {
		for code, ap := range airports {
			if ap.Hub {
				return nil, fmt.Errorf("configured hub %q conflicts with hub flag on %q in airports data", cfg.Fleet.Hub, code)
			}
		}
	}

	sink, err := metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	kits := cfg.Fleet.KitSpecs()
	builder := graph.NewBuilder(kits, cfg.Fleet.Hub, cfg.Planner.HorizonHours, graph.CostConfig{
		FuelCostPerKm:      cfg.Planner.FuelCostPerKm,
		PenaltyFactor:      cfg.Planner.PenaltyFactor,
		StorageCostPerHour: cfg.Planner.StorageCostPerHour,
		MaxOrderPerKit:     cfg.Planner.MaxOrderPerKit,
	}, logger.New("builder"))

	bus := eventbus.New()
	ctrl := planner.NewController(planner.ControllerConfig{
		Builder:      builder,
		Exact:        solver.NewMinCostSolver(logger.New("mincost")),
		Fallback:     solver.NewGreedySolver(logger.New("greedy")),
		Airports:     airports,
		Aircraft:     aircraft,
		Kits:         kits,
		Hub:          cfg.Fleet.Hub,
		SolveTimeout: time.Duration(cfg.Planner.SolveTimeoutMS) * time.Millisecond,
		Logger:       logger.New("planner"),
		Bus:          bus,
		Sink:         sink,
	})

	svc := &Service{
		Controller:  ctrl,
		client:      gameapi.NewClient(cfg.API),
		bus:         bus,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}
	if cfg.Feed.Enabled {
		src, err := feed.NewSource(cfg.Feed)
		if err != nil {
			return nil, fmt.Errorf("flight feed: %w", err)
		}
		svc.source = src
	}
	return svc, nil
}

// Run plays the game and blocks until it finishes or the context is
// cancelled. Each iteration submits the previous cycle's decision, ingests
// the flight updates the server answers with and plans the next hour.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	var feedEvents <-chan model.FlightEvent
	if s.source != nil {
		feedEvents = s.source.Events()
	}

	if err := s.client.StartSession(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer s.client.EndSession(context.WithoutCancel(ctx))

	hour := 0
	decision := model.NewDecision(0)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := s.client.PlayRound(ctx, gameapi.NewRoundRequest(decision))
		if err != nil {
			if errors.Is(err, gameapi.ErrSessionEnded) {
				s.log.Infof("session ended after hour %d", hour)
				return nil
			}
			return fmt.Errorf("play round: %w", err)
		}
		s.log.Infof("hour %d: cost %.2f, %d flight updates", hour, resp.TotalCost, len(resp.FlightUpdates))

		s.Controller.Ingest(resp.FlightUpdates)
		s.Controller.Ingest(drain(feedEvents))

		decision, _ = s.Controller.PlanHour(ctx, hour)
		hour++
	}
}

// drain collects whatever the feed has buffered without blocking.
func drain(ch <-chan model.FlightEvent) []model.FlightEvent {
	if ch == nil {
		return nil
	}
	var out []model.FlightEvent
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.source != nil {
		s.source.Close()
	}
	s.bus.Close()
	return nil
}
