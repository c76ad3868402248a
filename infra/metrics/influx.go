package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/kitflow/core/metrics"
	"github.com/kilianp07/kitflow/infra/logger"
)

// InfluxSink writes planning cycles to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.PlanSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlanCycle writes one planning cycle as line protocol points: a
// cycle summary plus one unmet-demand point per kit class.
func (s *InfluxSink) RecordPlanCycle(c coremetrics.PlanCycle) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan_cycle").
		AddTag("status", c.Status).
		AddTag("fallback", strconv.FormatBool(c.Fallback)).
		AddTag("component", "planner").
		AddField("hour", c.Hour).
		AddField("total_cost", round3(c.TotalCost)).
		AddField("duration_ms", round3(c.Duration.Seconds()*1000)).
		AddField("loads", c.Loads).
		AddField("purchases", c.Purchases).
		AddField("nodes", c.Nodes).
		AddField("edges", c.Edges).
		SetTime(c.Time)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		return err
	}
	for kit, qty := range c.UnmetDemand {
		up := write.NewPointWithMeasurement("plan_unmet_demand").
			AddTag("kit", kit.String()).
			AddTag("component", "planner").
			AddField("hour", c.Hour).
			AddField("quantity", qty).
			SetTime(c.Time)
		if err := s.writeAPI.WritePoint(ctx, up); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
