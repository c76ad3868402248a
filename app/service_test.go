package app

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/kitflow/config"
	"github.com/kilianp07/kitflow/core/model"
	"github.com/kilianp07/kitflow/infra/gameapi"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	aircraft := writeFixture(t, dir, "aircraft.csv",
		"id;type_code;name;mtow;range;speed;crew;first;business;premium;economy\n"+
			"1;A320;Airbus A320;78;6100;829;6;0;0;0;100\n")
	airports := writeFixture(t, dir, "airports.csv",
		"code;hub;first_stock;business_stock;premium_stock;economy_stock;first_storage;business_storage;premium_storage;economy_storage\n"+
			"HUB1;true;0;0;0;250;0;0;0;500\n"+
			"A1;false;0;0;0;50;0;0;0;100\n")

	cfg := &config.Config{}
	cfg.Planner.SetDefaults()
	cfg.Fleet.SetDefaults()
	cfg.API.SetDefaults()
	cfg.Feed.SetDefaults()
	cfg.Metrics.SetDefaults()

	cfg.Planner.HorizonHours = 24
	cfg.Fleet.Hub = "HUB1"
	cfg.Fleet.AircraftFile = aircraft
	cfg.Fleet.AirportsFile = airports
	cfg.API.BaseURL = baseURL + "/api/v1"
	cfg.API.APIKey = "test-key"
	cfg.Feed.Enabled = false
	cfg.Metrics.PrometheusEnabled = false
	cfg.Metrics.InfluxEnabled = false
	return cfg
}

func TestServicePlaysScriptedGame(t *testing.T) {
	departing := model.FlightEvent{
		EventType:     model.FlightScheduled,
		FlightID:      "F1",
		FlightNumber:  "KF001",
		Origin:        "HUB1",
		Destination:   "A1",
		AircraftType:  "A320",
		DepartureHour: 1,
		ArrivalHour:   3,
		DistanceKM:    1000,
		Passengers:    model.KitQuantities{Economy: 60},
	}
	// Three rounds: the flight appears in round one, departs during round
	// two's planning and its load rides on round three's request.
	mock := gameapi.NewMockServer("test-key", [][]model.FlightEvent{
		{departing},
		{},
		{},
	})
	ts := httptest.NewServer(mock.Handler())
	defer ts.Close()

	svc, err := New(testConfig(t, ts.URL))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, svc.Run(ctx))

	require.Len(t, mock.Requests, 3)
	assert.Empty(t, mock.Requests[0].FlightLoads)
	assert.Empty(t, mock.Requests[1].FlightLoads)

	require.Len(t, mock.Requests[2].FlightLoads, 1)
	load := mock.Requests[2].FlightLoads[0]
	assert.Equal(t, "F1", load.FlightID)
	assert.Equal(t, int64(60), load.LoadedKits.Economy)

	// The committed load left the hub ledger.
	assert.Equal(t, int64(190), svc.Controller.Ledger().Stock("HUB1").Get(model.KitEconomy))
}

func TestServiceRejectsMissingHub(t *testing.T) {
	mock := gameapi.NewMockServer("test-key", nil)
	ts := httptest.NewServer(mock.Handler())
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	cfg.Fleet.Hub = "NOPE"
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hub")
}

func TestServiceRejectsHubMismatch(t *testing.T) {
	mock := gameapi.NewMockServer("test-key", nil)
	ts := httptest.NewServer(mock.Handler())
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	// The airports data flags A1 as the hub while the config names HUB1.
	cfg.Fleet.AirportsFile = writeFixture(t, t.TempDir(), "airports.csv",
		"code;hub;first_stock;business_stock;premium_stock;economy_stock;first_storage;business_storage;premium_storage;economy_storage\n"+
			"HUB1;false;0;0;0;250;0;0;0;500\n"+
			"A1;true;0;0;0;50;0;0;0;100\n")
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hub flag")
}

func TestServiceStopsOnContextCancel(t *testing.T) {
	// A long script keeps the game alive so only cancellation can end it.
	script := make([][]model.FlightEvent, 1000)
	mock := gameapi.NewMockServer("test-key", script)
	ts := httptest.NewServer(mock.Handler())
	defer ts.Close()

	svc, err := New(testConfig(t, ts.URL))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("service did not stop on cancel")
	}
}
