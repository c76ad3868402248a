package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/kitflow/core/metrics"
	"github.com/kilianp07/kitflow/infra/feed"
	"github.com/kilianp07/kitflow/infra/gameapi"
)

type Config struct {
	Planner PlannerConfig  `json:"planner"`
	Fleet   FleetConfig    `json:"fleet"`
	API     gameapi.Config `json:"api"`
	Feed    feed.Config    `json:"feed"`
	Metrics metrics.Config `json:"metrics"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Planner.SetDefaults()
	cfg.Fleet.SetDefaults()
	cfg.API.SetDefaults()
	cfg.Feed.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Planner.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Fleet.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.API.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
