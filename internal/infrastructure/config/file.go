package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/denis333rus/censornet/internal/shared/types"
)

// FileOverlay is the optional YAML overlay applied on top of the
// environment configuration. All fields are optional; durations are
// time.ParseDuration strings.
type FileOverlay struct {
	Sim struct {
		NormalDelay  string   `yaml:"normal_delay"`
		SlowedDelay  string   `yaml:"slowed_delay"`
		BlockedDelay string   `yaml:"blocked_delay"`
		AppealChance *float64 `yaml:"appeal_chance"`
		Seed         *int64   `yaml:"seed"`
	} `yaml:"sim"`

	// FallbackResults replaces the built-in fixed result list used when
	// the search collaborator fails.
	FallbackResults []types.SearchResult `yaml:"fallback_results"`
}

// ApplyFile merges a YAML overlay file into cfg and returns the fallback
// search results declared in it, if any. A missing file is not an error.
func ApplyFile(cfg *Config, path string) ([]types.SearchResult, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var overlay FileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := applyDuration(&cfg.Sim.NormalDelay, overlay.Sim.NormalDelay); err != nil {
		return nil, err
	}
	if err := applyDuration(&cfg.Sim.SlowedDelay, overlay.Sim.SlowedDelay); err != nil {
		return nil, err
	}
	if err := applyDuration(&cfg.Sim.BlockedDelay, overlay.Sim.BlockedDelay); err != nil {
		return nil, err
	}
	if overlay.Sim.AppealChance != nil {
		cfg.Sim.AppealChance = *overlay.Sim.AppealChance
	}
	if overlay.Sim.Seed != nil {
		cfg.Sim.Seed = *overlay.Sim.Seed
	}

	return overlay.FallbackResults, nil
}

func applyDuration(dst *time.Duration, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*dst = d
	return nil
}
