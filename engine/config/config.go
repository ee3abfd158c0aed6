// Package config models commandgrid.yml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the composition root needs to wire the engine.
type Config struct {
	Services struct {
		Jobs   string `yaml:"jobs"`
		Tasks  string `yaml:"tasks"`
		Layout string `yaml:"layout"`
		APIKey string `yaml:"api_key"`
	} `yaml:"services"`

	Poll struct {
		Jobs  time.Duration `yaml:"jobs"`
		Tasks time.Duration `yaml:"tasks"`
	} `yaml:"poll"`

	World struct {
		GridSize    int     `yaml:"grid_size"`
		UnitSpeed   float64 `yaml:"unit_speed"`
		PathBudget  int     `yaml:"path_budget"`
		StalePolicy string  `yaml:"stale_policy"`
	} `yaml:"world"`

	Dispatch struct {
		Villagers int `yaml:"villagers"`
	} `yaml:"dispatch"`

	Screen struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"screen"`

	Snapshot struct {
		Path string `yaml:"path"`
	} `yaml:"snapshot"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Services.Jobs = "http://localhost:8090"
	cfg.Services.Tasks = "http://localhost:8090"
	cfg.Services.Layout = "http://localhost:8090"
	cfg.Poll.Jobs = 2 * time.Second
	cfg.Poll.Tasks = 30 * time.Second
	cfg.World.GridSize = 32
	cfg.World.UnitSpeed = 3.0
	cfg.World.PathBudget = 500
	cfg.World.StalePolicy = "keep"
	cfg.Dispatch.Villagers = 3
	cfg.Screen.Width = 1280
	cfg.Screen.Height = 720
	cfg.Snapshot.Path = filepath.Join(".commandgrid", "layout.snap")
	return &cfg
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "commandgrid.yml")
}

// Load reads config from the workspace, falling back to defaults when the
// file does not exist.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes. Unset fields
// keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Services.Jobs == "" {
		return fmt.Errorf("config.services.jobs is required")
	}
	if c.Services.Tasks == "" {
		return fmt.Errorf("config.services.tasks is required")
	}
	if c.Poll.Jobs <= 0 {
		return fmt.Errorf("config.poll.jobs must be positive")
	}
	if c.Poll.Tasks <= 0 {
		return fmt.Errorf("config.poll.tasks must be positive")
	}
	if c.World.GridSize < 8 || c.World.GridSize > 256 {
		return fmt.Errorf("config.world.grid_size %d out of range [8,256]", c.World.GridSize)
	}
	if c.World.UnitSpeed <= 0 {
		return fmt.Errorf("config.world.unit_speed must be positive")
	}
	if c.World.PathBudget <= 0 {
		return fmt.Errorf("config.world.path_budget must be positive")
	}
	switch c.World.StalePolicy {
	case "keep", "mark-error", "remove":
	default:
		return fmt.Errorf("config.world.stale_policy must be keep, mark-error or remove")
	}
	if c.Dispatch.Villagers < 1 {
		return fmt.Errorf("config.dispatch.villagers must be at least 1")
	}
	return nil
}
