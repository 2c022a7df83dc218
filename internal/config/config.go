package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"herdsim/internal/market"
)

type Config struct {
	General    GeneralConfig    `toml:"general"`
	Simulation SimulationConfig `toml:"simulation"`
}

type GeneralConfig struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
	Plot     bool   `toml:"plot"`
}

type SimulationConfig struct {
	Agents     int    `toml:"agents"`
	Horizon    int    `toml:"horizon"`
	Seed       int64  `toml:"seed"`
	StartState string `toml:"start_state"`
	Workers    int    `toml:"workers"`
	Schedule   []int  `toml:"schedule"`
}

// Load reads a TOML config on top of the defaults. A missing file is not
// an error; the defaults describe a complete reference run.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			DBPath:   "./data/herdsim.db",
			LogLevel: "info",
			Plot:     true,
		},
		Simulation: SimulationConfig{
			Agents:     100,
			Horizon:    20,
			Seed:       0, // 0 means seed from the clock
			StartState: "flat",
			Workers:    1,
		},
	}
}

// Validate enforces the invariants the core assumes on entry: a positive
// population, a positive horizon, and schedule intervals inside the
// horizon. It runs at the configuration boundary so the engine never sees
// invalid parameters.
func (c *Config) Validate() error {
	if c.Simulation.Agents <= 0 {
		return fmt.Errorf("simulation.agents must be positive, got %d", c.Simulation.Agents)
	}
	if c.Simulation.Horizon <= 0 {
		return fmt.Errorf("simulation.horizon must be positive, got %d", c.Simulation.Horizon)
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("simulation.workers must be at least 1, got %d", c.Simulation.Workers)
	}
	if _, err := market.ParseState(c.Simulation.StartState); err != nil {
		return fmt.Errorf("simulation.start_state: %w", err)
	}
	for i, n := range c.Simulation.Schedule {
		if n < 1 || n > c.Simulation.Horizon {
			return fmt.Errorf("simulation.schedule[%d] = %d outside [1, %d]", i, n, c.Simulation.Horizon)
		}
	}
	return nil
}

// StartState returns the parsed starting market state. Call Validate first.
func (c *Config) StartState() market.State {
	s, _ := market.ParseState(c.Simulation.StartState)
	return s
}

// SlogLevel maps the configured log level name onto a slog.Level,
// defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.General.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
