// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Stack holds the fixed service ports of the container stack. The launch
// scripts do not make these configurable; they are surfaced here so status
// output and the web server agree on one source.
type Stack struct {
	FrontendPort int    `yaml:"frontend_port"`
	BackendPort  int    `yaml:"backend_port"`
	BrokerPort   int    `yaml:"broker_port"`
	StorePort    int    `yaml:"store_port"`
	ComposeFile  string `yaml:"compose_file"`
	SettleSecs   int    `yaml:"settle_seconds"`
}

// Polling controls the day-output poll loop.
type Polling struct {
	IntervalMS int `yaml:"interval_ms"`
	MaxDays    int `yaml:"max_days"`
	// MaxMisses is how many consecutive not-ready responses end a run
	// once at least one day has been received.
	MaxMisses int `yaml:"max_misses"`
}

// Config is the root configuration for the dashboard and stack commands.
type Config struct {
	BackendURL  string  `yaml:"backend_url"`
	Stack       Stack   `yaml:"stack"`
	Polling     Polling `yaml:"polling"`
	PresetsFile string  `yaml:"presets_file"`
}

// Default returns the built-in configuration matching the documented stack.
func Default() *Config {
	return &Config{
		BackendURL: "http://localhost:8000",
		Stack: Stack{
			FrontendPort: 8050,
			BackendPort:  8000,
			BrokerPort:   6379,
			StorePort:    27017,
			ComposeFile:  "docker-compose.yml",
			SettleSecs:   15,
		},
		Polling: Polling{
			IntervalMS: 1000,
			MaxDays:    120,
			MaxMisses:  30,
		},
		PresetsFile: "config/presets.yaml",
	}
}

// Load loads YAML config over the defaults and validates it against a CUE
// schema. An empty configPath returns the defaults unchanged.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) check() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url must not be empty")
	}
	if c.Polling.IntervalMS <= 0 {
		return fmt.Errorf("polling.interval_ms must be positive, got %d", c.Polling.IntervalMS)
	}
	if c.Polling.MaxDays <= 0 {
		return fmt.Errorf("polling.max_days must be positive, got %d", c.Polling.MaxDays)
	}
	return nil
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Polling.IntervalMS) * time.Millisecond
}

// SettleDelay returns the fixed post-start settle period.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Stack.SettleSecs) * time.Second
}

// FrontendAddr returns the address reported for the dashboard frontend.
func (c *Config) FrontendAddr() string {
	return fmt.Sprintf("http://localhost:%d", c.Stack.FrontendPort)
}

// BackendAddr returns the address reported for the simulation backend.
func (c *Config) BackendAddr() string {
	return fmt.Sprintf("http://localhost:%d", c.Stack.BackendPort)
}
