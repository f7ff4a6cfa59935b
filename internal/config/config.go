// Package config loads the explorer's settings from a layered YAML +
// environment-variable configuration, the same way the teacher's own
// infrastructure/config package does for its Machine options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level, YAML-serializable settings struct for one
// exploration run. Reduction and Algorithm mirror the DFSExplorer
// functional options; Transport, Log and Reporting configure the CLI around
// the explorer.
type Config struct {
	Reduction ReductionConfig `mapstructure:"reduction" yaml:"reduction"`
	Algorithm string          `mapstructure:"algorithm" yaml:"algorithm"`
	Transport TransportConfig `mapstructure:"transport" yaml:"transport"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Reporting ReportingConfig `mapstructure:"reporting" yaml:"reporting"`
}

// ReductionConfig mirrors WithReductionMode/WithMaxDepth/WithMaxVisitedStates/
// WithTermination/WithSnapshots.
type ReductionConfig struct {
	Mode             string `mapstructure:"mode" yaml:"mode"` // "none" or "dpor"
	MaxDepth         int    `mapstructure:"max_depth" yaml:"max_depth"`
	MaxVisitedStates int    `mapstructure:"max_visited_states" yaml:"max_visited_states"`
	Termination      bool   `mapstructure:"termination" yaml:"termination"`
	Snapshots        bool   `mapstructure:"snapshots" yaml:"snapshots"`
}

// TransportConfig selects and configures one of the three internal/transport
// RemoteApp implementations.
type TransportConfig struct {
	Kind string `mapstructure:"kind" yaml:"kind"` // "stdio", "socket", or "websocket"

	// stdio
	Command string   `mapstructure:"command" yaml:"command"`
	Args    []string `mapstructure:"args" yaml:"args,omitempty"`

	// socket
	Network string `mapstructure:"network" yaml:"network"` // "tcp" or "unix"
	Address string `mapstructure:"address" yaml:"address"`

	// websocket
	URL string `mapstructure:"url" yaml:"url"`
}

// LogConfig holds logger settings. It is loaded and saved with the rest of
// Config, but cmd/mcrun does not read it when building its zap logger: the
// -v flag alone chooses between the development and production logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
	Dev   bool   `mapstructure:"dev" yaml:"dev"`      // human-readable console output instead of JSON
}

// ReportingConfig configures where run traces and dot graphs are written.
type ReportingConfig struct {
	TraceDir string `mapstructure:"trace_dir" yaml:"trace_dir"`
	DotDir   string `mapstructure:"dot_dir" yaml:"dot_dir"`
}

// Load builds a Config by layering, lowest to highest priority: built-in
// defaults, a global config file (~/.dfsmc/config.yaml), a project-local
// config file (./config.yaml or ./config/config.yaml, whichever is found
// first), and DFSMC_-prefixed environment variables. Grounded on the
// global/local/env layering None9527-NGOClaw's config.Load() uses.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	globalDir := filepath.Join(os.Getenv("HOME"), ".dfsmc")
	v.AddConfigPath(globalDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read global config: %w", err)
		}
	}

	for _, dir := range []string{"./config", "."} {
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			local := viper.New()
			local.SetConfigFile(path)
			if err := local.ReadInConfig(); err == nil {
				_ = v.MergeConfigMap(local.AllSettings())
			}
			break
		}
	}

	v.SetEnvPrefix("DFSMC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("reduction.mode", "dpor")
	v.SetDefault("reduction.max_depth", 1000)
	v.SetDefault("reduction.max_visited_states", 0)
	v.SetDefault("reduction.termination", false)
	v.SetDefault("reduction.snapshots", false)

	v.SetDefault("algorithm", "safety")

	v.SetDefault("transport.kind", "stdio")
	v.SetDefault("transport.network", "tcp")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dev", false)

	v.SetDefault("reporting.trace_dir", "./runs")
	v.SetDefault("reporting.dot_dir", "./runs")
}
