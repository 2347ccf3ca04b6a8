package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the engine configuration, loaded from flotilla.toml plus
// environment overrides. The manifest itself is a separate document; this
// only configures how the engine runs it.
type Config struct {
	Runtime RuntimeConfig `mapstructure:"runtime"`
	Engine  EngineConfig  `mapstructure:"engine"`
	LogLevel string       `mapstructure:"log_level"`
}

type RuntimeConfig struct {
	// SocketPath is the container daemon socket. Empty uses the SDK's
	// environment defaults (DOCKER_HOST).
	SocketPath string `mapstructure:"socket_path"`
	// MinVersion is the minimum acceptable daemon version.
	MinVersion string `mapstructure:"min_version"`
}

type EngineConfig struct {
	// ReadyTimeout bounds each container's wait-for-running window.
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
	// StopTimeout bounds graceful stops before the daemon kills.
	StopTimeout time.Duration `mapstructure:"stop_timeout"`
	// StateDir holds the cluster state database.
	StateDir string `mapstructure:"state_dir"`
}

// Load reads the configuration from viper's active sources, applying
// defaults for anything unset.
func Load() (*Config, error) {
	viper.SetDefault("runtime.socket_path", "")
	viper.SetDefault("runtime.min_version", "")
	viper.SetDefault("engine.ready_timeout", "30s")
	viper.SetDefault("engine.stop_timeout", "10s")
	viper.SetDefault("engine.state_dir", defaultStateDir())
	viper.SetDefault("log_level", "info")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.Engine.ReadyTimeout <= 0 {
		return nil, fmt.Errorf("engine.ready_timeout must be positive")
	}
	if cfg.Engine.StopTimeout <= 0 {
		return nil, fmt.Errorf("engine.stop_timeout must be positive")
	}
	if cfg.Engine.StateDir == "" {
		cfg.Engine.StateDir = defaultStateDir()
	}
	return &cfg, nil
}

func defaultStateDir() string {
	if dir := os.Getenv("FLOTILLA_STATE_DIR"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "flotilla")
	}
	return "/var/lib/flotilla"
}
