// Package config holds the server configuration and the process-wide game
// settings bundles and scripts read at runtime.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RPG_MUD_"

// Server holds all configuration for the game server. Values are read from
// YAML, then overridden by RPG_MUD_* environment variables.
type Server struct {
	GRPCPort int `yaml:"grpc_port" env:"GRPC_PORT"`

	// TickInterval is the game loop period.
	TickInterval time.Duration `yaml:"tick_interval" env:"TICK_INTERVAL"`

	BundlesPath string   `yaml:"bundles_path" env:"BUNDLES_PATH"`
	Bundles     []string `yaml:"bundles" env:"BUNDLES" envSeparator:","`

	// PlaceholderRoom is where players with a missing room are moved.
	PlaceholderRoom string `yaml:"placeholder_room" env:"PLACEHOLDER_ROOM"`

	Redis RedisConfig `yaml:"redis" envPrefix:"REDIS_"`
	Log   LogConfig   `yaml:"log" envPrefix:"LOG_"`

	// Game is loaded into the game settings cache at startup.
	Game map[string]any `yaml:"game"`
}

// RedisConfig holds the player save store connection.
type RedisConfig struct {
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`
	DB       int    `yaml:"db" env:"DB"`
	PoolSize int    `yaml:"pool_size" env:"POOL_SIZE"`
	UseTLS   bool   `yaml:"use_tls" env:"USE_TLS"`
}

// LogConfig configures the default slog handler.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		GRPCPort:        50051,
		TickInterval:    100 * time.Millisecond,
		BundlesPath:     "bundles",
		PlaceholderRoom: "placeholder:placeholder",
		Redis: RedisConfig{
			Endpoint: "localhost:6379",
			PoolSize: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadServer loads the server config from a YAML file and applies
// environment overrides. A missing file yields the defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "parsing config %s", path).
					WithMeta("file", path)
			}
		case !os.IsNotExist(err):
			return cfg, errors.Wrapf(err, "reading config %s", path).WithMeta("file", path)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, errors.WrapWithCode(err, errors.CodeInvalidArgument, "parsing environment overrides")
	}

	return cfg, cfg.Validate()
}

// Validate checks the config.
func (s *Server) Validate() error {
	vb := errors.NewValidationBuilder()
	if s.GRPCPort <= 0 || s.GRPCPort > 65535 {
		vb.Fieldf("grpc_port", "must be between 1 and 65535, got %d", s.GRPCPort)
	}
	if s.TickInterval <= 0 {
		vb.Field("tick_interval", "must be positive")
	}
	errors.ValidateRequired("bundles_path", s.BundlesPath, vb)
	errors.ValidateRequired("placeholder_room", s.PlaceholderRoom, vb)
	errors.ValidateEnum("log.level", s.Log.Level, []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("log.format", s.Log.Format, []string{"text", "json"}, vb)
	return vb.Build()
}
