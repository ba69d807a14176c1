// Package config loads the process-wide configuration: the HTTP server's
// bind address and static paths, the logging sink's level/format, the
// default per-request planning knobs, and the maps-key proxy's secret. It is
// a superset of, and distinct from, models.TopologyConfig: a single request
// may override the Planning section for that call only, via config_json.
package config

import (
	"fmt"
	"os"

	"github.com/Jazzy96/topo-planner/models"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP server's bind address and filesystem paths.
type ServerConfig struct {
	Address                     string `yaml:"address"`
	WebRoot                     string `yaml:"web_root"`
	StaticContentRootDirectory  string `yaml:"static_content_root_directory"`
	ResultsDirectory            string `yaml:"results_directory"`
}

// LoggingConfig holds the structured-logger sink configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MapsConfig holds the Google Maps key proxy's secret. The key itself is
// read from the GOOGLE_MAPS_API_KEY environment variable, never from the
// YAML file, so it never ends up committed alongside the rest of the config.
type MapsConfig struct {
	GoogleMapsAPIKey string `yaml:"-"`
}

// Config is the process-wide configuration loaded once at startup.
type Config struct {
	Server   ServerConfig          `yaml:"server"`
	Logging  LoggingConfig         `yaml:"logging"`
	Planning models.TopologyConfig `yaml:"planning"`
	Maps     MapsConfig            `yaml:"-"`
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:                    ":8080",
			WebRoot:                    "/",
			StaticContentRootDirectory: "/app/static",
			ResultsDirectory:           "/app/results",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Planning: models.DefaultTopologyConfig(),
	}
}

// Load builds a Config starting from Default, overlaying a YAML file at
// path if one is present, then applying environment-variable overrides.
// A missing file is not an error: the defaults stand on their own.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return applyEnv(cfg), nil
			}
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return applyEnv(cfg), nil
}

func applyEnv(cfg *Config) *Config {
	cfg.Maps.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	if addr := os.Getenv("TOPO_PLANNER_ADDRESS"); addr != "" {
		cfg.Server.Address = addr
	}
	return cfg
}
