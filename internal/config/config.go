package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/climate-trends/internal/dataset"
)

// Paths locates the five source datasets.
type Paths struct {
	City      string
	Country   string
	MajorCity string
	State     string
	Global    string
}

// Config holds all settings, populated from environment variables.
type Config struct {
	DataDir   string
	Paths     Paths
	OutputDir string

	LogLevel  string
	LogFormat string

	// MetricsTextfile is where metrics are written on exit. Empty disables it.
	MetricsTextfile string
	// MetricsAddr serves /healthz, /readyz and /metrics during the session.
	// Empty disables the server.
	MetricsAddr     string
	ShutdownTimeout time.Duration

	// Kafka trend publishing.
	KafkaBrokers   []string
	KafkaTopic     string
	KafkaEnabled   bool
	PublishTimeout time.Duration
}

// Load reads configuration from the environment, after merging an optional
// .env file from the working directory, applying defaults where unset.
func Load() (*Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	dataDir := sharedcfg.EnvOrDefault("DATA_DIR", "./data")

	publishTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("PUBLISH_TIMEOUT", "10s"))
	if err != nil || publishTimeout <= 0 {
		return nil, errors.New("invalid PUBLISH_TIMEOUT")
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	defaults := DefaultPaths(dataDir)
	cfg := &Config{
		DataDir: dataDir,
		Paths: Paths{
			City:      sharedcfg.EnvOrDefault("CITY_DATA_PATH", defaults.City),
			Country:   sharedcfg.EnvOrDefault("COUNTRY_DATA_PATH", defaults.Country),
			MajorCity: sharedcfg.EnvOrDefault("MAJOR_CITY_DATA_PATH", defaults.MajorCity),
			State:     sharedcfg.EnvOrDefault("STATE_DATA_PATH", defaults.State),
			Global:    sharedcfg.EnvOrDefault("GLOBAL_DATA_PATH", defaults.Global),
		},
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "climate-trends"),
		KafkaEnabled:    kafkaEnabled,
		PublishTimeout:  publishTimeout,
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, errors.New("LOG_FORMAT must be json or text")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

// ForName returns the path of the dataset with the given schema name.
func (p Paths) ForName(name string) string {
	switch name {
	case "city":
		return p.City
	case "country":
		return p.Country
	case "major_city":
		return p.MajorCity
	case "state":
		return p.State
	case "global":
		return p.Global
	default:
		return ""
	}
}

// DefaultPaths returns the standard file names under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		City:      defaultPath(dir, "city"),
		Country:   defaultPath(dir, "country"),
		MajorCity: defaultPath(dir, "major_city"),
		State:     defaultPath(dir, "state"),
		Global:    defaultPath(dir, "global"),
	}
}

func defaultPath(dir, name string) string {
	for _, s := range dataset.Schemas {
		if s.Name == name {
			return filepath.Join(dir, s.File)
		}
	}
	return ""
}
