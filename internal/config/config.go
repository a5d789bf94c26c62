package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"urgentcast/internal/dataset"
	"urgentcast/internal/forecast"
)

// Config drives both the server and the batch CLI.
type Config struct {
	Port string `yaml:"port"`

	// Urgent earning categories; empty uses the domain defaults.
	UrgentCategories []string `yaml:"urgent_categories"`

	// Job-family partitions forecast independently.
	Partitions []forecast.Partition `yaml:"partitions"`

	// Training shift-date ranges to drop before fitting.
	Training forecast.Window `yaml:"training"`

	// Optional Postgres source for the input tables.
	Postgres dataset.PostgresConfig `yaml:"postgres"`

	ExceptionsTable      string `yaml:"exceptions_table"`
	ProductiveTable      string `yaml:"productive_table"`
	ProductivePredTable  string `yaml:"productive_pred_table"`
	ProductiveHoursField string `yaml:"productive_hours_field"`
}

// DefaultPartitions mirrors the job families the tool was built for.
var DefaultPartitions = []forecast.Partition{
	{JobFamily: "DC1000", ProductiveDesc: "Registered Nurse-DC1"},
	{JobFamily: "DC2A00", ProductiveDesc: "Registered Nurse-DC2A Sup"},
	{JobFamily: "DC2B00", ProductiveDesc: "Registered Nurse-DC2B"},
}

// Load reads YAML config from path (or CONFIG_PATH, or config.yaml), then
// applies env overrides. A missing file is fine; defaults fill the gaps.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	envOverride(&cfg.Port, "PORT")
	envOverride(&cfg.Postgres.Host, "POSTGRES_HOST")
	envOverrideInt(&cfg.Postgres.Port, "POSTGRES_PORT")
	envOverride(&cfg.Postgres.User, "POSTGRES_USER")
	envOverride(&cfg.Postgres.Password, "POSTGRES_PASSWORD")
	envOverride(&cfg.Postgres.DBName, "POSTGRES_DB")
	envOverride(&cfg.Postgres.SSLMode, "POSTGRES_SSLMODE")

	if cfg.Port == "" {
		cfg.Port = "8001"
	}
	if len(cfg.Partitions) == 0 {
		cfg.Partitions = DefaultPartitions
	}
	if cfg.ExceptionsTable == "" {
		cfg.ExceptionsTable = "exception_hours"
	}
	if cfg.ProductiveTable == "" {
		cfg.ProductiveTable = "productive_hours_train"
	}
	if cfg.ProductivePredTable == "" {
		cfg.ProductivePredTable = "productive_hours_pred"
	}
	if cfg.ProductiveHoursField == "" {
		cfg.ProductiveHoursField = "HOURS"
	}
	return cfg, nil
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}
