package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"rebate-engine/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Reporting   ReportingConfig   `json:"reporting"`
	Calculation CalculationConfig `json:"calculation"`
	Database    DatabaseConfig    `json:"database"`
	LogLevel    string            `json:"log_level"`
}

// ReportingConfig is the reporting period label. Period selects the rate table slot;
// year and month are stored with the run and otherwise not interpreted.
type ReportingConfig struct {
	Period string `json:"period"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
}

// CalculationConfig tunes a calculation run.
type CalculationConfig struct {
	DefaultLevel    int            `json:"default_level"`
	ProviderLevels  map[string]int `json:"provider_levels"`
	Workers         int            `json:"workers"`
	EmitZeroRebates bool           `json:"emit_zero_rebates"`
}

// DatabaseConfig holds persistence configuration. An empty path disables persistence.
type DatabaseConfig struct {
	Path string `json:"path"`
}

// Load builds the configuration from defaults, an optional JSON file and environment variables.
// Environment variables take precedence over config file values.
func Load(configFile string) (*Config, error) {
	cfg := &Config{
		Reporting: ReportingConfig{
			Period: getEnv("REBATE_PERIOD", string(domain.PeriodMonthly)),
			Year:   getEnvInt("REBATE_YEAR", 0),
			Month:  getEnvInt("REBATE_MONTH", 0),
		},
		Calculation: CalculationConfig{
			DefaultLevel:    getEnvInt("REBATE_DEFAULT_LEVEL", 1),
			Workers:         getEnvInt("REBATE_WORKERS", 1),
			EmitZeroRebates: getEnvBool("REBATE_EMIT_ZERO", false),
		},
		Database: DatabaseConfig{
			Path: getEnv("REBATE_DB_PATH", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	overrideFromEnv(cfg)

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func overrideFromEnv(cfg *Config) {
	if period := os.Getenv("REBATE_PERIOD"); period != "" {
		cfg.Reporting.Period = period
	}
	if year := os.Getenv("REBATE_YEAR"); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			cfg.Reporting.Year = y
		}
	}
	if month := os.Getenv("REBATE_MONTH"); month != "" {
		if m, err := strconv.Atoi(month); err == nil {
			cfg.Reporting.Month = m
		}
	}
	if level := os.Getenv("REBATE_DEFAULT_LEVEL"); level != "" {
		if l, err := strconv.Atoi(level); err == nil {
			cfg.Calculation.DefaultLevel = l
		}
	}
	if workers := os.Getenv("REBATE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			cfg.Calculation.Workers = w
		}
	}
	if emit := os.Getenv("REBATE_EMIT_ZERO"); emit != "" {
		cfg.Calculation.EmitZeroRebates = emit == "true" || emit == "1"
	}
	if path := os.Getenv("REBATE_DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
}

// RatePeriod returns the parsed reporting period.
func (c *Config) RatePeriod() (domain.RatePeriod, error) {
	return domain.ParseRatePeriod(c.Reporting.Period)
}

// Validate validates the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := c.RatePeriod(); err != nil {
		return err
	}
	if c.Reporting.Month < 0 || c.Reporting.Month > 12 {
		return fmt.Errorf("reporting month must be between 1 and 12")
	}
	if c.Calculation.DefaultLevel < 1 || c.Calculation.DefaultLevel > domain.MaxRebateLevel {
		return fmt.Errorf("default level must be between 1 and %d", domain.MaxRebateLevel)
	}
	for provider, level := range c.Calculation.ProviderLevels {
		if level < 1 || level > domain.MaxRebateLevel {
			return fmt.Errorf("level for provider %s must be between 1 and %d", provider, domain.MaxRebateLevel)
		}
	}
	if c.Calculation.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
