// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/survey"
)

// Config holds all application configuration.
type Config struct {
	Port             string
	FrontendURL      string
	Store            StoreConfig
	RemoteEndpoint   string // empty disables remote delivery
	Wheel            WheelConfig
	SessionTTL       time.Duration
	SubmitRatePerMin int
	StimuliFile      string
	Labels           [domain.SlotCount]string
}

// StoreConfig selects and locates the response store.
type StoreConfig struct {
	Driver string // "sqlite" or "file"
	Path   string // database file for sqlite, directory for file
	Key    string
}

// WheelConfig sizes the picker wheel and the aggregate plot.
type WheelConfig struct {
	Size     int
	PlotSize int
	Margin   float64
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", ""),
		Store:          StoreFromEnv(),
		RemoteEndpoint: getEnv("REMOTE_ENDPOINT", ""),
		Wheel: WheelConfig{
			Size:     getEnvInt("WHEEL_SIZE", 320),
			PlotSize: getEnvInt("PLOT_SIZE", 360),
			Margin:   float64(getEnvInt("WHEEL_MARGIN", 8)),
		},
		SessionTTL:       getEnvDuration("SESSION_TTL", 60*time.Minute),
		SubmitRatePerMin: getEnvInt("SUBMIT_RATE_PER_MIN", 6),
		StimuliFile:      getEnv("STIMULI_FILE", ""),
		Labels:           survey.DefaultLabels,
	}

	if cfg.StimuliFile != "" {
		labels, err := LoadStimuli(cfg.StimuliFile)
		if err != nil {
			return nil, fmt.Errorf("load stimuli: %w", err)
		}
		cfg.Labels = labels
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// StoreFromEnv reads only the store settings. The CLI uses it to find the
// same collection as the server.
func StoreFromEnv() StoreConfig {
	return StoreConfig{
		Driver: getEnv("STORE_DRIVER", "sqlite"),
		Path:   getEnv("DB_PATH", "./data/odorcolor.db"),
		Key:    getEnv("STORE_KEY", "odorColorResponses"),
	}
}

// LabelsFromEnv returns the stimulus labels from STIMULI_FILE, or the defaults.
func LabelsFromEnv() ([domain.SlotCount]string, error) {
	path := getEnv("STIMULI_FILE", "")
	if path == "" {
		return survey.DefaultLabels, nil
	}
	return LoadStimuli(path)
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Store.Driver != "sqlite" && c.Store.Driver != "file" {
		return fmt.Errorf("STORE_DRIVER must be sqlite or file, got %q", c.Store.Driver)
	}
	if c.Store.Key == "" {
		return fmt.Errorf("STORE_KEY cannot be empty")
	}
	if c.Wheel.Margin < 0 {
		return fmt.Errorf("WHEEL_MARGIN must be >= 0")
	}
	if float64(c.Wheel.Size) <= 2*c.Wheel.Margin || float64(c.Wheel.PlotSize) <= 2*c.Wheel.Margin {
		return fmt.Errorf("WHEEL_SIZE and PLOT_SIZE must exceed twice WHEEL_MARGIN")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.SubmitRatePerMin <= 0 {
		return fmt.Errorf("SUBMIT_RATE_PER_MIN must be > 0")
	}
	return nil
}

// AllowedOrigins lists the CORS origins: the configured frontend, or any
// origin when none is set. Credentials are only granted to an explicit origin.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" {
		return []string{"*"}
	}
	return []string{strings.TrimRight(c.FrontendURL, "/")}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
