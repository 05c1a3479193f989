package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
	// AllowedOrigins restricts CORS; empty means allow any origin.
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

// SearchConfig tunes the plate search engine. Zero values fall back to the
// engine defaults.
type SearchConfig struct {
	CacheTTL          time.Duration
	DefaultThreshold  float64
	DefaultMaxResults int
	SuggestionLimit   int
}

// BillingConfig holds the checkout fee schedule. Rates are per started hour,
// keyed by vehicle type.
type BillingConfig struct {
	Rates      map[string]float64
	MinimumFee float64
}

// HourlyRate returns the rate for a vehicle type, falling back to the CAR
// rate for unknown types.
func (b BillingConfig) HourlyRate(vehicleType string) float64 {
	if rate, ok := b.Rates[vehicleType]; ok {
		return rate
	}
	return b.Rates["CAR"]
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Search      SearchConfig
	Billing     BillingConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: splitList(v.GetString("HTTP_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Search: SearchConfig{
			CacheTTL:          v.GetDuration("SEARCH_CACHE_TTL"),
			DefaultThreshold:  v.GetFloat64("SEARCH_DEFAULT_THRESHOLD"),
			DefaultMaxResults: v.GetInt("SEARCH_DEFAULT_MAX_RESULTS"),
			SuggestionLimit:   v.GetInt("SEARCH_SUGGESTION_LIMIT"),
		},
		Billing: BillingConfig{
			Rates: map[string]float64{
				"CAR":        v.GetFloat64("BILLING_RATE_CAR"),
				"MOTORCYCLE": v.GetFloat64("BILLING_RATE_MOTORCYCLE"),
				"TRUCK":      v.GetFloat64("BILLING_RATE_TRUCK"),
				"EV":         v.GetFloat64("BILLING_RATE_EV"),
			},
			MinimumFee: v.GetFloat64("BILLING_MINIMUM_FEE"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Search.CacheTTL == 0 {
		cfg.Search.CacheTTL = 30 * time.Second
	}
	if cfg.Search.DefaultThreshold == 0 {
		cfg.Search.DefaultThreshold = 0.6
	}
	if cfg.Search.DefaultMaxResults == 0 {
		cfg.Search.DefaultMaxResults = 20
	}
	if cfg.Search.SuggestionLimit == 0 {
		cfg.Search.SuggestionLimit = 10
	}
	if cfg.Billing.Rates["CAR"] == 0 {
		cfg.Billing.Rates["CAR"] = 2.5
	}
	if cfg.Billing.Rates["MOTORCYCLE"] == 0 {
		cfg.Billing.Rates["MOTORCYCLE"] = 1.5
	}
	if cfg.Billing.Rates["TRUCK"] == 0 {
		cfg.Billing.Rates["TRUCK"] = 4.0
	}
	if cfg.Billing.Rates["EV"] == 0 {
		cfg.Billing.Rates["EV"] = 2.5
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Search.DefaultThreshold < 0 || cfg.Search.DefaultThreshold > 1 {
		return fmt.Errorf("SEARCH_DEFAULT_THRESHOLD must be between 0 and 1")
	}
	if cfg.Search.DefaultMaxResults < 1 || cfg.Search.DefaultMaxResults > 100 {
		return fmt.Errorf("SEARCH_DEFAULT_MAX_RESULTS must be between 1 and 100")
	}
	return nil
}
