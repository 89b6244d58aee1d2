package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aussiebroadwan/khpl/pkg/httpx"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	InvitationRetention  time.Duration // How long finished invitations are kept (default: 30 days)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite database file (default: ./khpl.db)
	DatabaseURL    string // Postgres DSN, required for the postgres driver
	PepperFile     string // File holding the password pepper (default: ./pepper)

	JWTSecretKey   string        // HS256 secret, at least 32 bytes. Generated per process when empty.
	JWTIssuer      string        // iss claim (default: khpl)
	AccessTokenTTL time.Duration // Access token lifetime (default: 30m)
	InvitationTTL  time.Duration // Invitation lifetime (default: 7 days)
	PublicBaseURL  string        // Prefix for invite links. Empty yields relative links.

	OwnerName     string // Seeded owner name (default: Owner)
	OwnerEmail    string
	OwnerPhone    string // Owner seeding is skipped when empty
	OwnerPassword string // Generated and logged when empty

	RedisURL      string        // Enables the downline cache when set
	StatsCacheTTL time.Duration // Downline cache entry lifetime (default: 5m)

	OTLPEndpoint string   // Enables tracing when set
	CORSOrigins  []string // Allowed CORS origins, "*" for any (default: *)

	RateLimits RateLimits
}

// RateLimits overrides the httpx tiers. Zero fields keep the defaults.
type RateLimits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
}

var errUnknownDriver = errors.New("unknown database driver")

// configPaths are searched in order for config.yaml.
var configPaths = []string{".", "/etc/khpl"}

func newViper(paths ...string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("port", 8080)
	v.SetDefault("shutdown_grace_period", 10*time.Second)
	v.SetDefault("housekeeping_interval", time.Hour)
	v.SetDefault("invitation_retention", 30*24*time.Hour)
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_file", "khpl.db")
	v.SetDefault("pepper_file", "pepper")
	v.SetDefault("jwt_issuer", "khpl")
	v.SetDefault("access_token_ttl", 30*time.Minute)
	v.SetDefault("invitation_ttl", 7*24*time.Hour)
	v.SetDefault("owner_name", "Owner")
	v.SetDefault("stats_cache_ttl", 5*time.Minute)
	v.SetDefault("cors_origins", "*")
	return v
}

// LoadConfig reads an optional config.yaml from . or /etc/khpl, then the
// environment. Environment variables win.
func LoadConfig() (Config, error) {
	return loadConfig(configPaths...)
}

func loadConfig(paths ...string) (Config, error) {
	v := newViper(paths...)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:                  v.GetString("env"),
		LogLevel:             v.GetString("log_level"),
		LogFormat:            v.GetString("log_format"),
		Port:                 v.GetInt("port"),
		ShutdownGracePeriod:  v.GetDuration("shutdown_grace_period"),
		HousekeepingInterval: v.GetDuration("housekeeping_interval"),
		InvitationRetention:  v.GetDuration("invitation_retention"),
		DatabaseDriver:       strings.ToLower(v.GetString("database_driver")),
		DatabaseFile:         v.GetString("database_file"),
		DatabaseURL:          v.GetString("database_url"),
		PepperFile:           v.GetString("pepper_file"),
		JWTSecretKey:         v.GetString("jwt_secret_key"),
		JWTIssuer:            v.GetString("jwt_issuer"),
		AccessTokenTTL:       v.GetDuration("access_token_ttl"),
		InvitationTTL:        v.GetDuration("invitation_ttl"),
		PublicBaseURL:        v.GetString("public_base_url"),
		OwnerName:            v.GetString("owner_name"),
		OwnerEmail:           v.GetString("owner_email"),
		OwnerPhone:           v.GetString("owner_phone"),
		OwnerPassword:        v.GetString("owner_password"),
		RedisURL:             v.GetString("redis_url"),
		StatsCacheTTL:        v.GetDuration("stats_cache_ttl"),
		OTLPEndpoint:         v.GetString("otel_exporter_otlp_endpoint"),
		CORSOrigins:          splitList(v.GetString("cors_origins")),
		RateLimits: RateLimits{
			Strict:   rateLimit(v, "strict"),
			Moderate: rateLimit(v, "moderate"),
			Lenient:  rateLimit(v, "lenient"),
		},
	}

	switch cfg.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", errUnknownDriver, cfg.DatabaseDriver)
	}

	if cfg.JWTSecretKey != "" && len(cfg.JWTSecretKey) < 32 {
		return Config{}, errors.New("JWT_SECRET_KEY must be at least 32 bytes")
	}
	return cfg, nil
}

// rateLimit reads RATELIMIT_<TIER>_REQUESTS, _WINDOW_SEC and _BURST. A tier
// with only requests set uses a one minute window and a burst equal to the
// request count.
func rateLimit(v *viper.Viper, tier string) httpx.RateLimitConfig {
	prefix := "ratelimit." + tier + "."
	c := httpx.RateLimitConfig{
		RequestsPerWindow: v.GetInt(prefix + "requests"),
		Window:            time.Duration(v.GetInt(prefix+"window_sec")) * time.Second,
		Burst:             v.GetInt(prefix + "burst"),
	}
	if c.RequestsPerWindow > 0 {
		if c.Window <= 0 {
			c.Window = time.Minute
		}
		if c.Burst <= 0 {
			c.Burst = c.RequestsPerWindow
		}
	}
	return c
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
