// Package config loads the service settings from the environment.
package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port        string `env:"PORT"          envDefault:"3000"`
	StoreDriver string `env:"STORE_DRIVER"  envDefault:"mongo"`

	MongoURI      string `env:"MONGO_URI"`
	MongoUser     string `env:"DB_USER"`
	MongoPassword string `env:"DB_PASS"`
	MongoHost     string `env:"MONGO_HOST"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"socialEventsDB"`

	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr string        `env:"REDIS_ADDR"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	DiscordToken     string `env:"DISCORD_TOKEN"`
	DiscordChannelID string `env:"DISCORD_CHANNEL_ID"`
	DisplayTimezone  string `env:"DISPLAY_TIMEZONE" envDefault:"UTC"`

	DefaultLocale      string   `env:"DEFAULT_LOCALE"       envDefault:"en"`
	LogLevel           string   `env:"LOG_LEVEL"            envDefault:"info"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the optional env files (".env" when none are given), then the
// process environment, and validates the result. Variables already set in the
// environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "config: reading %s", file)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "config: parsing environment")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MongoConnectionURI returns MONGO_URI, or the Atlas SRV URI built from the
// DB_USER, DB_PASS and MONGO_HOST parts.
func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.MongoUser, c.MongoPassword),
		Host:     c.MongoHost,
		Path:     "/",
		RawQuery: "appName=socialevents",
	}
	return u.String()
}

func (c *Config) CacheEnabled() bool { return c.RedisAddr != "" }

func (c *Config) AnnouncerEnabled() bool { return c.DiscordToken != "" }

func (c *Config) validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" && (c.MongoUser == "" || c.MongoPassword == "" || c.MongoHost == "") {
			return errors.New("config: MONGO_URI or DB_USER, DB_PASS and MONGO_HOST are required for the mongo driver")
		}
	case DriverPostgres:
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return errors.Wrapf(err, "config: invalid DATABASE_URL (%q)", c.DatabaseURL)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return errors.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
		}
	case DriverMemory:
	default:
		return errors.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.DiscordToken != "" {
		if strings.TrimSpace(c.DiscordChannelID) == "" {
			return errors.New("config: DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
		}
		for _, r := range c.DiscordChannelID {
			if r < '0' || r > '9' {
				return errors.New("config: DISCORD_CHANNEL_ID must be a Discord channel id (digits only)")
			}
		}
	}

	if c.CacheEnabled() && c.CacheTTL < time.Second {
		return errors.Errorf("config: CACHE_TTL must be at least 1s, got %s", c.CacheTTL)
	}
	if c.RequestTimeout <= 0 {
		return errors.Errorf("config: REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
