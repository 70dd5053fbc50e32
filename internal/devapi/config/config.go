// Package config handles configuration for the development upstream:
// defaults, then NEWSCLIENT_DEVAPI_* environment variables, then flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the development API server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP server.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside development.
//   - AccessTokenTTL: lifetime of issued access tokens.
//   - OTPTTL: lifetime of one-time codes.
//   - Admins / Reporters: emails granted those roles; everyone else is an end user.
//   - AuthShape: response shape of the code verification endpoint
//     ("flat", "data", "nested", "user" or "rotate").
//   - SeedDays: number of daily e-paper editions generated at start-up.
type Config struct {
	ListenAddr     string        `env:"LISTEN_ADDR"`
	SecretKey      string        `env:"SECRET"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL"`
	OTPTTL         time.Duration `env:"OTP_TTL"`
	Admins         []string      `env:"ADMINS" envSeparator:","`
	Reporters      []string      `env:"REPORTERS" envSeparator:","`
	AuthShape      string        `env:"AUTH_SHAPE"`
	SeedDays       int           `env:"SEED_DAYS"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

const EnvPrefix = "NEWSCLIENT_DEVAPI_"

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.SecretKey = "dev-secret"
	c.AccessTokenTTL = time.Hour
	c.OTPTTL = 10 * time.Minute
	c.Admins = []string{"admin@example.com"}
	c.Reporters = []string{"reporter@example.com"}
	c.AuthShape = "rotate"
	c.SeedDays = 7
	c.LogLevel = "info"
}

func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds a Config from defaults, the environment and args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
