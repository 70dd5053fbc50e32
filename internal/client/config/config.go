package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the news client CLI.
type Config struct {
	APIBaseURL          string        `env:"API_BASE_URL"`
	MediaBaseURL        string        `env:"MEDIA_BASE_URL"`
	DataDir             string        `env:"DATA_DIR"`
	DownloadDir         string        `env:"DOWNLOAD_DIR"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	RedisAddr           string        `env:"REDIS_ADDR"`
	RedisPassword       string        `env:"REDIS_PASSWORD"`
	RedisDB             int           `env:"REDIS_DB"`
	LogLevel            string        `env:"LOG_LEVEL"`

	S3Region    string `env:"S3_REGION"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

// EnvPrefix is prepended to every variable name in the env tags.
const EnvPrefix = "NEWSCLIENT_"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.MediaBaseURL = ""
	c.DataDir = "~/.newsclient"
	c.DownloadDir = "."
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.LogLevel = "warn"
	c.S3Region = "us-east-1"
}

// DBPath is the local SQLite database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "newsclient.db")
}

// CookiePath is the cookie file backing the user record.
func (c *Config) CookiePath() string {
	return filepath.Join(c.DataDir, "cookies.txt")
}

// LoadConfig builds a Config from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, dotenv, environment, JSON and flags, in that order.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotenv(args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
