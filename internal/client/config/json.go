package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/newsclient/internal/flagx"
	"github.com/dmitrijs2005/newsclient/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Fields left
// out of the file keep their earlier values.
type JsonConfig struct {
	APIBaseURL          string          `json:"api_base_url"`
	MediaBaseURL        string          `json:"media_base_url"`
	DataDir             string          `json:"data_dir"`
	DownloadDir         string          `json:"download_dir"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	RedisAddr           string          `json:"redis_addr"`
	RedisPassword       string          `json:"redis_password"`
	RedisDB             *int            `json:"redis_db"`
	LogLevel            string          `json:"log_level"`
	S3Region            string          `json:"s3_region"`
	S3Endpoint          string          `json:"s3_endpoint"`
	S3AccessKey         string          `json:"s3_access_key"`
	S3SecretKey         string          `json:"s3_secret_key"`
}

// parseJson overlays Config with values from the file named by -c/-config.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.MediaBaseURL, jc.MediaBaseURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.DownloadDir, jc.DownloadDir)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPassword, jc.RedisPassword)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
