// Package config loads runtime configuration for the news client CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional dotenv file: ./.env, or the file given with -e or -env.
//     Values already present in the environment are not overridden.
//  3. Environment variables prefixed with NEWSCLIENT_ (see the env tags).
//  4. Optional JSON file selected via -c or -config.
//  5. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-m string   media base URL (http(s)://... or s3://bucket/prefix)
//	-d string   data directory for the local database and cookie file
//	-o string   directory downloaded pages are saved to
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-r string   Redis address for the shared session store (empty disables it)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations may be strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://news.example.com/api",
//	  "media_base_url": "s3://epaper/pages",
//	  "request_timeout": "10s",
//	  "online_check_interval": "5s",
//	  "redis_addr": "127.0.0.1:6379"
//	}
package config
