// Package config loads runtime settings for the service
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Fetch  FetchConfig
	Social SocialConfig
	Cache  CacheConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string // text, json or logfmt
}

type FetchConfig struct {
	MaxBodyBytes   int64
	PrimaryTimeout time.Duration
	ContactTimeout time.Duration
	SocialTimeout  time.Duration
}

type SocialConfig struct {
	MaxConcurrency int  // 0 means no cap
	RecencyUnit    bool // keep the time unit in generic recency hints
}

type CacheConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("fetch.max_body_bytes", 2*1024*1024)
	v.SetDefault("fetch.primary_timeout", FetchTiers[TierPrimary].Timeout)
	v.SetDefault("fetch.contact_timeout", FetchTiers[TierContact].Timeout)
	v.SetDefault("fetch.social_timeout", FetchTiers[TierSocial].Timeout)

	v.SetDefault("social.max_concurrency", 0)
	v.SetDefault("social.recency_unit", false)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 12*time.Hour)
}

// Load reads configuration from defaults, an optional file and SITEINTEL_* environment variables.
// An empty path looks for siteintel.yaml in the working directory and tolerates its absence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("siteintel")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("siteintel")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Fetch: FetchConfig{
			MaxBodyBytes:   v.GetInt64("fetch.max_body_bytes"),
			PrimaryTimeout: v.GetDuration("fetch.primary_timeout"),
			ContactTimeout: v.GetDuration("fetch.contact_timeout"),
			SocialTimeout:  v.GetDuration("fetch.social_timeout"),
		},
		Social: SocialConfig{
			MaxConcurrency: v.GetInt("social.max_concurrency"),
			RecencyUnit:    v.GetBool("social.recency_unit"),
		},
		Cache: CacheConfig{
			Enabled:  v.GetBool("cache.enabled"),
			Addr:     v.GetString("cache.addr"),
			Password: v.GetString("cache.password"),
			DB:       v.GetInt("cache.db"),
			TTL:      v.GetDuration("cache.ttl"),
		},
	}

	if cfg.Social.MaxConcurrency < 0 {
		return nil, fmt.Errorf("social.max_concurrency must not be negative, got %d", cfg.Social.MaxConcurrency)
	}

	return cfg, nil
}
