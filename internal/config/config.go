// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	APIKey     string        `yaml:"api_key"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// WaveConfig carries the Wave Money credentials and endpoints. Secret and
// merchant id are deployment configuration: they rotate, and preprod vs
// production use different values.
type WaveConfig struct {
	MerchantID      string        `yaml:"merchant_id"`
	SecretKey       string        `yaml:"secret_key"`
	MerchantName    string        `yaml:"merchant_name"`
	Environment     string        `yaml:"environment"` // preprod | production
	PaymentURL      string        `yaml:"payment_url"`
	AuthenticateURL string        `yaml:"authenticate_url"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

const (
	wavePaymentURLPreprod      = "https://preprodpayments.wavemoney.io:8107/payment"
	waveAuthenticateURLPreprod = "https://preprodpayments.wavemoney.io:8107/authenticate"
	wavePaymentURLProd         = "https://payments.wavemoney.io:8107/payment"
	waveAuthenticateURLProd    = "https://payments.wavemoney.io:8107/authenticate"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Wave     WaveConfig     `yaml:"wave"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8001
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Wave.MerchantName == "" {
		cfg.Wave.MerchantName = "eSIM Myanmar"
	}
	if cfg.Wave.Environment == "" {
		cfg.Wave.Environment = "preprod"
	}
	if cfg.Wave.RequestTimeout <= 0 {
		cfg.Wave.RequestTimeout = 15 * time.Second
	}
	switch cfg.Wave.Environment {
	case "preprod":
		if cfg.Wave.PaymentURL == "" {
			cfg.Wave.PaymentURL = wavePaymentURLPreprod
		}
		if cfg.Wave.AuthenticateURL == "" {
			cfg.Wave.AuthenticateURL = waveAuthenticateURLPreprod
		}
	case "production":
		if cfg.Wave.PaymentURL == "" {
			cfg.Wave.PaymentURL = wavePaymentURLProd
		}
		if cfg.Wave.AuthenticateURL == "" {
			cfg.Wave.AuthenticateURL = waveAuthenticateURLProd
		}
	default:
		return nil, fmt.Errorf("wave.environment must be preprod or production, got %q", cfg.Wave.Environment)
	}

	// Minimal validation
	if cfg.Wave.MerchantID == "" {
		return nil, errors.New("wave.merchant_id is required")
	}
	if cfg.Wave.SecretKey == "" {
		return nil, errors.New("wave.secret_key is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
