package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		Mode         string        `mapstructure:"mode"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	Redis struct {
		URL      string `mapstructure:"url"`
		PoolSize int    `mapstructure:"pool_size"`
	} `mapstructure:"redis"`

	Auth struct {
		IdentityClaim      string   `mapstructure:"identity_claim"`
		RequiredClaims     []string `mapstructure:"required_claims"`
		AcceptedAlgorithms []string `mapstructure:"accepted_algorithms"`
		Key                struct {
			Algorithm string `mapstructure:"algorithm"`
			KeyID     string `mapstructure:"key_id"`
			PEM       string `mapstructure:"pem"`
			PEMFile   string `mapstructure:"pem_file"`
			JWKSURL   string `mapstructure:"jwks_url"`
		} `mapstructure:"key"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"auth"`

	Policy struct {
		Region    string `mapstructure:"region"`
		AccountID string `mapstructure:"account_id"`
	} `mapstructure:"policy"`

	Observability struct {
		TraceEnabled       bool   `mapstructure:"trace_enabled"`
		TracingEndpointURL string `mapstructure:"tracing_endpoint_url"`
		LogLevel           string `mapstructure:"log_level"`
		Format             string `mapstructure:"log_format"`
		LogSource          bool   `mapstructure:"log_source"`
	} `mapstructure:"observability"`
}

func MustLoad() *Config {
	v := viper.New()

	logger := slog.Default()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvPrefix("TOKEN_AUTHORIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("auth.identity_claim", "user_id")
	v.SetDefault("auth.accepted_algorithms", []string{"RS256"})
	v.SetDefault("auth.key.algorithm", "RS256")
	v.SetDefault("auth.cache_ttl", 5*time.Minute)

	if err := v.ReadInConfig(); err != nil {
		logger.Error("Failed to read config", slog.Any("error", err))
		os.Exit(1)
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		if err := v.MergeInConfig(); err != nil {
			logger.Info("No environment-specific config (optional)", slog.String("env", env))
		}
		logger.Info("Environment-specific config loaded", slog.String("env", env))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Error("Failed to unmarshal config", slog.Any("error", err))
		os.Exit(1)
	}

	return &cfg
}
