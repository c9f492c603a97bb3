package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/civicgive/compliance-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store      store.Config     `yaml:"store" mapstructure:"store"`
	Compliance ComplianceConfig `yaml:"compliance" mapstructure:"compliance"`
	Congress   CongressConfig   `yaml:"congress" mapstructure:"congress"`
	Mailer     MailerConfig     `yaml:"mailer" mapstructure:"mailer"`
	Notify     NotifyConfig     `yaml:"notify" mapstructure:"notify"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ComplianceConfig configures the limit calculator's data sources.
type ComplianceConfig struct {
	SnapshotPath   string `yaml:"snapshot_path" mapstructure:"snapshot_path"`
	TierPolicyPath string `yaml:"tier_policy_path" mapstructure:"tier_policy_path"`
}

// CongressConfig holds legislative-data API settings.
type CongressConfig struct {
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	APIKey          string  `yaml:"api_key" mapstructure:"api_key"`
	TimeoutSecs     int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec" mapstructure:"rate_limit_per_sec"`
}

// MailerConfig holds email API settings.
type MailerConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	From        string `yaml:"from" mapstructure:"from"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// NotifyConfig configures notification dispatch.
type NotifyConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	SendRetries int `yaml:"send_retries" mapstructure:"send_retries"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CIVIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("compliance.snapshot_path", "election_dates.json")
	v.SetDefault("congress.base_url", "https://api.congress.gov/v3")
	v.SetDefault("congress.timeout_secs", 15)
	v.SetDefault("congress.rate_limit_per_sec", 5)
	v.SetDefault("mailer.base_url", "https://api.resend.com")
	v.SetDefault("mailer.from", "notifications@civicgive.org")
	v.SetDefault("mailer.timeout_secs", 20)
	v.SetDefault("notify.concurrency", 5)
	v.SetDefault("notify.send_retries", 2)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
