// Package config provides hierarchical application configuration (viper) and
// request/rules file loading (yaml.v3).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DevAPIKey is the placeholder key; when configured, API key checks are skipped
const DevAPIKey = "dev-key-change-me"

// ValidationError reports a configuration or input value that failed validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AppConfig represents the complete application configuration
type AppConfig struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Server struct {
		Host   string `mapstructure:"host" yaml:"host"`
		Port   int    `mapstructure:"port" yaml:"port"`
		APIKey string `mapstructure:"api_key" yaml:"-"`
	} `mapstructure:"server" yaml:"server"`

	Engine struct {
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"engine" yaml:"engine"`

	// Rules is resolved from defaults, an optional rules file and rules.* overrides
	Rules domain.Rules `mapstructure:"-" yaml:"-"`
}

// LoadOptions controls where LoadAppConfig looks for its inputs
type LoadOptions struct {
	// ConfigFile is an explicit config path; empty means search the default locations
	ConfigFile string
	// EnvFile is the dotenv file to load first; empty means ".env"
	EnvFile string
}

// Addr returns the host:port the HTTP server listens on
func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DevMode reports whether the API key is still the placeholder value
func (c *AppConfig) DevMode() bool {
	return c.Server.APIKey == DevAPIKey
}

// LoadAppConfig loads configuration with the precedence
// defaults < config file < environment (.env values included).
func LoadAppConfig(opts LoadOptions) (*AppConfig, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("roundup")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.roundup")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ROUNDUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names kept for deployments that only set API_KEY/PORT/HOST.
	for key, env := range map[string]string{
		"server.api_key": "API_KEY",
		"server.port":    "PORT",
		"server.host":    "HOST",
	} {
		if err := v.BindEnv(key, "ROUNDUP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	rules, err := resolveRules(v)
	if err != nil {
		return nil, err
	}
	cfg.Rules = rules

	if err := validateAppConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5477)
	v.SetDefault("server.api_key", DevAPIKey)

	v.SetDefault("engine.workers", 4)
}

var decimalRuleKeys = []string{
	"ceiling_multiple",
	"nps_rate",
	"index_rate",
	"nps_max_deduction",
	"nps_income_percent_limit",
}

// resolveRules starts from the defaults, overlays rules.file and then the
// individual rules.* keys that were set. rules.* keys have no viper defaults
// so IsSet only reports values that came from a file or the environment.
func resolveRules(v *viper.Viper) (domain.Rules, error) {
	rules := domain.DefaultRules()
	if path := v.GetString("rules.file"); path != "" {
		loaded, err := LoadRules(path)
		if err != nil {
			return domain.Rules{}, err
		}
		rules = *loaded
	}

	targets := map[string]*decimal.Decimal{
		"ceiling_multiple":         &rules.CeilingMultiple,
		"nps_rate":                 &rules.NPSRate,
		"index_rate":               &rules.IndexRate,
		"nps_max_deduction":        &rules.NPSMaxDeduction,
		"nps_income_percent_limit": &rules.NPSIncomePercentLimit,
	}
	for _, key := range decimalRuleKeys {
		raw := strings.TrimSpace(v.GetString("rules." + key))
		if raw == "" {
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Rules{}, &ValidationError{Field: "rules." + key, Message: fmt.Sprintf("not a number: %q", raw)}
		}
		*targets[key] = value
	}

	if v.IsSet("rules.retirement_age") {
		rules.RetirementAge = v.GetInt("rules.retirement_age")
	}
	if v.IsSet("rules.min_investment_years") {
		rules.MinInvestmentYears = v.GetInt("rules.min_investment_years")
	}

	if err := rules.Validate(); err != nil {
		return domain.Rules{}, &ValidationError{Field: "rules", Message: err.Error()}
	}
	return rules, nil
}

func validateAppConfig(cfg *AppConfig) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("invalid log level %q", cfg.Log.Level)}
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("must be 'text' or 'json', got %q", cfg.Log.Format)}
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return &ValidationError{Field: "server.port", Message: fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Server.Port)}
	}
	if strings.TrimSpace(cfg.Server.APIKey) == "" {
		return &ValidationError{Field: "server.api_key", Message: "must not be empty"}
	}
	if cfg.Engine.Workers < 1 || cfg.Engine.Workers > 256 {
		return &ValidationError{Field: "engine.workers", Message: fmt.Sprintf("must be between 1 and 256, got %d", cfg.Engine.Workers)}
	}
	return nil
}
