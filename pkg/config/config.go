// Package config builds the typed application configuration from a config
// file, environment variables and CLI flags. All defaulting and validation
// happens here, once, at the boundary; nothing downstream re-checks fields.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/amielsh/centsible/pkg/flow"
)

// Report holds the cash-flow report settings.
type Report struct {
	Window    string   `mapstructure:"window"`
	Dimension string   `mapstructure:"dimension"`
	MaxGroups int      `mapstructure:"max_groups"`
	Accounts  []string `mapstructure:"accounts"`
}

// Config is the full application configuration.
type Config struct {
	DBPath        string `mapstructure:"db_path"`
	CategoryRules string `mapstructure:"category_rules"`
	ListenAddr    string `mapstructure:"listen_addr"`
	Report        Report `mapstructure:"report"`
}

var (
	validWindows    = map[string]bool{"30d": true, "90d": true, "6m": true, "12m": true, "all": true}
	validDimensions = map[string]bool{"category": true, "account": true, "description": true}
)

// Build loads configuration in precedence order: defaults, config file,
// CENTSIBLE_* environment variables, then flags. A missing default config
// file is fine; a missing explicit one is not.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("db_path", "centsible.db")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("report.window", "all")
	v.SetDefault("report.dimension", "category")
	v.SetDefault("report.max_groups", 5)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CENTSIBLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		bindFlag(v, flags, "report.window", "window")
		bindFlag(v, flags, "report.dimension", "dimension")
		bindFlag(v, flags, "report.max_groups", "max-groups")
		bindFlag(v, flags, "report.accounts", "accounts")
		bindFlag(v, flags, "db_path", "db")
		bindFlag(v, flags, "category_rules", "rules")
		bindFlag(v, flags, "listen_addr", "addr")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, name string) {
	if f := flags.Lookup(name); f != nil {
		v.BindPFlag(key, f)
	}
}

// Validate checks the enumerated fields. It runs once in Build; callers can
// rely on a returned Config being well-formed.
func (c *Config) Validate() error {
	if !validWindows[c.Report.Window] {
		return fmt.Errorf("invalid report window %q (want 30d, 90d, 6m, 12m or all)", c.Report.Window)
	}
	if !validDimensions[c.Report.Dimension] {
		return fmt.Errorf("invalid report dimension %q (want category, account or description)", c.Report.Dimension)
	}
	if c.Report.MaxGroups < 1 {
		return fmt.Errorf("report max_groups must be at least 1, got %d", c.Report.MaxGroups)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	return nil
}

// FlowOptions converts the report settings into aggregator options.
func (c *Config) FlowOptions() flow.Options {
	return flow.Options{
		Window:     flow.Window(c.Report.Window),
		Dimension:  flow.Dimension(c.Report.Dimension),
		MaxGroups:  c.Report.MaxGroups,
		AccountIDs: c.Report.Accounts,
	}
}
