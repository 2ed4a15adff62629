package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cursorkeep/distance"
	"cursorkeep/format"
	"cursorkeep/types"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// configEnv holds a JSON config blob, the way the editor plugin passes
// settings when it spawns the client.
const configEnv = "CURSORKEEP_CONFIG"

type Config struct {
	Strategy               string `mapstructure:"strategy" json:"strategy"`
	Operation              string `mapstructure:"operation" json:"operation"`
	Metric                 string `mapstructure:"metric" json:"metric"`
	PreferRight            bool   `mapstructure:"prefer_right" json:"prefer_right"`
	TextChangeDebounce     int    `mapstructure:"text_change_debounce" json:"text_change_debounce"` // in milliseconds
	DebugImmediateShutdown bool   `mapstructure:"debug_immediate_shutdown" json:"debug_immediate_shutdown"`
	LogLevel               string `mapstructure:"log_level" json:"log_level"`       // trace, debug, info, warn, error
	MetricsAddr            string `mapstructure:"metrics_addr" json:"metrics_addr"` // empty disables /metrics
}

func defaultConfig() Config {
	return Config{
		Strategy:           string(types.StrategyTypeBuffer),
		Operation:          format.OpCommatize.String(),
		Metric:             distance.NameBalanceFrequencies,
		TextChangeDebounce: 50,
		LogLevel:           "info",
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("operation", d.Operation)
	v.SetDefault("metric", d.Metric)
	v.SetDefault("prefer_right", d.PreferRight)
	v.SetDefault("text_change_debounce", d.TextChangeDebounce)
	v.SetDefault("debug_immediate_shutdown", d.DebugImmediateShutdown)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("metrics_addr", d.MetricsAddr)
}

// loadConfig layers, lowest first: defaults, the YAML config file, the
// JSON blob in CURSORKEEP_CONFIG, CURSORKEEP_* variables and bound flags.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "cursorkeep"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config file")
		}
	}

	if blob := strings.TrimSpace(os.Getenv(configEnv)); blob != "" {
		var settings map[string]any
		if err := json.Unmarshal([]byte(blob), &settings); err != nil {
			return Config{}, errors.Wrapf(err, "invalid %s", configEnv)
		}
		if err := v.MergeConfigMap(settings); err != nil {
			return Config{}, errors.Wrapf(err, "merge %s", configEnv)
		}
	}

	v.SetEnvPrefix("cursorkeep")
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	return config, nil
}

// formatterSettings validates the strategy part of the config.
func (c Config) formatterSettings() (types.StrategyType, format.Operation, *types.StrategyConfig, error) {
	kind, err := types.ParseStrategyType(c.Strategy)
	if err != nil {
		return "", 0, nil, errors.Wrapf(err, "strategy %q", c.Strategy)
	}
	op, err := format.ParseOperation(c.Operation)
	if err != nil {
		return "", 0, nil, errors.Wrapf(err, "operation %q", c.Operation)
	}
	return kind, op, &types.StrategyConfig{Metric: c.Metric, PreferRight: c.PreferRight}, nil
}

func (c Config) debounce() time.Duration {
	return time.Duration(c.TextChangeDebounce) * time.Millisecond
}
