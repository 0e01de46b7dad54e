package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type PlayerConfig struct {
	Name     string `mapstructure:"name"`
	Color    string `mapstructure:"color"`
	Strategy string `mapstructure:"strategy"`
}

type Config struct {
	Seed       uint64         `mapstructure:"seed"`
	MaxRounds  int            `mapstructure:"max_rounds"`
	Games      int            `mapstructure:"games"`
	Render     bool           `mapstructure:"render"`
	LogLevel   string         `mapstructure:"log_level"`
	MetricsDir string         `mapstructure:"metrics_dir"`
	Players    []PlayerConfig `mapstructure:"players"`
}

// loadConfig reads the YAML config file when present and falls back to
// defaults otherwise.
func loadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("seed", 0)
	v.SetDefault("max_rounds", 10000)
	v.SetDefault("games", 1)
	v.SetDefault("render", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_dir", "metrics")

	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.Players) == 0 {
		cfg.Players = defaultRoster()
	}
	if n := len(cfg.Players); n < 2 || n > 6 {
		return Config{}, fmt.Errorf("number of players must be between 2 and 6, got %d", n)
	}
	return cfg, nil
}

// defaultRoster is the classic six-leader lineup.
func defaultRoster() []PlayerConfig {
	return []PlayerConfig{
		{Name: "Napoleon Bonaparte", Color: "red", Strategy: "aggressive"},
		{Name: "Genghis Khan", Color: "yellow", Strategy: "opportunistic"},
		{Name: "Alexander the Great", Color: "purple", Strategy: "aggressive"},
		{Name: "Sun Tzu", Color: "green", Strategy: "balanced"},
		{Name: "Hannibal Barca", Color: "blue", Strategy: "opportunistic"},
		{Name: "Queen Elizabeth I", Color: "orange", Strategy: "defensive"},
	}
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
