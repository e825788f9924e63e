// Package config loads the tracker's yaml configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TickRateHz   int    `yaml:"tick_rate_hz"`
	Listen       string `yaml:"listen"`
	CompanionURL string `yaml:"companion_url"`
	Sender       string `yaml:"sender"`
	DataDir      string `yaml:"data_dir"`

	AutoNav   bool `yaml:"auto_nav"`
	Journal   bool `yaml:"journal"`
	DisableDB bool `yaml:"disable_db"`
}

func Defaults() Config {
	return Config{
		TickRateHz:   5,
		Listen:       "127.0.0.1:8377",
		CompanionURL: "ws://127.0.0.1:8080",
		Sender:       "ChatTriggers",
		DataDir:      "./data",
		Journal:      true,
	}
}

// Load reads path and fills unset fields from Defaults. A missing
// file is an error; callers that tolerate one should check with
// os.IsNotExist and fall back to Defaults themselves.
func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = Defaults().TickRateHz
	}
	if c.Sender == "" {
		c.Sender = Defaults().Sender
	}
	return c, nil
}
