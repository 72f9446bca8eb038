package ui

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// CHAT_COLOURS enables colorized section titles
	Colours bool `envconfig:"CHAT_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
