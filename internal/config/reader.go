package config

import (
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	// Both base URLs get joined with request paths, so a trailing
	// slash would produce double-slash URLs.
	cfg.OpenAI.BaseURL = strings.TrimSuffix(cfg.OpenAI.BaseURL, "/")
	cfg.Client.BaseURL = strings.TrimSuffix(cfg.Client.BaseURL, "/")

	return cfg, nil
}
