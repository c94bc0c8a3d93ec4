package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Reporting struct {
	Sentry *Sentry `yaml:"sentry"`
}

type Sentry struct {
	DSN string `yaml:"dsn"`
}

type Settings struct {
	MySQL      *MySQL      `yaml:"mysql,omitempty"`
	PostgreSQL *PostgreSQL `yaml:"postgresql,omitempty"`
	Reporting  *Reporting  `yaml:"reporting,omitempty"`
}

func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("config is nil")
	}

	if s.MySQL == nil && s.PostgreSQL == nil {
		return fmt.Errorf("at least one of mysql or postgresql must be configured")
	}

	if s.MySQL != nil {
		if err := s.MySQL.Validate(); err != nil {
			return fmt.Errorf("mysql validation failed: %w", err)
		}
	}

	if s.PostgreSQL != nil {
		if err := s.PostgreSQL.Validate(); err != nil {
			return fmt.Errorf("postgresql validation failed: %w", err)
		}
	}

	return nil
}

func ReadConfig(fp string) (*Settings, error) {
	bytes, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var settings Settings
	if err = yaml.Unmarshal(bytes, &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	if err = settings.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config file: %w", err)
	}

	return &settings, nil
}
