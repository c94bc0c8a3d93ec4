package config

import (
	"fmt"
	"math"
	"net/url"

	"github.com/artie-labs/transfer/lib/stringutil"
)

type PostgreSQL struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	DisableSSL bool   `yaml:"disableSSL"`
}

func (p *PostgreSQL) ToDSN() string {
	query := url.Values{}
	if p.DisableSSL {
		query.Add("sslmode", "disable")
	}

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.Username, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: query.Encode(),
	}

	return u.String()
}

func (p *PostgreSQL) Validate() error {
	if p == nil {
		return fmt.Errorf("the PostgreSQL config is nil")
	}

	if stringutil.Empty(p.Host, p.Username, p.Password, p.Database) {
		return fmt.Errorf("one of the PostgreSQL settings is empty: host, username, password, database")
	}

	if p.Port <= 0 {
		return fmt.Errorf("port is not set or <= 0")
	} else if p.Port > math.MaxUint16 {
		return fmt.Errorf("port is > %d", math.MaxUint16)
	}

	return nil
}
