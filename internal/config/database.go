package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type PostgresConfig struct {
	URL      string `json:"url" yaml:"url"`
	Host     string `json:"host" yaml:"host"`
	Port     uint16 `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	DbName   string `json:"db_name" yaml:"db_name"`
	SSLMode  string `json:"ssl_mode" yaml:"ssl_mode"`
}

func loadPassword() (password string, ok bool, err error) {
	if password, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
		return password, true, nil
	}
	passwordFile, ok := os.LookupEnv("POSTGRES_PASSWORD_FILE")
	if !ok {
		return "", false, nil
	}
	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", false, fmt.Errorf("unable to read from password file: %w", err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// DbURL is a postgres:// URL understood by both pgx and the migrator.
func (c PostgresConfig) DbURL() string {
	if c.URL != "" {
		return c.URL
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, port),
		Path:     "/" + c.DbName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}
