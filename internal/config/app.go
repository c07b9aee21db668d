package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		return err
	default:
		return errors.New("invalid duration")
	}
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		d.Duration, err = time.ParseDuration(s)
		return err
	}
	var n int64
	if err := unmarshal(&n); err != nil {
		return errors.New("invalid duration")
	}
	d.Duration = time.Duration(n)
	return nil
}

type LogConfig struct {
	Level      string `json:"level" yaml:"level"`
	File       string `json:"file" yaml:"file"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
}

type GameConfig struct {
	TickInterval  Duration `json:"tick_interval" yaml:"tick_interval"`
	RoomTTL       Duration `json:"room_ttl" yaml:"room_ttl"`
	RecordTimeout Duration `json:"record_timeout" yaml:"record_timeout"`
	SettingsPath  string   `json:"settings_path" yaml:"settings_path"`
}

const (
	ScoresFile     = "file"
	ScoresPostgres = "postgres"
)

type ScoresConfig struct {
	Backend string `json:"backend" yaml:"backend"`
	Path    string `json:"path" yaml:"path"`
}

type JwtConfig struct {
	TokenLifetime  Duration `json:"token_lifetime" yaml:"token_lifetime"`
	PrivateKeyPath string   `json:"private_key_path" yaml:"private_key_path"`
	PublicKeyPath  string   `json:"public_key_path" yaml:"public_key_path"`
}

type CookiesConfig struct {
	Domain   string `json:"domain" yaml:"domain"`
	Secure   bool   `json:"secure" yaml:"secure"`
	SameSite string `json:"same_site" yaml:"same_site"`
}

type Config struct {
	Mode     string          `json:"mode" yaml:"mode"`
	Addr     string          `json:"addr" yaml:"addr"`
	Log      LogConfig       `json:"log" yaml:"log"`
	Game     GameConfig      `json:"game" yaml:"game"`
	Scores   ScoresConfig    `json:"scores" yaml:"scores"`
	Postgres *PostgresConfig `json:"postgres,omitempty" yaml:"postgres,omitempty"`
	Jwt      JwtConfig       `json:"jwt" yaml:"jwt"`
	Cookies  CookiesConfig   `json:"cookies" yaml:"cookies"`

	CorsOrigins []string `json:"cors_origins" yaml:"cors_origins"`
}

func Default() Config {
	return Config{
		Mode: "development",
		Addr: ":8080",
		Log: LogConfig{
			Level:      "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Game: GameConfig{
			TickInterval:  Duration{time.Second},
			RoomTTL:       Duration{time.Hour},
			RecordTimeout: Duration{5 * time.Second},
			SettingsPath:  "data/settings.json",
		},
		Scores: ScoresConfig{
			Backend: ScoresFile,
			Path:    "data/highscores.json",
		},
		Jwt: JwtConfig{
			TokenLifetime: Duration{30 * 24 * time.Hour},
		},
		Cookies: CookiesConfig{
			SameSite: "strict",
		},
	}
}

// Load reads a JSON or YAML (by extension) config over [Default], then
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if url, ok := os.LookupEnv("DATABASE_URL"); ok {
		if c.Postgres == nil {
			c.Postgres = &PostgresConfig{}
		}
		c.Postgres.URL = url
	}
	if c.Postgres == nil {
		return nil
	}
	password, ok, err := loadPassword()
	if err != nil {
		return err
	}
	if ok {
		c.Postgres.Password = password
	}
	return nil
}

func (c Config) Validate() error {
	if c.Game.TickInterval.Duration <= 0 {
		return errors.New("game.tick_interval must be positive")
	}
	if c.Game.RoomTTL.Duration <= 0 {
		return errors.New("game.room_ttl must be positive")
	}
	switch c.Scores.Backend {
	case ScoresFile:
		if c.Scores.Path == "" {
			return errors.New("scores.path is required for the file backend")
		}
	case ScoresPostgres:
		if c.Postgres == nil {
			return errors.New("scores backend postgres needs a postgres section or DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown scores backend %q", c.Scores.Backend)
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) Fields() logrus.Fields {
	fields := logrus.Fields{
		"mode":                c.Mode,
		"addr":                c.Addr,
		"log_level":           c.LogLevel().String(),
		"log_file":            c.Log.File,
		"game_tick_interval":  c.Game.TickInterval.String(),
		"game_room_ttl":       c.Game.RoomTTL.String(),
		"game_settings_path":  c.Game.SettingsPath,
		"scores_backend":      c.Scores.Backend,
		"scores_path":         c.Scores.Path,
		"jwt_token_lifetime":  c.Jwt.TokenLifetime.String(),
		"cookies_domain":      c.Cookies.Domain,
		"cookies_same_site":   c.Cookies.SameSite,
		"postgres_configured": c.Postgres != nil,
		"cors_origins":        c.CorsOrigins,
	}
	if c.Postgres != nil {
		fields["pg_host"] = c.Postgres.Host
		fields["pg_port"] = c.Postgres.Port
		fields["pg_user"] = c.Postgres.User
		fields["pg_db_name"] = c.Postgres.DbName
	}
	return fields
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// LogLevel is the configured level, or Debug in development and Info in
// production.
func (c Config) LogLevel() logrus.Level {
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil && c.Log.Level != "" {
		return level
	}
	if c.Development() {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}
