package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`

	SentryEnabled bool `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis, used for the session token revocation set;
	// leave the host empty to run without revocation on logout
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// media uploads
	S3Bucket string `toml:"s3_bucket"`
	S3Region string `toml:"s3_region"`

	// contact form relay
	SMTPHost      string `toml:"smtp_host"`
	SMTPPort      int    `toml:"smtp_port"`
	SMTPUser      string `toml:"smtp_user"`
	ContactToAddr string `toml:"contact_to_addr"`

	// static pages (admin.html, login.html)
	StaticDirPath string `toml:"static_dir_path"`

	// cross origin hosts allowed by the CORS middleware
	AllowedOrigins []string `toml:"allowed_origins"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

// Load reads the TOML config file and returns the section for the given
// environment. The returned config is validated, so a missing required
// key fails here, at startup, instead of somewhere at request time.
func Load(env, path string) (*Config, error) {
	var tomlCfg Toml
	if _, err := toml.DecodeFile(path, &tomlCfg); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlCfg.Get(env)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, errors.New("development config section missing")
		}
		t.Development.Environment = "development"
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, errors.New("production config section missing")
		}
		t.Production.Environment = "production"
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// IsProduction controls the Secure flag on the session cookie,
// among other things
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	var missing []string
	if c.Port == 0 {
		missing = append(missing, "port")
	}
	if c.PostgresHost == "" {
		missing = append(missing, "postgres_host")
	}
	if c.PostgresPort == "" {
		missing = append(missing, "postgres_port")
	}
	if c.PostgresDBName == "" {
		missing = append(missing, "postgres_db_name")
	}
	if c.S3Bucket == "" {
		missing = append(missing, "s3_bucket")
	}
	if c.S3Region == "" {
		missing = append(missing, "s3_region")
	}
	if c.SMTPHost == "" {
		missing = append(missing, "smtp_host")
	}
	if c.ContactToAddr == "" {
		missing = append(missing, "contact_to_addr")
	}
	if c.StaticDirPath == "" {
		missing = append(missing, "static_dir_path")
	}
	if len(c.AllowedOrigins) == 0 {
		missing = append(missing, "allowed_origins")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing config keys: %s", strings.Join(missing, ", "))
	}
	return nil
}
