// Package config holds runtime settings for the photoshare server.
//
// Values are layered: built-in defaults, then an optional YAML file, then the
// process environment (after loading .env).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"photoshare/internal/utils"

	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StorageLocal = "local"
	StorageS3    = "s3"

	// TokenLocationCookies is the only supported token transport.
	TokenLocationCookies = "cookies"

	defaultSecret = "secret"
)

// Config holds runtime settings.
type Config struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`

	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`

	JWT JWTConfig `yaml:"jwt"`

	BcryptCost int `yaml:"bcrypt_cost"`

	Storage StorageConfig `yaml:"storage"`

	SeedDemoData bool `yaml:"seed_demo_data"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// JWTConfig configures token issuance and cookie transport.
type JWTConfig struct {
	SecretKey      string        `yaml:"secret_key"`
	TokenLocation  string        `yaml:"token_location"`
	AccessTokenTTL time.Duration `yaml:"access_token_expires"`
	CookieSecure   *bool         `yaml:"cookie_secure"`
	CookieCSRF     bool          `yaml:"cookie_csrf_protect"`
	SessionCookie  bool          `yaml:"session_cookie"`
}

// StorageConfig selects where uploaded photo files go.
type StorageConfig struct {
	Backend   string `yaml:"backend"`
	UploadDir string `yaml:"upload_dir"`
	BaseURL   string `yaml:"base_url"`

	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Port = "3001"
	c.Env = EnvDevelopment
	c.DBDriver = DriverSQLite
	c.SQLitePath = "database.db"
	c.JWT = JWTConfig{
		SecretKey:      defaultSecret,
		TokenLocation:  TokenLocationCookies,
		AccessTokenTTL: 15 * time.Minute,
		CookieCSRF:     true,
		SessionCookie:  true,
	}
	c.BcryptCost = 10
	c.Storage = StorageConfig{
		Backend:   StorageLocal,
		UploadDir: "uploads",
		S3Region:  "us-east-1",
	}
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Load builds a Config from defaults, the optional YAML file at path and the
// environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := utils.LoadEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = utils.GetEnv("PORT", c.Port)
	c.Env = utils.GetEnv("APP_ENV", c.Env)

	c.DBDriver = utils.GetEnv("DB_DRIVER", c.DBDriver)
	c.SQLitePath = utils.GetEnv("SQLITE_PATH", c.SQLitePath)
	c.DatabaseURL = utils.GetEnv("DATABASE_URL", c.DatabaseURL)
	if c.DatabaseURL == "" && c.DBDriver == DriverPostgres {
		// Fallback to individual vars
		c.DatabaseURL = "postgres://" + utils.GetEnv("POSTGRES_USER", "postgres") + ":" +
			utils.GetEnv("POSTGRES_PASSWORD", "postgres") + "@" +
			utils.GetEnv("POSTGRES_HOST", "localhost") + ":" +
			utils.GetEnv("POSTGRES_PORT", "5432") + "/" +
			utils.GetEnv("POSTGRES_DB", "photoshare") + "?sslmode=disable"
	}

	c.JWT.SecretKey = utils.GetEnv("JWT_SECRET_KEY", c.JWT.SecretKey)
	c.JWT.TokenLocation = utils.GetEnv("JWT_TOKEN_LOCATION", c.JWT.TokenLocation)
	c.JWT.AccessTokenTTL = utils.GetEnvDuration("JWT_ACCESS_TOKEN_EXPIRES", c.JWT.AccessTokenTTL)
	if _, ok := os.LookupEnv("JWT_COOKIE_SECURE"); ok {
		secure := utils.GetEnvBool("JWT_COOKIE_SECURE", c.SecureCookies())
		c.JWT.CookieSecure = &secure
	}
	c.JWT.CookieCSRF = utils.GetEnvBool("JWT_COOKIE_CSRF_PROTECT", c.JWT.CookieCSRF)
	c.JWT.SessionCookie = utils.GetEnvBool("JWT_SESSION_COOKIE", c.JWT.SessionCookie)

	c.BcryptCost = utils.GetEnvInt("BCRYPT_COST", c.BcryptCost)

	c.Storage.Backend = utils.GetEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.UploadDir = utils.GetEnv("UPLOAD_DIR", c.Storage.UploadDir)
	c.Storage.BaseURL = utils.GetEnv("BASE_URL", c.Storage.BaseURL)
	c.Storage.S3Bucket = utils.GetEnv("S3_BUCKET", c.Storage.S3Bucket)
	c.Storage.S3Region = utils.GetEnv("S3_REGION", c.Storage.S3Region)
	c.Storage.S3Endpoint = utils.GetEnv("S3_ENDPOINT", c.Storage.S3Endpoint)
	c.Storage.S3AccessKey = utils.GetEnv("S3_ACCESS_KEY", c.Storage.S3AccessKey)
	c.Storage.S3SecretKey = utils.GetEnv("S3_SECRET_KEY", c.Storage.S3SecretKey)

	c.SeedDemoData = utils.GetEnvBool("SEED_DEMO_DATA", c.SeedDemoData)

	c.LogLevel = utils.GetEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = utils.GetEnv("LOG_FORMAT", c.LogFormat)
}

// Production reports whether the deployment runs in production mode.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// SecureCookies reports whether session cookies carry the Secure flag. Unless
// set explicitly, cookies are secure exactly in production.
func (c *Config) SecureCookies() bool {
	if c.JWT.CookieSecure != nil {
		return *c.JWT.CookieSecure
	}
	return c.Production()
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("port must be set"))
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path must be set for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("database_url must be set for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported db_driver %q", c.DBDriver))
	}

	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("jwt secret_key must be set"))
	} else if c.Production() && c.JWT.SecretKey == defaultSecret {
		errs = append(errs, errors.New("jwt secret_key must be changed in production"))
	}
	if c.JWT.TokenLocation != TokenLocationCookies {
		errs = append(errs, fmt.Errorf("unsupported jwt token_location %q (only %q)", c.JWT.TokenLocation, TokenLocationCookies))
	}
	if c.JWT.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("jwt access_token_expires must be positive"))
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.UploadDir == "" {
			errs = append(errs, errors.New("upload_dir must be set for local storage"))
		}
	case StorageS3:
		if c.Storage.S3Bucket == "" {
			errs = append(errs, errors.New("s3_bucket must be set for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage backend %q", c.Storage.Backend))
	}

	return errors.Join(errs...)
}
