package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SessionSecretEnv overrides Session.Secret when set.
const SessionSecretEnv = "SESSION_SECRET"

type Config struct {
	Env            string     `yaml:"env" validate:"oneof=dev stage prod"`
	BaseURL        string     `yaml:"base_url" validate:"omitempty,url"`
	AllowAnonymous bool       `yaml:"allow_anonymous"`
	HTTPServer     HTTPServer `yaml:"http_server"`
	Database       Database   `yaml:"database"`
	Session        Session    `yaml:"session"`
	Auth           Auth       `yaml:"auth"`
	Redis          Redis      `yaml:"redis"`
}

type HTTPServer struct {
	Port           int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
	TrustProxy     bool          `yaml:"trust_proxy"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Database struct {
	Driver          string        `yaml:"driver" validate:"oneof=sqlite postgres"`
	SQLite          SQLite        `yaml:"sqlite"`
	Postgres        Postgres      `yaml:"postgres"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"min=0"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"min=0"`
}

var defaultDatabase = Database{
	Driver: DriverSQLite,
	SQLite: SQLite{
		Path: "instance/urls.db",
	},
	Postgres: Postgres{
		Host:    "localhost",
		Port:    5432,
		SSLMode: "disable",
	},
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

// DSN returns the connection string for the configured driver.
func (d *Database) DSN() string {
	if d.Driver == DriverPostgres {
		return d.Postgres.DSN()
	}
	return d.SQLite.DSN()
}

type SQLite struct {
	Path string `yaml:"path"`
}

func (s *SQLite) DSN() string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", s.Path)
}

type Postgres struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       string `yaml:"db"`
	SSLMode  string `yaml:"sslmode"`
}

func (p *Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     p.DB,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

type Session struct {
	Secret     string        `yaml:"secret" validate:"required,min=16"`
	TTL        time.Duration `yaml:"ttl" validate:"gt=0"`
	CookieName string        `yaml:"cookie_name" validate:"required"`
	Secure     bool          `yaml:"secure"`
}

var defaultSession = Session{
	TTL:        24 * time.Hour,
	CookieName: "session",
}

type Auth struct {
	BcryptCost int      `yaml:"bcrypt_cost" validate:"min=4,max=31"`
	Throttle   Throttle `yaml:"throttle"`
}

// Throttle limits POST /login and POST /register per client IP.
// A zero RPS disables it.
type Throttle struct {
	RPS   float64 `yaml:"rps" validate:"min=0"`
	Burst int     `yaml:"burst" validate:"min=0"`
}

var defaultAuth = Auth{
	BcryptCost: 10,
	Throttle: Throttle{
		RPS:   1,
		Burst: 5,
	},
}

// Redis configures the resolve cache. An empty Addr disables it.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"min=0"`
	TTL      time.Duration `yaml:"ttl" validate:"min=0"`
	Prefix   string        `yaml:"prefix"`
}

var defaultRedis = Redis{
	TTL:    24 * time.Hour,
	Prefix: "url",
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if secret := os.Getenv(SessionSecretEnv); secret != "" {
		cfg.Session.Secret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.SQLite.Path == "" {
			return errors.New("invalid config: database.sqlite.path is required")
		}
	case DriverPostgres:
		if c.Database.Postgres.DB == "" {
			return errors.New("invalid config: database.postgres.db is required")
		}
	}

	return nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.AllowAnonymous = true
	cfg.HTTPServer = defaultHTTPServer
	cfg.Database = defaultDatabase
	cfg.Session = defaultSession
	cfg.Auth = defaultAuth
	cfg.Redis = defaultRedis
}
