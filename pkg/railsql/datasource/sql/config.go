package sql

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sllt/railsql/pkg/railsql/config"
)

// DBConfig holds everything needed to open a connection pool. For sqlite the
// Database field is the file path (":memory:" included) and host settings are
// ignored.
type DBConfig struct {
	Dialect  string `yaml:"dialect" validate:"required,oneof=mysql mariadb postgres postgresql supabase cockroachdb sqlite sqlite3"`
	HostName string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Port     int    `yaml:"port" validate:"min=0,max=65535"`
	Database string `yaml:"database" validate:"required"`
	SSLMode  string `yaml:"ssl_mode"`

	MaxIdleConn     int           `yaml:"max_idle_conn" validate:"min=0"`
	MaxOpenConn     int           `yaml:"max_open_conn" validate:"min=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	errHostRequired = errors.New("host is required for network dialects")
)

// Validate reports whether the config is complete enough to open a
// connection.
func (c *DBConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	dialect, err := NormalizeDialect(c.Dialect)
	if err != nil {
		return err
	}

	if dialect != DialectSQLite && c.HostName == "" {
		return errHostRequired
	}

	return nil
}

// NewConfigFromEnv builds a DBConfig from the DB_* keys of conf. Ports
// default per dialect, idle connections to 2 and open connections to
// unlimited.
func NewConfigFromEnv(conf config.Config) *DBConfig {
	dialect := conf.GetOrDefault("DB_DIALECT", string(DialectMySQL))

	port, err := strconv.Atoi(conf.GetOrDefault("DB_PORT", defaultPort(dialect)))
	if err != nil {
		port = 0
	}

	maxIdle, err := strconv.Atoi(conf.GetOrDefault("DB_MAX_IDLE_CONNECTION", "2"))
	if err != nil {
		maxIdle = 2
	}

	maxOpen, err := strconv.Atoi(conf.GetOrDefault("DB_MAX_OPEN_CONNECTION", "0"))
	if err != nil {
		maxOpen = 0
	}

	lifetime, err := time.ParseDuration(conf.GetOrDefault("DB_CONN_MAX_LIFETIME", "0s"))
	if err != nil {
		lifetime = 0
	}

	return &DBConfig{
		Dialect:         dialect,
		HostName:        conf.Get("DB_HOST"),
		User:            conf.Get("DB_USER"),
		Password:        conf.Get("DB_PASSWORD"),
		Port:            port,
		Database:        conf.Get("DB_NAME"),
		SSLMode:         conf.GetOrDefault("DB_SSL_MODE", "disable"),
		MaxIdleConn:     maxIdle,
		MaxOpenConn:     maxOpen,
		ConnMaxLifetime: lifetime,
	}
}

// LoadConfig reads a DBConfig from a YAML file.
func LoadConfig(path string) (*DBConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read database config")
	}

	var cfg DBConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, pkgerrors.Wrap(err, "parse database config")
	}

	return &cfg, nil
}

func defaultPort(dialect string) string {
	d, err := NormalizeDialect(dialect)
	if err != nil {
		return "0"
	}

	switch d {
	case DialectPostgres:
		return "5432"
	case DialectSQLite:
		return "0"
	default:
		return "3306"
	}
}

// dsn renders the driver connection string for the dialect.
func (c *DBConfig) dsn(dialect Dialect) string {
	switch dialect {
	case DialectPostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.HostName, c.Port, c.User, c.Password, c.Database, c.sslMode())
	case DialectSQLite:
		return c.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
			c.User, c.Password, c.HostName, c.Port, c.Database)
	}
}

func (c *DBConfig) sslMode() string {
	if c.SSLMode == "" {
		return "disable"
	}

	return c.SSLMode
}
