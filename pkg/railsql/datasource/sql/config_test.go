package sql

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sllt/railsql/pkg/railsql/config"
)

func TestNewConfigFromEnv(t *testing.T) {
	conf := config.NewMockConfig(map[string]string{
		"DB_DIALECT":             "postgres",
		"DB_HOST":                "db.internal",
		"DB_USER":                "app",
		"DB_PASSWORD":            "secret",
		"DB_NAME":                "orders",
		"DB_MAX_IDLE_CONNECTION": "5",
		"DB_MAX_OPEN_CONNECTION": "20",
		"DB_CONN_MAX_LIFETIME":   "15m",
	})

	cfg := NewConfigFromEnv(conf)

	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "db.internal", cfg.HostName)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "orders", cfg.Database)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 5, cfg.MaxIdleConn)
	assert.Equal(t, 20, cfg.MaxOpenConn)
	assert.Equal(t, 15*time.Minute, cfg.ConnMaxLifetime)
}

func TestNewConfigFromEnvDefaults(t *testing.T) {
	cfg := NewConfigFromEnv(config.NewMockConfig(map[string]string{"DB_NAME": "orders"}))

	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, 2, cfg.MaxIdleConn)
	assert.Equal(t, 0, cfg.MaxOpenConn)
	assert.Equal(t, time.Duration(0), cfg.ConnMaxLifetime)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		desc    string
		cfg     DBConfig
		wantErr bool
	}{
		{
			desc: "complete postgres config",
			cfg:  DBConfig{Dialect: "postgres", HostName: "localhost", Port: 5432, Database: "orders"},
		},
		{
			desc: "sqlite needs no host",
			cfg:  DBConfig{Dialect: "sqlite", Database: ":memory:"},
		},
		{
			desc:    "missing dialect",
			cfg:     DBConfig{Database: "orders", HostName: "localhost"},
			wantErr: true,
		},
		{
			desc:    "unknown dialect",
			cfg:     DBConfig{Dialect: "oracle", Database: "orders", HostName: "localhost"},
			wantErr: true,
		},
		{
			desc:    "missing database",
			cfg:     DBConfig{Dialect: "mysql", HostName: "localhost"},
			wantErr: true,
		},
		{
			desc:    "port out of range",
			cfg:     DBConfig{Dialect: "mysql", HostName: "localhost", Port: 70000, Database: "orders"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.cfg.Validate()

			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestConfigValidateRequiresHost(t *testing.T) {
	cfg := DBConfig{Dialect: "mysql", Database: "orders"}

	assert.ErrorIs(t, cfg.Validate(), errHostRequired)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.yaml")
	raw := []byte(`dialect: postgres
host: db.internal
user: app
password: secret
port: 5432
database: orders
max_idle_conn: 4
conn_max_lifetime: 30m
`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "db.internal", cfg.HostName)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, 4, cfg.MaxIdleConn)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.ErrorContains(t, err, "read database config")
}

func TestDSN(t *testing.T) {
	tests := []struct {
		desc     string
		dialect  Dialect
		cfg      DBConfig
		expected string
	}{
		{
			desc:    "postgres",
			dialect: DialectPostgres,
			cfg: DBConfig{
				HostName: "localhost", Port: 5432, User: "app",
				Password: "secret", Database: "orders", SSLMode: "require",
			},
			expected: "host=localhost port=5432 user=app password=secret dbname=orders sslmode=require",
		},
		{
			desc:     "postgres ssl mode defaults to disable",
			dialect:  DialectPostgres,
			cfg:      DBConfig{HostName: "localhost", Port: 5432, User: "app", Database: "orders"},
			expected: "host=localhost port=5432 user=app password= dbname=orders sslmode=disable",
		},
		{
			desc:     "sqlite is the file path",
			dialect:  DialectSQLite,
			cfg:      DBConfig{Database: "/var/lib/app/orders.db"},
			expected: "/var/lib/app/orders.db",
		},
		{
			desc:    "mysql",
			dialect: DialectMySQL,
			cfg: DBConfig{
				HostName: "localhost", Port: 3306, User: "app",
				Password: "secret", Database: "orders",
			},
			expected: "app:secret@tcp(localhost:3306)/orders?parseTime=true&loc=UTC&charset=utf8mb4",
		},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.cfg.dsn(tc.dialect))
		})
	}
}
