package config

import (
	"testing"
	"time"

	"github.com/amazonstore/backend/internal/domain/store"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "amazonstore", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "amazonstore", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 5*time.Minute, cfg.Redis.DashboardTTL)
		assert.Equal(t, string(store.LineItemModeFirstRow), cfg.Importer.LineItemMode)
		assert.Equal(t, 100, cfg.Importer.ProgressInterval)
		assert.Equal(t, "amazonstore", cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with STORE prefix", func(t *testing.T) {
		t.Setenv("STORE_APP_NAME", "test-app")
		t.Setenv("STORE_DATABASE_DRIVER", "mysql")
		t.Setenv("STORE_DATABASE_HOST", "testdb.local")
		t.Setenv("STORE_DATABASE_USER", "testuser")
		t.Setenv("STORE_DATABASE_PASSWORD", "testpass")
		t.Setenv("STORE_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("STORE_IMPORTER_LINE_ITEM_MODE", "per_row")
		t.Setenv("STORE_IMPORTER_PROGRESS_INTERVAL", "25")
		t.Setenv("STORE_REDIS_DASHBOARD_TTL", "30s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, DriverMySQL, cfg.Database.Driver)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, string(store.LineItemModePerRow), cfg.Importer.LineItemMode)
		assert.Equal(t, 25, cfg.Importer.ProgressInterval)
		assert.Equal(t, 30*time.Second, cfg.Redis.DashboardTTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("STORE_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		t.Setenv("STORE_DATABASE_DRIVER", "oracle")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("rejects unknown line item mode", func(t *testing.T) {
		t.Setenv("STORE_IMPORTER_LINE_ITEM_MODE", "every_row")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line_item_mode")
		assert.Contains(t, err.Error(), "every_row")
	})
}

func TestValidate_Production(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{
			name:    "requires database password",
			set:     map[string]any{"database.sslmode": "require"},
			wantErr: "database.password is required",
		},
		{
			name:    "rejects disabled sslmode",
			set:     map[string]any{"database.password": "secret"},
			wantErr: "sslmode",
		},
		{
			name:    "rejects sqlite",
			set:     map[string]any{"database.driver": "sqlite"},
			wantErr: "cannot be sqlite",
		},
		{
			name: "accepts hardened settings",
			set: map[string]any{
				"database.password": "secret",
				"database.sslmode":  "require",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("app.env", "production")
			for k, val := range tt.set {
				v.Set(k, val)
			}

			_, err := fromViper(v)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("postgres escapes credentials", func(t *testing.T) {
		d := DatabaseConfig{Driver: DriverPostgres, User: "user", Password: "p@ss word", Host: "db", Port: 5432, DBName: "store", SSLMode: "disable"}
		assert.Equal(t, "postgres://user:p%40ss%20word@db:5432/store?sslmode=disable", d.DSN())
	})

	t.Run("mysql uses tcp address", func(t *testing.T) {
		d := DatabaseConfig{Driver: DriverMySQL, User: "root", Password: "pw", Host: "db", Port: 3306, DBName: "store"}
		assert.Equal(t, "root:pw@tcp(db:3306)/store?charset=utf8mb4&parseTime=true&loc=UTC", d.DSN())
	})

	t.Run("sqlite returns file path", func(t *testing.T) {
		d := DatabaseConfig{Driver: DriverSQLite, Path: "store.db"}
		assert.Equal(t, "store.db", d.DSN())
	})
}
