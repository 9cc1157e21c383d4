package config

import (
	"os"
	"path/filepath"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("SHAREIT_DB_PATH", filepath.Join(tmpDir, "test.db"))

	yamlContent := `
database:
  path: "${SHAREIT_DB_PATH}"
api:
  http:
    port: 9000
booking:
  allow_redecide: true
comments:
  require_completed_booking: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, filepath.Join(tmpDir, "test.db"), cfg.Database.Path)
	assert.Equal(t, 9000, cfg.API.HTTP.Port)
	assert.Equal(t, models.UserIDHeader, cfg.API.UserHeader)
	assert.Equal(t, models.DefaultPageSize, cfg.Pagination.DefaultSize)
	assert.True(t, cfg.Booking.AllowRedecide)
	assert.False(t, cfg.Comments.RequiresCompletedBooking())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		c := Config{Database: DatabaseConfig{Path: "path"}}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "memory driver without path", mutate: func(c *Config) {
			c.Database.Driver = DriverMemory
			c.Database.Path = ""
		}},
		{name: "missing db path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.API.HTTP.Port = 70000 }, wantErr: true},
		{name: "default page above max", mutate: func(c *Config) { c.Pagination.DefaultSize = 500 }, wantErr: true},
		{name: "backup on memory store", mutate: func(c *Config) {
			c.Database.Driver = DriverMemory
			c.Backup.Enabled = true
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentsConfig_Default(t *testing.T) {
	assert.True(t, CommentsConfig{}.RequiresCompletedBooking())
	on := true
	assert.True(t, CommentsConfig{RequireCompletedBooking: &on}.RequiresCompletedBooking())
}
