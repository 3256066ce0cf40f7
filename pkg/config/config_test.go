package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mentoria-api/pkg/config"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.App.Storage)
	assert.Equal(t, "GB", cfg.Signup.PhoneRegion)
	assert.Equal(t, 15*time.Second, cfg.Signup.NotifyTimeout())
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTTL())
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, 1, cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime())
	assert.Equal(t, 30*time.Minute, cfg.DB.MaxConnIdleTime())
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("APP_PUBLIC_URL", "https://mentoria.org.uk/")
	v.Set("STORAGE_DRIVER", "memory")
	v.Set("HTTP_PORT", "9090")
	v.Set("PHONE_REGION", "ie")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "https://mentoria.org.uk", cfg.App.PublicURL, "sin barra final")
	assert.Equal(t, "memory", cfg.App.Storage)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "IE", cfg.Signup.PhoneRegion)
}

func TestFromViper_PoolDeDB(t *testing.T) {
	v := viper.New()
	v.Set("DB_MAX_CONNS", "40")
	v.Set("DB_MIN_CONNS", "4")
	v.Set("DB_MAX_CONN_LIFETIME_MINUTES", "15")
	v.Set("DB_FORCE_IPV4", "true")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.DB.MaxConns)
	assert.Equal(t, 4, cfg.DB.MinConns)
	assert.Equal(t, 15*time.Minute, cfg.DB.MaxConnLifetime())
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestFromViper_PoolDeDBInvalido(t *testing.T) {
	v := viper.New()
	v.Set("DB_MAX_CONNS", "2")
	v.Set("DB_MIN_CONNS", "5")

	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestFromViper_StorageInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")

	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProductionSinSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "mentoria", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/mentoria?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
