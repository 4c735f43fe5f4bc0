package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/mcdata/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "mcdata:", cfg.Redis.Prefix)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Roots)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcdata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vanilla_dir: ./generated
roots:
  - ./world
format: yaml
redis:
  addr: localhost:6379
  db: 2
`), 0o644))

	v := viper.New()
	require.NoError(t, config.Init(v, path))
	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "./generated", cfg.VanillaDir)
	assert.Equal(t, []string{"./world"}, cfg.Roots)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "mcdata:", cfg.Redis.Prefix)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MCDATA_LOG_LEVEL", "debug")
	t.Setenv("MCDATA_HTTP_ADDR", ":9000")

	v := viper.New()
	require.NoError(t, config.Init(v, ""))
	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	err := config.Init(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidFormat(t *testing.T) {
	v := viper.New()
	v.Set("format", "xml")
	_, err := config.Load(v)
	assert.Error(t, err)
}
