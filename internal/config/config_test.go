package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.Port)
	assert.Equal(t, DefaultPartitions, cfg.Partitions)
	assert.Equal(t, "exception_hours", cfg.ExceptionsTable)
	assert.Equal(t, "HOURS", cfg.ProductiveHoursField)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `port: "9000"
urgent_categories:
  - Overtime
partitions:
  - job_family: DC1000
    productive_description: Registered Nurse-DC1
training:
  exclude_ranges:
    - from: "2014-01-01"
      to: "2014-12-31"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"Overtime"}, cfg.UrgentCategories)
	require.Len(t, cfg.Partitions, 1)
	assert.Equal(t, "DC1000", cfg.Partitions[0].JobFamily)
	require.Len(t, cfg.Training.ExcludeRanges, 1)
	assert.Equal(t, "2014-01-01", cfg.Training.ExcludeRanges[0].From)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Port)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [nope"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
