package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	_, err := Load("/nonexistent/path/estimator.yaml")
	require.Error(t, err)

	// empty path searches the default locations; none exist in the test dir
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8501", cfg.Server.Addr)
	assert.Equal(t, SourceCSV, cfg.Dataset.Source)
	assert.Equal(t, "data/final.csv", cfg.Dataset.Path)
	assert.Equal(t, "price", cfg.Model.Target)
	assert.Equal(t, []string{"recession", "popular", "age"}, cfg.Model.DropSubstrings)
	assert.Equal(t, "logs/app.log", cfg.Logging.File)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("PORT", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	content := `
server:
  addr: ":9000"
dataset:
  source: sqlite
  dsn: "file:houses.db"
  table: listings
model:
  target: sale_price
  drop_substrings: []
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, SourceSQLite, cfg.Dataset.Source)
	assert.Equal(t, "file:houses.db", cfg.Dataset.DSN)
	assert.Equal(t, "listings", cfg.Dataset.Table)
	assert.Equal(t, "sale_price", cfg.Model.Target)
	assert.NotNil(t, cfg.Model.DropSubstrings)
	assert.Empty(t, cfg.Model.DropSubstrings)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadPortOverride(t *testing.T) {
	t.Setenv("PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
