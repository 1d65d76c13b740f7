package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: "dev"
database:
  db_user: "u"
  db_name: "formsly"
reports:
  export_concurrency: 8
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "u", cfg.DBUser)
	assert.Equal(t, 3306, cfg.DBPort)
	assert.Equal(t, "localhost:4001", cfg.Address)
	assert.Equal(t, 8, cfg.ExportConcurrency)
	assert.Equal(t, 500, cfg.ExportPageSize)
	assert.Equal(t, 4*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoad_MissingRequired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: local\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
