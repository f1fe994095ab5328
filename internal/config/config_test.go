package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultContentDir, cfg.Content.Dir)
	assert.Equal(t, defaultPageSize, cfg.Content.PageSize)
	assert.Equal(t, defaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, time.Minute, cfg.Views.FlushInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := `
server:
  port: 8080
content:
  dir: posts
  minify_html: true
views:
  flush_interval: 30s
site:
  title: Notes
logging:
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("BLOG_PORT", "9090")
	t.Setenv("BLOG_FLUSH_INTERVAL", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Address())
	assert.Equal(t, "posts", cfg.Content.Dir)
	assert.True(t, cfg.Content.MinifyHTML)
	assert.Equal(t, 2*time.Minute, cfg.Views.FlushInterval)
	assert.Equal(t, "Notes", cfg.Site.Title)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("BLOG_SITE_TITLE=From Dotenv\n"), 0o644))
	t.Setenv("ENV_FILE", envFile)
	t.Cleanup(func() { os.Unsetenv("BLOG_SITE_TITLE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "From Dotenv", cfg.Site.Title)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	cfg.Views.FlushInterval = time.Millisecond
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "views.flush_interval: must be at least 1s", err.Error())

	setDefaults(cfg)
	cfg.Views.FlushInterval = time.Minute
	cfg.Site.BaseURL = "example.com"
	var verr *ValidationError
	require.ErrorAs(t, cfg.Validate(), &verr)
	assert.Equal(t, "site.base_url", verr.Field)
}
