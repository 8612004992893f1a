package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := load(filepath.Join(dir, "missing.yaml"), "", "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadProjectWinsOverGlobal(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "project", "config.yaml")
	global := filepath.Join(dir, "global", "config.yaml")
	writeFile(t, project, "api_url: https://project.example.com/api\n")
	writeFile(t, global, "api_url: https://global.example.com/api\npage_size: 25\n")

	cfg, err := load(project, global, "")
	require.NoError(t, err)

	assert.Equal(t, "https://project.example.com/api", cfg.APIURL)
	assert.Equal(t, 10, cfg.PageSize, "global file is not merged when a project file exists")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "config.yaml")
	writeFile(t, global, "api_url: https://global.example.com/api\ntimeout: 5s\n")
	t.Setenv("JOBPORTAL_API_URL", "http://127.0.0.1:9000/api")
	t.Setenv("JOBPORTAL_PAGE_SIZE", "20")

	cfg, err := load("", global, "")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/api", cfg.APIURL)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	writeFile(t, dotenv, "JOBPORTAL_DATA_DIR="+filepath.Join(dir, "data")+"\n")
	t.Setenv("JOBPORTAL_DATA_DIR", "")
	os.Unsetenv("JOBPORTAL_DATA_DIR")

	cfg, err := load("", "", dotenv)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "data", "storage.db"), cfg.StoragePath())
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"relative url", "api_url: /api\n"},
		{"bad scheme", "api_url: ftp://example.com\n"},
		{"page size too large", "page_size: 500\n"},
		{"negative timeout", "timeout: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.file)
			_, err := load(path, "", "")
			assert.Error(t, err)
		})
	}
}

func TestRememberEmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, rememberEmailIn(path, "ada@example.com"))

	loaded, err := load("", path, "")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", loaded.LastEmail)
	assert.Equal(t, "http://localhost:8080/api", loaded.APIURL)
}

func TestRememberEmail_KeepsOnlyFileSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "page_size: 25\ntimeout: 5s\n")

	t.Setenv("JOBPORTAL_API_URL", "http://staging.internal:9000/api")
	t.Setenv("JOBPORTAL_PAGE_SIZE", "40")
	cfg, err := load("", path, "")
	require.NoError(t, err)
	require.Equal(t, "http://staging.internal:9000/api", cfg.APIURL)

	require.NoError(t, rememberEmailIn(path, "ada@example.com"))

	os.Unsetenv("JOBPORTAL_API_URL")
	os.Unsetenv("JOBPORTAL_PAGE_SIZE")
	reloaded, err := load("", path, "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", reloaded.APIURL)
	assert.Equal(t, 25, reloaded.PageSize)
	assert.Equal(t, 5*time.Second, reloaded.Timeout)
	assert.Equal(t, "ada@example.com", reloaded.LastEmail)
}

func TestLoadDevServer(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CHAT_RATE_LIMIT", "2")

	cfg, err := LoadDevServer()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2, cfg.ChatRateLimit)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)

	t.Setenv("JWT_SECRET", "short")
	_, err = LoadDevServer()
	assert.Error(t, err)
}
