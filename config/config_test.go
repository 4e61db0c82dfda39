package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"querychart/database"
)

// clearEnv unsets every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{"API_KEY", "MODEL_ID", "PORT", "POSTGRES_HOST", "POSTGRES_PORT",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB"}
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, EnvPrefix) {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, DefaultDatabase, cfg.DefaultDatabase)
	assert.Equal(t, "huggingface", cfg.LLM.Provider)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.Empty(t, cfg.Databases)
}

func TestLoad_Layers(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "querychart.yaml", `
addr: ":9000"
log_level: debug
databases:
  main:
    driver: sqlite
    dsn: ":memory:"
  reports:
    driver: postgres
    dsn: postgres://localhost/reports
llm:
  provider: openai
  model: gpt-4o-mini
`)
	t.Setenv("QUERYCHART_LLM__API_KEY", "from-env")
	t.Setenv("QUERYCHART_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", DefaultAddr, "")
	flags.String("database", "", "")
	require.NoError(t, flags.Parse([]string{"--database", "reports"}))

	cfg, err := Load(Options{File: path, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr, "unset flags must not override the file")
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "reports", cfg.DefaultDatabase)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, database.Config{Driver: "sqlite", DSN: ":memory:"}, cfg.Databases["main"])
	assert.Equal(t, "postgres", cfg.Databases["reports"].Driver)
}

func TestLoad_LegacyEnv(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "API_KEY=legacy-key\nPORT=7000\nPOSTGRES_HOST=db\nPOSTGRES_PORT=5432\nPOSTGRES_USER=u\nPOSTGRES_PASSWORD=p\nPOSTGRES_DB=analytics\n")

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.LLM.APIKey)
	assert.Equal(t, ":7000", cfg.Addr)
	require.Contains(t, cfg.Databases, DefaultDatabase)
	main := cfg.Databases[DefaultDatabase]
	assert.Equal(t, database.DriverPgx, main.Driver)
	assert.Equal(t, 10, main.MaxConns)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=analytics sslmode=disable", main.DSN)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	_, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "absent.env")})
	assert.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "log level", yaml: "log_level: loud\n", wantErr: "invalid log_level"},
		{name: "log format", yaml: "log_format: xml\n", wantErr: "invalid log_format"},
		{name: "missing dsn", yaml: "databases:\n  main:\n    driver: sqlite\n", wantErr: `database "main": dsn is required`},
		{name: "empty addr", yaml: "addr: \"\"\n", wantErr: "addr must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Options{File: writeFile(t, "c.yaml", tt.yaml)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
