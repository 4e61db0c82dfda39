// Package config loads server and CLI settings.
//
// Sources are layered, later ones winning: built-in defaults, an optional
// YAML file, the legacy POSTGRES_*/API_KEY/PORT variables (a .env file is
// loaded into the environment first), QUERYCHART_* variables and finally
// explicitly set command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"querychart/database"
	"querychart/services"
)

const (
	EnvPrefix       = "QUERYCHART_"
	DefaultAddr     = ":8080"
	DefaultDatabase = "main"
)

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
	Debug          bool     `koanf:"debug"`
}

// Config holds every setting of the service.
type Config struct {
	Addr            string                     `koanf:"addr"`
	LogLevel        string                     `koanf:"log_level"`
	LogFormat       string                     `koanf:"log_format"`
	DefaultDatabase string                     `koanf:"default_database"`
	Databases       map[string]database.Config `koanf:"databases"`
	LLM             services.LLMConfig         `koanf:"llm"`
	CORS            CORSConfig                 `koanf:"cors"`
	HistoryLimit    int                        `koanf:"history_limit"`
}

// Options points Load at its inputs. Zero values skip a source.
type Options struct {
	File    string
	EnvFile string
	Flags   *pflag.FlagSet
}

// Load reads configuration from every source in Options.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"addr":                 DefaultAddr,
		"log_level":            "info",
		"log_format":           "text",
		"default_database":     DefaultDatabase,
		"llm.provider":         "huggingface",
		"cors.allowed_origins": []string{"*"},
		"history_limit":        20,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", opts.File, err)
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file %s: %w", opts.EnvFile, err)
		}
	}

	if err := k.Load(confmap.Provider(legacyEnv(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load legacy env vars: %w", err)
	}

	// QUERYCHART_LLM__API_KEY -> llm.api_key
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if key == "database" {
				key = "default_database"
			}
			return key, posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// legacyEnv maps the variables of earlier deployments onto config keys.
func legacyEnv() map[string]interface{} {
	out := map[string]interface{}{}
	if v := os.Getenv("API_KEY"); v != "" {
		out["llm.api_key"] = v
	}
	if v := os.Getenv("MODEL_ID"); v != "" {
		out["llm.model"] = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		out["addr"] = v
	}
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, os.Getenv("POSTGRES_PORT"), os.Getenv("POSTGRES_USER"),
			os.Getenv("POSTGRES_PASSWORD"), os.Getenv("POSTGRES_DB"))
		out["databases."+DefaultDatabase+".driver"] = database.DriverPgx
		out["databases."+DefaultDatabase+".dsn"] = dsn
		out["databases."+DefaultDatabase+".max_conns"] = 10
	}
	return out
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (want text or json)", c.LogFormat)
	}
	for name, db := range c.Databases {
		if db.DSN == "" {
			return fmt.Errorf("database %q: dsn is required", name)
		}
	}
	return nil
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return l, nil
}
