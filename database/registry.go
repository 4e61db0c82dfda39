package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"querychart/chart"
)

// ErrUnknownDatabase is returned by Lookup for a name with no registered source.
var ErrUnknownDatabase = errors.New("unknown database")

// Source is a datasource queries run against.
type Source interface {
	Query(ctx context.Context, sql string) (chart.TabularResult, error)
	Schema(ctx context.Context) ([]TableSchema, error)
	Close() error
}

// Config describes one named datasource.
type Config struct {
	// Driver is "pgx" (pgx pool), "postgres" (lib/pq) or "sqlite".
	Driver   string `koanf:"driver"`
	DSN      string `koanf:"dsn"`
	MaxConns int    `koanf:"max_conns"`
}

// DriverPgx selects the pgx pool implementation.
const DriverPgx = "pgx"

// Registry holds the named datasources of a process.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	def     string
}

// NewRegistry returns an empty registry whose blank-name lookups resolve to def.
func NewRegistry(def string) *Registry {
	return &Registry{sources: make(map[string]Source), def: def}
}

// Open connects every configured datasource. Sources opened before a
// failure are closed again.
func Open(ctx context.Context, def string, configs map[string]Config) (*Registry, error) {
	r := NewRegistry(def)
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		src, err := open(ctx, configs[name])
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("database %q: %w", name, err)
		}
		r.Register(name, src)
	}
	return r, nil
}

func open(ctx context.Context, cfg Config) (Source, error) {
	switch cfg.Driver {
	case DriverPgx, "":
		return OpenPgx(ctx, cfg.DSN, int32(cfg.MaxConns))
	case DriverPostgres, DriverSQLite:
		return OpenSQL(ctx, cfg.Driver, cfg.DSN, cfg.MaxConns)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Register adds or replaces a source.
func (r *Registry) Register(name string, src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.sources[name]; ok && old != src {
		_ = old.Close()
	}
	r.sources[name] = src
}

// Lookup returns the source registered under name, or the default source
// when name is empty.
func (r *Registry) Lookup(name string) (Source, error) {
	if name == "" {
		name = r.def
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDatabase, name)
	}
	return src, nil
}

// Names lists registered sources in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default is the name blank lookups resolve to.
func (r *Registry) Default() string {
	return r.def
}

// Close closes every source.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for name, src := range r.sources {
		if err := src.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database %q: %w", name, err))
		}
	}
	r.sources = make(map[string]Source)
	return errors.Join(errs...)
}
