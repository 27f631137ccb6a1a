package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/almuten/internal/cache"
	"github.com/ppiankov/almuten/internal/ephemeris"
	"github.com/ppiankov/almuten/internal/ephemeris/sqlite"
	"github.com/ppiankov/almuten/internal/model"
	"go.uber.org/zap"
)

// Oracle is an opened ephemeris together with the resources behind it
type Oracle struct {
	*ephemeris.Ephemeris
	Cache  *cache.MemoryCache // nil when caching is disabled
	closer io.Closer
}

// Close releases the underlying store, if any
func (o *Oracle) Close() error {
	if o == nil || o.closer == nil {
		return nil
	}
	return o.closer.Close()
}

// OpenOracle opens the configured ephemeris: a SQLite store for .db/.sqlite
// paths, a YAML table for .yaml/.yml paths
func OpenOracle(cfg *model.Config, logger *zap.Logger) (*Oracle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	path := strings.TrimSpace(cfg.Ephemeris.Path)
	if path == "" {
		return nil, model.ConfigErrorf("ephemeris.path", nil, "no ephemeris configured (set ephemeris.path or ALMUTEN_EPHEMERIS_PATH)")
	}

	// The SQLite driver would create a missing store, so check first
	if _, err := os.Stat(path); err != nil {
		return nil, model.ConfigErrorf("ephemeris.path", err, "ephemeris %s not found", path)
	}

	o := &Oracle{}
	var source ephemeris.Source
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		source, o.closer = store, store
	case ".yaml", ".yml":
		table, err := ephemeris.LoadTable(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("ephemeris table loaded", zap.String("table", table.String()))
		source = table
	default:
		return nil, model.ConfigErrorf("ephemeris.path", nil, "unsupported ephemeris file %q (want .db, .sqlite, .yaml or .yml)", path)
	}

	catalog := ephemeris.DefaultCatalog()
	if cfg.Stars.Catalog != "" {
		var err error
		catalog, err = ephemeris.LoadCatalog(cfg.Stars.Catalog)
		if err != nil {
			_ = o.Close()
			return nil, fmt.Errorf("star catalog: %w", err)
		}
	}

	var ttl time.Duration
	var c cache.Cache
	if cfg.Ephemeris.CacheMinutes > 0 {
		ttl = time.Duration(cfg.Ephemeris.CacheMinutes) * time.Minute
		o.Cache = cache.NewMemoryCache(ttl, 2*ttl)
		c = o.Cache
	}

	o.Ephemeris = ephemeris.NewEphemeris(source, catalog, c, ttl, logger.Named("ephemeris"))
	logger.Info("ephemeris opened",
		zap.String("path", path),
		zap.Int("stars", len(catalog)),
		zap.Duration("cache_ttl", ttl))
	return o, nil
}
