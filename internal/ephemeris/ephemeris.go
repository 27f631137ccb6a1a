package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/almuten/internal/cache"
	"github.com/ppiankov/almuten/internal/model"
	"go.uber.org/zap"
)

// Provider is the oracle contract the analysis pipeline depends on
type Provider interface {
	Positions(ctx context.Context, t time.Time, bodies []model.Body) (map[model.Body]model.Coordinates, error)
	Houses(ctx context.Context, t time.Time, lat, lon float64, system string) (model.Houses, error)
	Stars(ctx context.Context, t time.Time) ([]model.StarPosition, error)
	SolarDay(ctx context.Context, t time.Time, lat, lon float64) (model.SolarDay, error)
	Syzygy(ctx context.Context, t time.Time, lat, lon float64) (model.Syzygy, error)
}

// Ephemeris answers oracle queries from a tabulated Source, memoizing
// interpolated positions. Safe for concurrent use.
type Ephemeris struct {
	source  Source
	catalog []model.StarPosition
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewEphemeris wires a source, a J2000 star catalog and an optional cache.
// A nil logger is replaced by a no-op logger.
func NewEphemeris(source Source, catalog []model.StarPosition, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Ephemeris {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ephemeris{
		source:  source,
		catalog: catalog,
		cache:   c,
		ttl:     ttl,
		logger:  logger,
	}
}

// Position returns one body's coordinates at t
func (e *Ephemeris) Position(ctx context.Context, body model.Body, t time.Time) (model.Coordinates, error) {
	t = t.UTC()
	key := cache.CacheKey("pos", string(body), t.Format(time.RFC3339Nano))
	if e.cache != nil {
		if data, ok := e.cache.Get(key); ok {
			var c model.Coordinates
			if err := json.Unmarshal(data, &c); err == nil {
				return c, nil
			}
		}
	}

	before, after, err := e.source.Bracket(ctx, body, t)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("position of %s: %w", body, err)
	}
	c := Interpolate(before, after, t)

	if e.cache != nil {
		if data, err := json.Marshal(c); err == nil {
			if err := e.cache.Set(key, data, e.ttl); err != nil {
				e.logger.Debug("cache set failed", zap.String("body", string(body)), zap.Error(err))
			}
		}
	}
	return c, nil
}

// Positions implements Provider
func (e *Ephemeris) Positions(ctx context.Context, t time.Time, bodies []model.Body) (map[model.Body]model.Coordinates, error) {
	out := make(map[model.Body]model.Coordinates, len(bodies))
	for _, b := range bodies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := e.Position(ctx, b, t)
		if err != nil {
			return nil, err
		}
		out[b] = c
	}
	e.logger.Debug("positions resolved", zap.Time("time", t), zap.Int("bodies", len(out)))
	return out, nil
}

// Houses implements Provider
func (e *Ephemeris) Houses(_ context.Context, t time.Time, lat, lon float64, system string) (model.Houses, error) {
	return ComputeHouses(t, lat, lon, system)
}

// Stars implements Provider, returning the catalog precessed to t
func (e *Ephemeris) Stars(_ context.Context, t time.Time) ([]model.StarPosition, error) {
	if len(e.catalog) == 0 {
		return nil, model.ConfigErrorf("stars.catalog", nil, "star catalog is empty")
	}
	return Precess(e.catalog, t), nil
}

// SolarDay implements Provider
func (e *Ephemeris) SolarDay(ctx context.Context, t time.Time, lat, lon float64) (model.SolarDay, error) {
	return FindSolarDay(ctx, e, t, lat, lon)
}

// Syzygy implements Provider
func (e *Ephemeris) Syzygy(ctx context.Context, t time.Time, lat, lon float64) (model.Syzygy, error) {
	return FindSyzygy(ctx, e, t, lat, lon)
}

var _ Provider = (*Ephemeris)(nil)
