// Package events scans a date range for sign ingresses and exact aspects
// between the seven bodies.
package events

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ppiankov/almuten/internal/ephemeris"
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/worker"
	"github.com/ppiankov/almuten/internal/zodiac"
	"go.uber.org/zap"
)

// exactTargets maps each forward separation to the aspect it completes.
// Separations past 180 are the same aspects seen from the other side.
var exactTargets = []struct {
	angle float64
	kind  model.AspectKind
}{
	{0, model.Conjunction},
	{60, model.Sextile},
	{90, model.Square},
	{120, model.Trine},
	{180, model.Opposition},
	{240, model.Trine},
	{270, model.Square},
	{300, model.Sextile},
}

// Scanner finds events by coarse sampling and bisection
type Scanner struct {
	locator ephemeris.Locator
	cfg     model.EventsConfig
	workers int
	logger  *zap.Logger
}

// NewScanner creates a scanner over a single-body locator
func NewScanner(loc ephemeris.Locator, cfg model.EventsConfig, workers int, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{locator: loc, cfg: cfg, workers: workers, logger: logger}
}

func (s *Scanner) step() time.Duration {
	return time.Duration(s.cfg.StepMinutes * float64(time.Minute))
}

func (s *Scanner) tolerance() time.Duration {
	return time.Duration(s.cfg.ToleranceMinutes * float64(time.Minute))
}

// Scan returns every ingress and exact aspect in (start, end], sorted by
// time. An empty bodies slice scans all seven. The range is split into
// chunks that run on the worker pool.
func (s *Scanner) Scan(ctx context.Context, start, end time.Time, bodies []model.Body) ([]model.Event, error) {
	start, end = start.UTC(), end.UTC()
	if !end.After(start) {
		return nil, model.InputErrorf("range", "end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if s.step() <= 0 || s.tolerance() <= 0 {
		return nil, model.ConfigErrorf("events", nil, "step and tolerance must be positive")
	}
	if len(bodies) == 0 {
		bodies = model.Bodies()
	}
	for _, b := range bodies {
		if !b.Valid() {
			return nil, model.InputErrorf("bodies", "unknown body %q", b)
		}
	}
	bodies = inChaldeanOrder(bodies)

	chunk := time.Duration(s.cfg.ChunkDays) * 24 * time.Hour
	if chunk <= 0 {
		chunk = end.Sub(start)
	}

	pool := worker.NewPool(ctx, s.workers)
	pool.Start()
	jobs := 0
	for from := start; from.Before(end); from = from.Add(chunk) {
		to := from.Add(chunk)
		if to.After(end) {
			to = end
		}
		if !pool.Submit(&chunkJob{scanner: s, index: jobs, from: from, to: to, bodies: bodies}) {
			break
		}
		jobs++
	}
	results := pool.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chunks := make([]*chunkResult, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, r.(*chunkResult))
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].index < chunks[j].index })

	var events []model.Event
	for _, c := range chunks {
		if c.err != nil {
			return nil, fmt.Errorf("scan %s..%s: %w", c.from.Format(time.RFC3339), c.to.Format(time.RFC3339), c.err)
		}
		events = append(events, c.events...)
	}
	sortEvents(events)

	s.logger.Info("event scan complete",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("chunks", jobs),
		zap.Int("events", len(events)))
	return events, nil
}

func inChaldeanOrder(bodies []model.Body) []model.Body {
	seen := make(map[model.Body]bool, len(bodies))
	out := make([]model.Body, 0, len(bodies))
	for _, b := range bodies {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank() < out[j].Rank() })
	return out
}

func sortEvents(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Body != b.Body {
			return a.Body.Rank() < b.Body.Rank()
		}
		return a.Other.Rank() < b.Other.Rank()
	})
}

type chunkJob struct {
	scanner *Scanner
	index   int
	from    time.Time
	to      time.Time
	bodies  []model.Body
}

type chunkResult struct {
	index  int
	from   time.Time
	to     time.Time
	events []model.Event
	err    error
}

func (r *chunkResult) GetError() error { return r.err }

func (j *chunkJob) Execute(ctx context.Context) worker.Result {
	events, err := j.scanner.scanChunk(ctx, j.from, j.to, j.bodies)
	return &chunkResult{index: j.index, from: j.from, to: j.to, events: events, err: err}
}

type snapshot map[model.Body]model.Coordinates

func (s *Scanner) snapshot(ctx context.Context, t time.Time, bodies []model.Body) (snapshot, error) {
	out := make(snapshot, len(bodies))
	for _, b := range bodies {
		c, err := s.locator.Position(ctx, b, t)
		if err != nil {
			return nil, err
		}
		out[b] = c
	}
	return out, nil
}

// gap is the signed distance of the pair's forward separation from target
func gap(a, b model.Coordinates, target float64) float64 {
	return zodiac.Signed(target, zodiac.Forward(a.Longitude, b.Longitude))
}

// crossed reports a zero of the gap inside (prev, cur]. Jumps across the
// ±180 wrap are not crossings.
func crossed(prev, cur float64) bool {
	if prev == 0 || math.Abs(prev) >= 90 || math.Abs(cur) >= 90 {
		return false
	}
	return (prev < 0) != (cur < 0)
}

// scanChunk samples (from, to] at the configured step
func (s *Scanner) scanChunk(ctx context.Context, from, to time.Time, bodies []model.Body) ([]model.Event, error) {
	prev, err := s.snapshot(ctx, from, bodies)
	if err != nil {
		return nil, err
	}

	var events []model.Event
	for t := from; t.Before(to); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := t.Add(s.step())
		if next.After(to) {
			next = to
		}
		cur, err := s.snapshot(ctx, next, bodies)
		if err != nil {
			return nil, err
		}

		for _, b := range bodies {
			if zodiac.SignOf(prev[b].Longitude) == zodiac.SignOf(cur[b].Longitude) {
				continue
			}
			e, err := s.refineIngress(ctx, b, t, next)
			if err != nil {
				return nil, err
			}
			events = append(events, e)
		}

		for i, a := range bodies {
			for _, b := range bodies[i+1:] {
				for _, target := range exactTargets {
					gp := gap(prev[a], prev[b], target.angle)
					gc := gap(cur[a], cur[b], target.angle)
					var at time.Time
					switch {
					case gc == 0 && gp != 0:
						at = next
					case crossed(gp, gc):
						at, err = s.refineAspect(ctx, a, b, target.angle, t, next, gp < 0)
						if err != nil {
							return nil, err
						}
					default:
						continue
					}
					c, err := s.locator.Position(ctx, a, at)
					if err != nil {
						return nil, err
					}
					events = append(events, model.Event{
						Kind:       model.EventAspect,
						Time:       at,
						Body:       a,
						Other:      b,
						Aspect:     target.kind,
						Sign:       zodiac.SignOf(c.Longitude),
						Longitude:  zodiac.Normalize(c.Longitude),
						Retrograde: c.Speed < 0,
					})
				}
			}
		}

		prev, t = cur, next
	}
	return events, nil
}

// refineIngress bisects (lo, hi] down to the tolerance. The event is
// reported at the first instant known to be in the new sign.
func (s *Scanner) refineIngress(ctx context.Context, b model.Body, lo, hi time.Time) (model.Event, error) {
	c, err := s.locator.Position(ctx, b, lo)
	if err != nil {
		return model.Event{}, err
	}
	from := zodiac.SignOf(c.Longitude)
	for hi.Sub(lo) > s.tolerance() {
		mid := lo.Add(hi.Sub(lo) / 2)
		m, err := s.locator.Position(ctx, b, mid)
		if err != nil {
			return model.Event{}, err
		}
		if zodiac.SignOf(m.Longitude) == from {
			lo = mid
		} else {
			hi = mid
		}
	}
	c, err = s.locator.Position(ctx, b, hi)
	if err != nil {
		return model.Event{}, err
	}
	return model.Event{
		Kind:       model.EventIngress,
		Time:       hi,
		Body:       b,
		Sign:       zodiac.SignOf(c.Longitude),
		Longitude:  zodiac.Normalize(c.Longitude),
		Retrograde: c.Speed < 0,
	}, nil
}

// refineAspect bisects the gap's sign change and returns the midpoint of
// the final bracket
func (s *Scanner) refineAspect(ctx context.Context, a, b model.Body, target float64, lo, hi time.Time, loNegative bool) (time.Time, error) {
	for hi.Sub(lo) > s.tolerance() {
		mid := lo.Add(hi.Sub(lo) / 2)
		ca, err := s.locator.Position(ctx, a, mid)
		if err != nil {
			return time.Time{}, err
		}
		cb, err := s.locator.Position(ctx, b, mid)
		if err != nil {
			return time.Time{}, err
		}
		g := gap(ca, cb, target)
		if g == 0 {
			return mid, nil
		}
		if (g < 0) == loNegative {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo.Add(hi.Sub(lo) / 2), nil
}
