// Package pipeline orchestrates one chart analysis: oracle fetch, the
// single-body passes, relationships, scoring and report rendering.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/almuten/internal/aspect"
	"github.com/ppiankov/almuten/internal/dignity"
	"github.com/ppiankov/almuten/internal/ephemeris"
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/motion"
	"github.com/ppiankov/almuten/internal/relate"
	"github.com/ppiankov/almuten/internal/score"
	"github.com/ppiankov/almuten/internal/sect"
	"github.com/ppiankov/almuten/internal/stars"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pipeline orchestrates the complete analysis
type Pipeline struct {
	provider  ephemeris.Provider
	motion    *motion.Classifier
	aspects   *aspect.Engine
	relations *relate.Analyzer
	scorer    *score.Scorer
	renderer  *Renderer
	config    *model.Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewPipeline creates a new pipeline over an ephemeris provider
func NewPipeline(cfg *model.Config, provider ephemeris.Provider, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		provider:  provider,
		motion:    motion.NewClassifier(cfg.Motion),
		aspects:   aspect.NewEngine(cfg.Aspects),
		relations: relate.NewAnalyzer(cfg.Relations),
		scorer:    score.NewScorer(cfg.Scoring),
		renderer:  NewRenderer(),
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// oracleData is everything fetched from the ephemeris before analysis
type oracleData struct {
	coords   map[model.Body]model.Coordinates
	houses   model.Houses
	stars    []model.StarPosition
	solarDay model.SolarDay
	syzygy   model.Syzygy
}

// fetch runs every oracle query concurrently; the first failure aborts the rest
func (p *Pipeline) fetch(ctx context.Context, in model.ChartInput) (*oracleData, error) {
	var d oracleData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := p.provider.Positions(ctx, in.Time, model.Bodies())
		if err != nil {
			return fmt.Errorf("positions: %w", err)
		}
		d.coords = c
		return nil
	})
	g.Go(func() error {
		h, err := p.provider.Houses(ctx, in.Time, in.Latitude, in.Longitude, in.HouseSystem)
		if err != nil {
			return fmt.Errorf("houses: %w", err)
		}
		d.houses = h
		return nil
	})
	g.Go(func() error {
		s, err := p.provider.Stars(ctx, in.Time)
		if err != nil {
			return fmt.Errorf("stars: %w", err)
		}
		d.stars = s
		return nil
	})
	g.Go(func() error {
		sd, err := p.provider.SolarDay(ctx, in.Time, in.Latitude, in.Longitude)
		if err != nil {
			return fmt.Errorf("solar day: %w", err)
		}
		d.solarDay = sd
		return nil
	})
	g.Go(func() error {
		sz, err := p.provider.Syzygy(ctx, in.Time, in.Latitude, in.Longitude)
		if err != nil {
			return fmt.Errorf("syzygy: %w", err)
		}
		d.syzygy = sz
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, b := range model.Bodies() {
		if _, ok := d.coords[b]; !ok {
			return nil, model.ConfigErrorf("ephemeris", nil, "no position for %s", b)
		}
	}
	return &d, nil
}

// Analyze runs the full analysis of one chart. Nothing partial is returned
// on error.
func (p *Pipeline) Analyze(ctx context.Context, in model.ChartInput) (*model.Report, error) {
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	log := p.logger.With(zap.String("chart", in.Name), zap.Time("time", in.Time))

	// 1. Oracle data up front
	d, err := p.fetch(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("ephemeris: %w", err)
	}

	// 2. Positions with houses
	positions := make([]model.BodyPosition, 0, len(model.ChaldeanOrder))
	for _, b := range model.Bodies() {
		c := d.coords[b]
		positions = append(positions, model.BodyPosition{
			Body:       b,
			Longitude:  c.Longitude,
			Latitude:   c.Latitude,
			Speed:      c.Speed,
			House:      ephemeris.HouseOf(c.Longitude, d.houses),
			Retrograde: c.Speed < 0,
		})
	}
	sun := positions[model.Sun.Rank()]
	chartSect := sect.ChartSect(sun.House)

	// 3. Single-body passes, each writing its own slot
	n := len(positions)
	dignities := make([]model.DignityFacts, n)
	sects := make([]model.SectFacts, n)
	motions := make([]model.MotionFacts, n)
	hits := make([][]model.StarHit, n)
	var aspects []model.AspectFact
	locator := stars.NewLocator(p.config.Stars, d.stars)

	var g errgroup.Group
	g.Go(func() error {
		for i, pos := range positions {
			dignities[i] = dignity.Evaluate(pos.Body, pos.Longitude, chartSect)
		}
		return nil
	})
	g.Go(func() error {
		for i, pos := range positions {
			sects[i] = sect.Classify(pos, sun.Longitude, chartSect)
		}
		return nil
	})
	g.Go(func() error {
		for i, pos := range positions {
			motions[i] = p.motion.Classify(pos, sun.Longitude)
		}
		return nil
	})
	g.Go(func() error {
		for i, pos := range positions {
			hits[i] = locator.Conjunctions(pos.Longitude)
		}
		return nil
	})
	g.Go(func() error {
		aspects = p.aspects.All(positions)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	// 4. Join, then relationships
	dignityByBody := make(map[model.Body]model.DignityFacts, n)
	sectByBody := make(map[model.Body]model.SectFacts, n)
	for i, pos := range positions {
		dignityByBody[pos.Body] = dignities[i]
		sectByBody[pos.Body] = sects[i]
	}
	rel := p.relations.Analyze(relate.Input{
		Positions: positions,
		Dignity:   dignityByBody,
		Sect:      sectByBody,
		Aspects:   aspects,
	})

	// 5. Scoring
	planetary := score.PlanetaryTime(in.Time, in.Longitude, d.solarDay)
	table := p.scorer.Calculate(score.Input{
		Positions: positions,
		Houses:    d.houses,
		ChartSect: chartSect,
		Syzygy:    d.syzygy,
		Planetary: planetary,
	})

	// 6. Report
	report := &model.Report{
		RunID:         uuid.NewString(),
		GeneratedAt:   p.now().UTC(),
		Chart:         in,
		ChartSect:     chartSect,
		Houses:        d.houses,
		Aspects:       aspects,
		Relationships: rel,
		Planetary:     planetary,
		Syzygy:        d.syzygy,
		Score:         table,
	}
	for i, pos := range positions {
		report.Bodies = append(report.Bodies, model.BodyReport{
			Position:      pos,
			Dignity:       dignities[i],
			Sect:          sects[i],
			Motion:        motions[i],
			Stars:         hits[i],
			Relationships: rel.Bodies[pos.Body],
		})
	}

	log.Info("chart analyzed",
		zap.String("run_id", report.RunID),
		zap.String("sect", string(chartSect)),
		zap.Int("aspects", len(aspects)),
		zap.String("almuten", string(table.Almuten)),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

// RenderReport writes the report to the requested JSON and Markdown files
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			p.logger.Info("wrote JSON", zap.String("path", jsonPath))
		}
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			p.logger.Info("wrote Markdown", zap.String("path", mdPath))
		}
	}
	return nil
}
