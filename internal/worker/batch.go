package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/almuten/internal/chartfile"
	"github.com/ppiankov/almuten/internal/model"
	"go.uber.org/zap"
)

// Analyzer analyzes one chart
type Analyzer interface {
	Analyze(ctx context.Context, in model.ChartInput) (*model.Report, error)
}

// ChartJob loads one chart file and analyzes it
type ChartJob struct {
	Index    int
	Path     string
	Analyzer Analyzer
}

// Execute executes the chart job
func (j *ChartJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res := &ChartResult{Index: j.Index, Path: j.Path}

	in, err := chartfile.Load(j.Path)
	if err != nil {
		res.Error = err
		res.Elapsed = time.Since(start)
		return res
	}
	report, err := j.Analyzer.Analyze(ctx, in)
	res.Report, res.Error = report, err
	res.Elapsed = time.Since(start)
	return res
}

// ChartResult represents the result of a chart job
type ChartResult struct {
	Index   int
	Path    string
	Report  *model.Report
	Error   error
	Elapsed time.Duration
}

// GetError returns the error from the chart result
func (r *ChartResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many chart files concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessCharts analyzes the chart files and returns one result per path,
// in input order. A failed chart never stops the others.
func (b *BatchProcessor) ProcessCharts(ctx context.Context, paths []string) []*ChartResult {
	if len(paths) == 0 {
		return []*ChartResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, path := range paths {
		if !pool.Submit(&ChartJob{Index: i, Path: path, Analyzer: b.analyzer}) {
			b.logger.Warn("batch cancelled", zap.Int("submitted", i), zap.Int("total", len(paths)))
			break
		}
	}

	results := pool.Wait()

	chartResults := make([]*ChartResult, len(results))
	for i, result := range results {
		r := result.(*ChartResult)
		chartResults[i] = r
		if r.Error != nil {
			b.logger.Warn("chart failed", zap.String("path", r.Path), zap.Error(r.Error))
		} else {
			b.logger.Debug("chart analyzed",
				zap.String("path", r.Path),
				zap.String("almuten", string(r.Report.Score.Almuten)),
				zap.Duration("elapsed", r.Elapsed))
		}
	}
	chartResults = fillMissing(ctx, paths, chartResults)
	sort.Slice(chartResults, func(i, j int) bool { return chartResults[i].Index < chartResults[j].Index })

	return chartResults
}

// fillMissing adds an errored result for every path the pool never
// reported, so a cancelled batch still accounts for each chart
func fillMissing(ctx context.Context, paths []string, results []*ChartResult) []*ChartResult {
	seen := make([]bool, len(paths))
	for _, r := range results {
		if r.Index >= 0 && r.Index < len(seen) {
			seen[r.Index] = true
		}
	}
	cause := ctx.Err()
	if cause == nil {
		cause = context.Canceled
	}
	for i, ok := range seen {
		if !ok {
			results = append(results, &ChartResult{
				Index: i,
				Path:  paths[i],
				Error: fmt.Errorf("chart not processed: %w", cause),
			})
		}
	}
	return results
}

// ProcessFile reads chart paths from a list file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*ChartResult, error) {
	paths, err := ReadChartList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read chart list: %w", err)
	}

	return b.ProcessCharts(ctx, paths), nil
}

// ReadChartList reads chart file paths from a file (one per line). Blank
// lines and # comments are skipped, duplicates dropped, and relative paths
// resolved against the list's directory.
func ReadChartList(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
