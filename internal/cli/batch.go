package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/almuten/internal/pipeline"
	"github.com/ppiankov/almuten/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list>",
	Short: "Analyze many charts from a list file in parallel",
	Long: `Batch analyzes many charts concurrently:
- Read chart paths from the list file (one per line, # comments allowed)
- Analyze charts in parallel with a configurable worker count
- All charts share one ephemeris and its cache
- Write a JSON and a Markdown report per chart

Example:
  almuten batch charts.txt
  almuten batch charts.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for reports (default from output.dir, else ./almuten-reports)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&ephemerisPath, "ephemeris", "", "ephemeris store or table (overrides ephemeris.path)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ephemerisPath != "" {
		cfg.Ephemeris.Path = ephemerisPath
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	dir := outputDir
	if dir == "" {
		dir = cfg.Output.Dir
	}
	if dir == "" {
		dir = "./almuten-reports"
	}

	stderrf("\n")
	stderrf("═══════════════════════════════════════════════════════════\n")
	stderrf("  Almuten Batch Processing\n")
	stderrf("═══════════════════════════════════════════════════════════\n")
	stderrf("\n")
	stderrf("  Chart list:   %s\n", file)
	stderrf("  Workers:      %d\n", cfg.Concurrency.Workers)
	stderrf("  Output dir:   %s\n", dir)
	stderrf("  Timeout:      %v\n", batchTimeout)
	stderrf("\n")

	if err := ensureDir(dir); err != nil {
		return err
	}

	oracle, err := pipeline.OpenOracle(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = oracle.Close() }()

	p := pipeline.NewPipeline(cfg, oracle, logger)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, logger)

	stderrf("⚙️  Analyzing charts with %d workers...\n\n", cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	used := make(map[string]bool)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			stderrf("✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		name := result.Report.Chart.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path))
		}
		slug := uniqueSlug(used, name)

		jsonPath := filepath.Join(dir, slug+".json")
		mdPath := filepath.Join(dir, slug+".md")
		if err := p.RenderReport(result.Report, jsonPath, mdPath, verbose); err != nil {
			failureCount++
			stderrf("✗ %s: %v\n", result.Path, err)
			continue
		}

		successCount++
		stderrf("✓ %s (almuten: %s)\n", name, result.Report.Score.Almuten)
	}

	// Summary
	stderrf("\n")
	stderrf("═══════════════════════════════════════════════════════════\n")
	stderrf("  Batch Complete\n")
	stderrf("═══════════════════════════════════════════════════════════\n")
	stderrf("\n")
	stderrf("  Total:     %d charts\n", len(results))
	stderrf("  Success:   %d\n", successCount)
	stderrf("  Failures:  %d\n", failureCount)
	stderrf("  Output:    %s\n", dir)
	if oracle.Cache != nil {
		st := oracle.Cache.Stats()
		stderrf("  Cache:     %d hits, %d misses\n", st.Hits, st.Misses)
	}
	stderrf("\n")

	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename sanitizes a chart name for use as a filename
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".-_")
	if s == "" {
		s = "chart"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}

// uniqueSlug returns a filename for name that is not yet in used, adding a
// numeric suffix on collision, and records it
func uniqueSlug(used map[string]bool, name string) string {
	base := sanitizeFilename(name)
	slug := base
	for n := 2; used[slug]; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	used[slug] = true
	return slug
}
