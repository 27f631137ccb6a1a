package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/almuten/internal/chartfile"
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON       string
	outMD         string
	outFormat     string
	timeout       time.Duration
	ephemerisPath string
	houseSystem   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <chart>",
	Short: "Analyze one chart and find its Almuten Figuris",
	Long: `Analyze reads a chart (.hor or .yaml) and reports, for each planet:
- Essential dignity and debility
- Sect, halb and hayz
- Motion, visibility and solar phase
- Aspects, fixed-star conjunctions and relationships
- Its Almuten Figuris score, with every contributing signal

Example:
  almuten analyze natal.hor
  almuten analyze natal.yaml --json report.json --md report.md
  almuten analyze natal.hor --format json --ephemeris ~/ephemeris.db`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().StringVar(&outFormat, "format", "", "stdout format: console, json or markdown (default from output.format)")

	// Analysis flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&ephemerisPath, "ephemeris", "", "ephemeris store or table (overrides ephemeris.path)")
	analyzeCmd.Flags().StringVar(&houseSystem, "house-system", "", "house system override: W (whole sign) or E (equal)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ephemerisPath != "" {
		cfg.Ephemeris.Path = ephemerisPath
	}

	in, err := chartfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("load chart: %w", err)
	}
	if houseSystem != "" {
		in.HouseSystem = houseSystem
	}

	oracle, err := pipeline.OpenOracle(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = oracle.Close() }()

	p := pipeline.NewPipeline(cfg, oracle, logger)
	report, err := p.Analyze(ctx, in)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	format := outFormat
	if format == "" {
		format = cfg.Output.Format
	}
	return writeReport(cmd.OutOrStdout(), report, format)
}

// writeReport prints the report to stdout in the chosen format
func writeReport(w io.Writer, report *model.Report, format string) error {
	r := pipeline.NewRenderer()
	switch strings.ToLower(format) {
	case "", "console":
		r.WriteSummary(w, report)
	case "json":
		return r.WriteJSON(w, report)
	case "markdown", "md":
		r.WriteMarkdown(w, report)
	default:
		return model.InputErrorf("format", "unknown output format %q (want console, json or markdown)", format)
	}
	return nil
}

// stderrf prints progress lines that never mix with report output
func stderrf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
}
