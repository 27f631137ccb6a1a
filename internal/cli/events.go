package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/almuten/internal/events"
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/pipeline"
	"github.com/ppiankov/almuten/internal/zodiac"
	"github.com/spf13/cobra"
)

var (
	eventsFrom    string
	eventsTo      string
	eventsBodies  string
	eventsJSON    string
	eventsTimeout time.Duration
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List sign ingresses and exact aspects in a date range",
	Long: `Events scans the ephemeris between two instants and lists:
- Sign ingresses, including retrograde re-entries
- Exact Ptolemaic aspects between every pair of bodies

The range is sampled at events.step_minutes and each hit refined by
bisection down to events.tolerance_minutes.

Example:
  almuten events --from 2024-01-01 --to 2024-02-01
  almuten events --from 2024-03-01T00:00:00Z --to 2024-03-08T00:00:00Z --bodies Sun,Moon,Mars
  almuten events --from 2024-01-01 --to 2024-12-31 --json events.json`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVar(&eventsFrom, "from", "", "range start (RFC 3339 or YYYY-MM-DD, UTC)")
	eventsCmd.Flags().StringVar(&eventsTo, "to", "", "range end (RFC 3339 or YYYY-MM-DD, UTC)")
	eventsCmd.Flags().StringVar(&eventsBodies, "bodies", "", "comma-separated bodies to scan (default all seven)")
	eventsCmd.Flags().StringVar(&eventsJSON, "json", "", "also write the events as JSON to this path")
	eventsCmd.Flags().DurationVar(&eventsTimeout, "timeout", 10*time.Minute, "overall scan timeout")
	eventsCmd.Flags().StringVar(&ephemerisPath, "ephemeris", "", "ephemeris store or table (overrides ephemeris.path)")
	_ = eventsCmd.MarkFlagRequired("from")
	_ = eventsCmd.MarkFlagRequired("to")
}

func runEvents(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), eventsTimeout)
	defer cancel()

	start, err := parseInstant("from", eventsFrom)
	if err != nil {
		return err
	}
	end, err := parseInstant("to", eventsTo)
	if err != nil {
		return err
	}
	bodies, err := parseBodies(eventsBodies)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ephemerisPath != "" {
		cfg.Ephemeris.Path = ephemerisPath
	}

	oracle, err := pipeline.OpenOracle(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = oracle.Close() }()

	scanner := events.NewScanner(oracle, cfg.Events, cfg.Concurrency.Workers, logger)
	found, err := scanner.Scan(ctx, start, end, bodies)
	if err != nil {
		return fmt.Errorf("event scan failed: %w", err)
	}

	if eventsJSON != "" {
		if err := writeEventsJSON(eventsJSON, found); err != nil {
			return err
		}
		if verbose {
			stderrf("Wrote %d events to %s\n", len(found), eventsJSON)
		}
	}
	writeEvents(cmd.OutOrStdout(), found)
	return nil
}

// parseInstant accepts RFC 3339 or a bare UTC date
func parseInstant(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, model.InputErrorf(field, "unrecognized instant %q (want RFC 3339 or YYYY-MM-DD)", s)
}

// parseBodies reads a comma-separated body list; empty means all bodies
func parseBodies(s string) ([]model.Body, error) {
	var out []model.Body
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b, ok := model.ParseBody(part)
		if !ok {
			return nil, model.InputErrorf("bodies", "unknown body %q", part)
		}
		out = append(out, b)
	}
	return out, nil
}

func writeEvents(w io.Writer, found []model.Event) {
	if len(found) == 0 {
		fmt.Fprintln(w, "No events in range.")
		return
	}
	for _, e := range found {
		retro := ""
		if e.Retrograde {
			retro = " (retrograde)"
		}
		stamp := e.Time.Format("2006-01-02 15:04")
		switch e.Kind {
		case model.EventIngress:
			fmt.Fprintf(w, "%s  %-8s enters %s%s\n", stamp, e.Body, e.Sign, retro)
		case model.EventAspect:
			fmt.Fprintf(w, "%s  %-8s %s %s at %s%s\n", stamp, e.Body, e.Aspect, e.Other, formatDegree(e.Longitude), retro)
		}
	}
}

func formatDegree(lon float64) string {
	d, m, sign := zodiac.Format(lon)
	return fmt.Sprintf("%02d°%02d' %s", d, m, sign)
}

func writeEventsJSON(path string, found []model.Event) error {
	if found == nil {
		found = []model.Event{}
	}
	data, err := json.MarshalIndent(found, "", "  ")
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
