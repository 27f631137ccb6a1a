package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/almuten/internal/ephemeris"
	"github.com/ppiankov/almuten/internal/ephemeris/sqlite"
	"github.com/ppiankov/almuten/internal/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importDB string

// ephemerisCmd groups ephemeris maintenance commands
var ephemerisCmd = &cobra.Command{
	Use:   "ephemeris",
	Short: "Manage the tabulated ephemeris",
}

var ephemerisImportCmd = &cobra.Command{
	Use:   "import <table.yaml>",
	Short: "Import a YAML ephemeris table into a SQLite store",
	Long: `Import reads the rows of a YAML ephemeris table and upserts them into a
SQLite store, which then serves as ephemeris.path. Re-importing a row for
the same body and instant replaces it.

Example:
  almuten ephemeris import rows-1990.yaml --db ~/.almuten/ephemeris.db`,
	Args: cobra.ExactArgs(1),
	RunE: runEphemerisImport,
}

func init() {
	rootCmd.AddCommand(ephemerisCmd)
	ephemerisCmd.AddCommand(ephemerisImportCmd)

	ephemerisImportCmd.Flags().StringVar(&importDB, "db", "", "SQLite store to write (default ephemeris.path)")
}

func runEphemerisImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db := importDB
	if db == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db = cfg.Ephemeris.Path
	}
	if db == "" {
		return model.ConfigErrorf("ephemeris.path", nil, "no store given (use --db or set ephemeris.path)")
	}

	rows, err := ephemeris.ReadRows(args[0])
	if err != nil {
		return err
	}

	store, err := sqlite.Open(db)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := store.Import(ctx, rows)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	logger.Info("ephemeris imported", zap.String("table", args[0]), zap.String("db", db), zap.Int("rows", n))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Imported %d rows into %s\n\n", n, db)
	for _, b := range model.Bodies() {
		count, err := store.Count(ctx, b)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-8s %d rows\n", b, count)
	}
	fmt.Fprintln(out)
	return nil
}
