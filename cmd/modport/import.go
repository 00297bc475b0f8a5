package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vmunix/modport/internal/config"
	"github.com/vmunix/modport/internal/importer"
	"github.com/vmunix/modport/internal/server"
	"github.com/vmunix/modport/internal/source"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import profiles from another mod manager",
	Long: `Import profiles from another mod manager.

Every profile found is imported unless --only narrows the selection.
A local profile with the same name as an imported one is replaced.`,
	RunE: runImportCmd,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("source", string(source.KindR2modman), "Mod manager to import from (r2modman, thunderstore)")
	importCmd.Flags().String("path", "", "Mod manager data directory (default: located automatically)")
	importCmd.Flags().StringSlice("only", nil, "Import only the named profiles")
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	sourceName, _ := cmd.Flags().GetString("source")
	rootFlag, _ := cmd.Flags().GetString("path")
	only, _ := cmd.Flags().GetStringSlice("only")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kind, err := source.ParseKind(sourceName)
	if err != nil {
		return err
	}
	root, err := resolveRoot(source.DefaultLocator(), kind, rootFlag)
	if err != nil {
		return err
	}

	include, err := importer.Select(root, cfg.Game.R2DirName, only)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := server.NewRunner(db, runnerConfig(cfg), newLogger(cfg))
	if !jsonOutput {
		runner.OnStatus(func(message string) { fmt.Println(message) })
	}

	result, err := runner.Run(ctx, root, include)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if jsonOutput {
		printJSON(outcomeRows(result))
	} else {
		printOutcomes(result)
	}
	if result.Count(importer.StatusFailed) > 0 {
		return errors.New("some profiles failed to import")
	}
	return nil
}

func runnerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Game:              cfg.Game.R2DirName,
		GameDir:           cfg.Game.R2DirName,
		ProfilesRoot:      cfg.Profiles.Root,
		Community:         cfg.Game.Community,
		CatalogURL:        cfg.Catalog.URL,
		Snapshot:          cfg.Catalog.Snapshot,
		PollInterval:      cfg.Catalog.PollInterval,
		MaxWait:           cfg.Catalog.MaxWait,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Attempts:          cfg.Catalog.Attempts,
		CacheTTL:          cfg.Catalog.CacheTTL,
	}
}

// resolveRoot returns the data directory to import from: the explicit path
// when given, otherwise the located directory of kind.
func resolveRoot(l source.Locator, kind source.Kind, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	root, err := l.Find(kind)
	if errors.Is(err, source.ErrSourceNotFound) {
		return "", fmt.Errorf("%w; use --path", err)
	}
	return root, err
}

type outcomeRow struct {
	Profile    string `json:"profile"`
	Status     string `json:"status"`
	Mods       int    `json:"mods"`
	Error      string `json:"error,omitempty"`
	RolledBack bool   `json:"rolled_back,omitempty"`
}

func outcomeRows(r *importer.BatchResult) []outcomeRow {
	rows := make([]outcomeRow, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		row := outcomeRow{Profile: o.Name, Status: string(o.Status), Mods: o.Mods, RolledBack: o.RolledBack}
		if o.Err != nil {
			row.Error = o.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

func printOutcomes(r *importer.BatchResult) {
	if len(r.Outcomes) == 0 {
		fmt.Println("No profiles imported")
		return
	}

	fmt.Printf("\nImport %s (%d profiles):\n\n", r.ID, len(r.Outcomes))
	fmt.Printf("  %-28s %-22s %-5s %s\n", "PROFILE", "STATUS", "MODS", "ERROR")
	fmt.Println("  " + strings.Repeat("-", 72))
	for _, row := range outcomeRows(r) {
		fmt.Printf("  %-28s %-22s %-5d %s\n", truncate(row.Profile, 28), row.Status, row.Mods, row.Error)
	}
}
