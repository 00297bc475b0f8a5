package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/modport/internal/importer"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show import history",
	RunE:  runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().String("batch", "", "Only show one import batch")
	historyCmd.Flags().String("status", "", "Filter by status (imported, skipped_empty, skipped_no_descriptor, failed)")
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	batch, _ := cmd.Flags().GetString("batch")
	status, _ := cmd.Flags().GetString("status")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	filter := importer.HistoryFilter{Limit: limit}
	if batch != "" {
		filter.BatchID = &batch
	}
	if status != "" {
		s := importer.Status(status)
		filter.Status = &s
	}

	entries, err := importer.NewHistoryStore(db).List(filter)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	if jsonOutput {
		printJSON(entries)
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No import history")
		return nil
	}

	fmt.Printf("Import History (%d):\n\n", len(entries))
	fmt.Printf("  %-12s %-8s %-24s %-22s %s\n", "TIME", "BATCH", "PROFILE", "STATUS", "ERROR")
	fmt.Println("  " + strings.Repeat("-", 80))
	for _, h := range entries {
		fmt.Printf("  %-12s %-8s %-24s %-22s %s\n",
			formatTimeAgo(h.CreatedAt), shortID(h.BatchID), truncate(h.Profile, 24), h.Status, h.Error)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
