package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/modport/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	RunE:  runEventsCmd,
}

var eventsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old events",
	RunE:  runEventsPruneCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsPruneCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().Duration("since", 0, "Only show events newer than this (e.g. 24h)")
	eventsPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "Delete events older than this")
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetDuration("since")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	log := events.NewEventLog(db)
	var items []events.RawEvent
	if since > 0 {
		items, err = log.Since(time.Now().Add(-since))
	} else {
		items, err = log.Recent(limit)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if jsonOutput {
		printJSON(items)
		return nil
	}

	if len(items) == 0 {
		fmt.Println("No events")
		return nil
	}

	fmt.Printf("Recent Events (%d):\n\n", len(items))
	fmt.Printf("  %-12s %-24s %s\n", "TIME", "TYPE", "PAYLOAD")
	fmt.Println("  " + strings.Repeat("-", 72))

	for _, e := range items {
		fmt.Printf("  %-12s %-24s %s\n", formatTimeAgo(e.OccurredAt), e.EventType, truncate(e.Payload, 60))
	}
	return nil
}

func runEventsPruneCmd(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	n, err := events.NewEventLog(db).Prune(olderThan)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d events\n", n)
	return nil
}
