package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/modport/internal/source"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List profiles found in installed mod managers",
	RunE:  runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	info, err := source.GatherInfo(source.DefaultLocator(), cfg.Game.R2DirName)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if jsonOutput {
		printJSON(info)
		return nil
	}

	printScan(source.KindR2modman, info.R2modman)
	printScan(source.KindThunderstore, info.Thunderstore)
	return nil
}

func printScan(kind source.Kind, data *source.ProfileImportData) {
	if data == nil {
		fmt.Printf("%s: not found\n\n", kind)
		return
	}

	fmt.Printf("%s: %s\n", kind, data.Path)
	if len(data.Profiles) == 0 {
		fmt.Println("  No profiles")
		fmt.Println()
		return
	}
	fmt.Printf("  %-4s %s\n", "#", "PROFILE")
	fmt.Println("  " + strings.Repeat("-", 40))
	for i, name := range data.Profiles {
		fmt.Printf("  %-4d %s\n", i, name)
	}
	fmt.Println()
}
