package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/modport/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List local profiles",
	RunE:  runProfilesCmd,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.Flags().BoolP("mods", "m", false, "Show each profile's mods")
}

type profileRow struct {
	*profile.Profile
	Mods []profile.Mod
}

func runProfilesCmd(cmd *cobra.Command, args []string) error {
	showMods, _ := cmd.Flags().GetBool("mods")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	store := profile.NewStore(db)
	profiles, err := store.ListProfiles(cfg.Game.R2DirName)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	rows := make([]profileRow, 0, len(profiles))
	for _, p := range profiles {
		mods, err := store.ListMods(p.ID)
		if err != nil {
			return fmt.Errorf("list mods: %w", err)
		}
		rows = append(rows, profileRow{Profile: p, Mods: mods})
	}

	if jsonOutput {
		printJSON(rows)
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No profiles")
		return nil
	}

	fmt.Printf("Profiles for %s (%d):\n\n", cfg.Game.Name, len(rows))
	fmt.Printf("  %-4s %-28s %-6s %-5s %s\n", "ID", "NAME", "SOURCE", "MODS", "CREATED")
	fmt.Println("  " + strings.Repeat("-", 64))
	for _, r := range rows {
		src := r.Source
		if src == "" {
			src = "-"
		}
		fmt.Printf("  %-4d %-28s %-6s %-5d %s\n", r.ID, truncate(r.Name, 28), src, len(r.Mods), formatTimeAgo(r.CreatedAt))
		if showMods {
			for _, m := range r.Mods {
				state := ""
				if !m.Enabled {
					state = " (disabled)"
				}
				fmt.Printf("         %s %s%s\n", m.FullName, m.Version, state)
			}
		}
	}
	return nil
}
