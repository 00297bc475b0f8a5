// Package profile manages the profiles of the active game: their database
// records and their directories on disk.
package profile

import "time"

// Profile is a named collection of selected mods.
type Profile struct {
	ID        int64
	Game      string
	Name      string
	Path      string
	Source    string // "r2" for imported profiles, empty when created locally
	CreatedAt time.Time
}

// Mod is one mod selected in a profile.
type Mod struct {
	FullName string
	Version  string
	Enabled  bool
}
