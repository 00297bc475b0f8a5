package source

import "errors"

var (
	// ErrBaseDirUnresolved indicates the platform data directory could not be determined.
	ErrBaseDirUnresolved = errors.New("platform data directory unresolved")

	// ErrProfilesNotFound indicates the manager has no profiles directory for the game.
	ErrProfilesNotFound = errors.New("profiles not found")

	// ErrSourceNotFound indicates the requested manager is not installed.
	ErrSourceNotFound = errors.New("mod manager data directory not found")
)
