package source

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

const (
	r2modmanDirName     = "r2modmanPlus-local"
	thunderstoreDirName = "Thunderstore Mod Manager"
	thunderstoreDataDir = "DataFolder"
)

// Locator finds mod manager data directories under the platform base directories.
type Locator struct {
	GOOS       string
	ConfigHome string
	DataHome   string
}

// DefaultLocator returns a Locator for the running platform.
func DefaultLocator() Locator {
	l := Locator{
		GOOS:       runtime.GOOS,
		ConfigHome: xdg.ConfigHome,
		DataHome:   xdg.DataHome,
	}
	if l.GOOS == "windows" {
		// Both managers live in the roaming profile, which xdg maps to config.
		if dir, err := os.UserConfigDir(); err == nil {
			l.DataHome = dir
		}
	}
	return l
}

// BaseDir returns the directory both managers keep their data under.
// r2modman uses the config directory instead of the data directory on linux.
func (l Locator) BaseDir() (string, error) {
	dir := l.DataHome
	if l.GOOS == "linux" {
		dir = l.ConfigHome
	}
	if dir == "" {
		return "", ErrBaseDirUnresolved
	}
	return dir, nil
}

// Locate returns the data directory of each manager that exists on disk.
func (l Locator) Locate() (ManagerData[string], error) {
	base, err := l.BaseDir()
	if err != nil {
		return ManagerData[string]{}, err
	}
	return ManagerData[string]{
		R2modman:     existingDir(filepath.Join(base, r2modmanDirName)),
		Thunderstore: existingDir(filepath.Join(base, thunderstoreDirName, thunderstoreDataDir)),
	}, nil
}

// Find returns the data directory of kind, or ErrSourceNotFound.
func (l Locator) Find(kind Kind) (string, error) {
	paths, err := l.Locate()
	if err != nil {
		return "", err
	}
	dir := paths.Get(kind)
	if dir == nil {
		return "", fmt.Errorf("%s: %w", kind, ErrSourceNotFound)
	}
	return *dir, nil
}

func existingDir(path string) *string {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return &path
}
