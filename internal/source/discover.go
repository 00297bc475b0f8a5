package source

import (
	"errors"
	"fmt"
	"io/fs"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sync/atomic"
)

// readBatch is how many directory entries are read per call.
const readBatch = 32

// ProfilesDir returns <root>/<gameDir>/profiles.
func ProfilesDir(root, gameDir string) string {
	return filepath.Join(root, gameDir, "profiles")
}

// Discover enumerates the profile directories of a manager rooted at root.
//
// The returned sequence is lazy and single-pass: it yields directory paths in
// the order the filesystem returns them and yields nothing when ranged a second
// time. It holds the profiles directory open until it has been ranged over.
// Entries that cannot be read are skipped; the rest are still listed.
func Discover(root, gameDir string) (iter.Seq[string], error) {
	dir := ProfilesDir(root, gameDir)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrProfilesNotFound, dir)
		}
		return nil, fmt.Errorf("stat profiles dir: %w", err)
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("read profiles dir %s: %w", dir, err)
	}

	var used atomic.Bool
	return func(yield func(string) bool) {
		if used.Swap(true) {
			return
		}
		defer func() { _ = f.Close() }()
		listDirs(f, dir, yield)
	}, nil
}

// maxReadErrors bounds consecutive failed reads that return no entries, so a
// directory that fails persistently ends the listing.
const maxReadErrors = 3

// dirReader is implemented by *os.File.
type dirReader interface {
	ReadDir(n int) ([]fs.DirEntry, error)
}

// listDirs yields the subdirectories read from r in batches. A failed read
// skips the entry it failed on and the listing continues with the next batch.
func listDirs(r dirReader, dir string, yield func(string) bool) {
	failures := 0
	for {
		entries, err := r.ReadDir(readBatch)
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if !yield(filepath.Join(dir, e.Name())) {
				return
			}
		}
		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, io.EOF):
			return
		case len(entries) > 0:
			failures = 0
		default:
			failures++
			if failures >= maxReadErrors {
				return
			}
		}
	}
}

// GatherInfo scans every located manager for profiles of gameDir.
// Managers without a profiles directory are left absent.
func GatherInfo(l Locator, gameDir string) (ManagerData[ProfileImportData], error) {
	paths, err := l.Locate()
	if err != nil {
		return ManagerData[ProfileImportData]{}, err
	}

	return MapManagerData(paths, func(root string) (ProfileImportData, bool) {
		profiles, err := Discover(root, gameDir)
		if err != nil {
			return ProfileImportData{}, false
		}
		names := []string{}
		for p := range profiles {
			names = append(names, filepath.Base(p))
		}
		return ProfileImportData{Path: root, Profiles: names}, true
	}), nil
}
