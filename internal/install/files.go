package install

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmunix/modport/internal/profile"
)

// ErrCopyFailed indicates a config file could not be copied.
var ErrCopyFailed = errors.New("failed to copy file")

// configDirs are the directories of a source profile holding user configuration.
var configDirs = []string{
	filepath.Join("BepInEx", "config"),
}

// configFiles lists every file to copy from root, relative to root.
// Config directories that don't exist are skipped.
func configFiles(root string, extra []string) ([]string, error) {
	var files []string
	for _, dir := range configDirs {
		base := filepath.Join(root, dir)
		if _, err := os.Stat(base); err != nil {
			continue
		}
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", base, err)
		}
	}
	return append(files, extra...), nil
}

// copyInto copies root/rel to dstRoot/rel, replacing any existing file.
func copyInto(root, dstRoot, rel string) error {
	src := filepath.Join(root, rel)
	dst := filepath.Join(dstRoot, rel)
	if err := profile.ValidatePath(dst, dstRoot); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrCopyFailed, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open source: %v", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: create destination: %v", ErrCopyFailed, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: copy content: %v", ErrCopyFailed, err)
	}
	return nil
}
