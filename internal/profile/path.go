package profile

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the canonical form used to compare profile names.
// Names decoded from different filesystems may differ only in Unicode
// composition (macOS stores decomposed names).
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// validateName rejects names that would not map to a single directory under the root.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ValidatePath ensures the path is within the expected root directory.
func ValidatePath(path, expectedRoot string) error {
	cleanPath := filepath.Clean(path)
	cleanRoot := filepath.Clean(expectedRoot)

	if !strings.HasSuffix(cleanRoot, string(filepath.Separator)) {
		cleanRoot += string(filepath.Separator)
	}

	if cleanPath != filepath.Clean(expectedRoot) && !strings.HasPrefix(cleanPath, cleanRoot) {
		return fmt.Errorf("%w: %s escapes %s", ErrInvalidName, path, expectedRoot)
	}
	return nil
}
