package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/modport/internal/profile"
	"github.com/vmunix/modport/internal/source"
)

// Select builds an include mask for Run over the profiles under root.
// An empty only selects every profile; names are compared after NFC
// normalization. Naming a profile that does not exist is an error.
func Select(root, gameDir string, only []string) ([]bool, error) {
	profiles, err := source.Discover(root, gameDir)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[profile.NormalizeName(name)] = true
	}

	include := []bool{}
	matched := map[string]bool{}
	for dir := range profiles {
		name := profile.NormalizeName(filepath.Base(dir))
		selected := len(only) == 0 || wanted[name]
		if selected {
			matched[name] = true
		}
		include = append(include, selected)
	}

	var missing []string
	for _, name := range only {
		if !matched[profile.NormalizeName(name)] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("profiles not found: %s", strings.Join(missing, ", "))
	}
	return include, nil
}
