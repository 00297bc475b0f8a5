// Package mods parses the mod list descriptor kept in r2modman profile directories.
package mods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DescriptorFile is the name of the mod list inside a profile directory.
const DescriptorFile = "mods.yml"

var (
	// ErrMissingName indicates a descriptor entry without a package name.
	ErrMissingName = errors.New("mod entry has no name")

	// ErrUnreadable indicates the descriptor file could not be read.
	ErrUnreadable = errors.New("descriptor unreadable")
)

// Version is a semantic version as written by r2modman.
type Version struct {
	Major int `yaml:"major" json:"major"`
	Minor int `yaml:"minor" json:"minor"`
	Patch int `yaml:"patch" json:"patch"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Ref identifies one mod and version listed in a descriptor.
type Ref struct {
	// Name is the package full name, "Owner-Name".
	Name    string  `json:"name"`
	Version Version `json:"version"`
	Enabled bool    `json:"enabled"`
}

// Ident returns the versioned identifier, e.g. "BepInEx-BepInExPack-5.4.2100".
func (r Ref) Ident() string {
	return r.Name + "-" + r.Version.String()
}

// rawRef mirrors a mods.yml entry. r2modman writes many more fields;
// only the ones needed to identify the mod are decoded.
type rawRef struct {
	Name          string  `yaml:"name"`
	VersionNumber Version `yaml:"versionNumber"`
	Enabled       *bool   `yaml:"enabled"`
}

// ParseDescriptor decodes a mods.yml document into an ordered list of refs.
// An empty document yields an empty list.
func ParseDescriptor(data []byte) ([]Ref, error) {
	var raw []rawRef
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", DescriptorFile, err)
	}

	refs := make([]Ref, 0, len(raw))
	for i, r := range raw {
		if r.Name == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrMissingName)
		}
		enabled := true
		if r.Enabled != nil {
			enabled = *r.Enabled
		}
		refs = append(refs, Ref{Name: r.Name, Version: r.VersionNumber, Enabled: enabled})
	}
	return refs, nil
}

// ReadDescriptor reads and parses the descriptor inside profileDir.
// Read failures satisfy errors.Is(err, ErrUnreadable); a missing descriptor
// additionally satisfies errors.Is(err, fs.ErrNotExist).
func ReadDescriptor(profileDir string) ([]Ref, error) {
	path := filepath.Join(profileDir, DescriptorFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	return ParseDescriptor(data)
}
