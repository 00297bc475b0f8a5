// internal/importer/errors.go
package importer

import "errors"

var (
	// ErrDescriptorRead indicates mods.yml exists but could not be read.
	ErrDescriptorRead = errors.New("failed to read mods.yml")

	// ErrDescriptorParse indicates mods.yml is not a valid mod list.
	ErrDescriptorParse = errors.New("failed to parse mods.yml")

	// ErrDeleteExisting indicates a profile with the same name could not be removed.
	ErrDeleteExisting = errors.New("failed to delete existing profile")

	// ErrImport wraps an install failure for a single profile.
	ErrImport = errors.New("failed to import profile")

	// ErrRegistryTimeout indicates the catalog was not ready within the configured wait.
	ErrRegistryTimeout = errors.New("timed out waiting for mod catalog")
)
