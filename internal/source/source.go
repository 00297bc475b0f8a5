// Package source locates the data directories of third-party mod managers
// and enumerates the profiles stored in them.
package source

import "fmt"

// Kind names one of the supported external mod managers.
type Kind string

const (
	KindR2modman     Kind = "r2modman"
	KindThunderstore Kind = "thunderstore"
)

// ParseKind converts a user supplied name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindR2modman, KindThunderstore:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown source %q (want %s or %s)", s, KindR2modman, KindThunderstore)
}

// ManagerData holds one optional value per external mod manager.
// A nil slot means the manager was not found, or nothing could be computed for it.
type ManagerData[T any] struct {
	R2modman     *T `json:"r2modman"`
	Thunderstore *T `json:"thunderstore"`
}

// Get returns the slot for kind.
func (d ManagerData[T]) Get(kind Kind) *T {
	switch kind {
	case KindR2modman:
		return d.R2modman
	case KindThunderstore:
		return d.Thunderstore
	}
	return nil
}

// MapManagerData applies f to every present slot of d. Absent slots stay absent,
// and a slot for which f reports false becomes absent.
func MapManagerData[T, U any](d ManagerData[T], f func(T) (U, bool)) ManagerData[U] {
	return ManagerData[U]{
		R2modman:     mapSlot(d.R2modman, f),
		Thunderstore: mapSlot(d.Thunderstore, f),
	}
}

func mapSlot[T, U any](v *T, f func(T) (U, bool)) *U {
	if v == nil {
		return nil
	}
	u, ok := f(*v)
	if !ok {
		return nil
	}
	return &u
}

// ProfileImportData is the result of scanning one manager's profile directory.
type ProfileImportData struct {
	Path     string   `json:"path"`
	Profiles []string `json:"profiles"`
}
