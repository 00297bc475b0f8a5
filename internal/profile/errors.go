package profile

import "errors"

var (
	// ErrNotFound indicates the requested profile doesn't exist.
	ErrNotFound = errors.New("profile not found")

	// ErrDuplicate indicates a profile with the same name already exists.
	ErrDuplicate = errors.New("profile already exists")

	// ErrIndexOutOfRange indicates a profile index past the end of the list.
	ErrIndexOutOfRange = errors.New("profile index out of range")

	// ErrInvalidName indicates a name that cannot be used as a directory name.
	ErrInvalidName = errors.New("invalid profile name")
)
