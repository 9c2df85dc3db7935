package repository

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoVersions is returned when a name has no stored snapshots.
	ErrNoVersions = errors.New("repository: no versions")

	// ErrInvalidName is returned for names that cannot be used as a key
	// segment.
	ErrInvalidName = errors.New("repository: invalid name")

	// ErrVersionConflict is returned when Save keeps losing the race for the
	// next version number.
	ErrVersionConflict = errors.New("repository: version conflict")
)

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
