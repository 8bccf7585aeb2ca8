package semver

import "errors"

var (
	// ErrInvalidVersion is returned for any string that does not satisfy
	// the version grammar. Joined detail names the offending fragment.
	ErrInvalidVersion = errors.New("invalid semantic version")

	// ErrEmptyVersion is returned when an empty string is parsed.
	ErrEmptyVersion = errors.New("empty semantic version")
)
