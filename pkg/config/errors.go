package config

import "errors"

var (
	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("nil pointer provided to config loader")

	// ErrParsingConfig is returned when environment variables cannot be
	// parsed into the destination struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrEnvFileNotLoaded is returned when an explicitly named .env file
	// cannot be read.
	ErrEnvFileNotLoaded = errors.New("failed to load env file")

	// ErrUnknownBackend is returned when PROFILE_BACKEND names a store
	// this build does not provide.
	ErrUnknownBackend = errors.New("unknown profile backend")

	// ErrUnknownFormat is returned when SNAPSHOT_FORMAT is neither json
	// nor yaml.
	ErrUnknownFormat = errors.New("unknown snapshot format")
)
