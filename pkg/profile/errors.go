package profile

import "errors"

var (
	// ErrNotFound indicates the user has no stored assignments.
	ErrNotFound = errors.New("no profile found for user")

	// ErrEmptyUserID rejects lookups and saves without a user id.
	ErrEmptyUserID = errors.New("empty user id")

	// ErrRedisNotReady is returned when the Redis server did not become
	// reachable within the configured retry budget.
	ErrRedisNotReady = errors.New("redis did not become ready within the given time period")

	// ErrInvalidRedisURL indicates an unparseable Redis connection URL.
	ErrInvalidRedisURL = errors.New("failed to parse redis connection string")

	// ErrPostgresNotReady is returned when the Postgres pool could not be
	// established within the configured retry budget.
	ErrPostgresNotReady = errors.New("postgres did not become ready within the given time period")

	// ErrInvalidPostgresConfig indicates an unparseable connection string.
	ErrInvalidPostgresConfig = errors.New("failed to parse postgres connection string")
)
