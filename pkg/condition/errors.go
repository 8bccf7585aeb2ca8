package condition

import "errors"

var (
	// ErrTypeMismatch indicates a condition literal with the wrong static
	// type for its match operator. This is a configuration defect; a
	// wrong-typed attribute value is Unknown, not an error.
	ErrTypeMismatch = errors.New("condition literal has wrong type for match operator")

	// ErrUnknownMatchType indicates a leaf carrying a match tag the
	// registry does not know.
	ErrUnknownMatchType = errors.New("unknown match type")

	// ErrMalformedVersion indicates a semantic-version operand that failed
	// to parse during a semver match.
	ErrMalformedVersion = errors.New("malformed semantic version in condition")

	// ErrInvalidTree indicates a structurally invalid tree, such as a Not
	// node without exactly one child.
	ErrInvalidTree = errors.New("invalid condition tree")
)
