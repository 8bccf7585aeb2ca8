// Package semver parses and compares the semantic-version dialect used by
// audience targeting conditions.
//
// The dialect is stricter than SemVer 2.0 in some places and looser in
// others, and both deviations are part of the targeting contract:
//
//   - The numeric core may carry one, two, or three parts ("3", "3.7",
//     "3.7.1"). A target version with fewer parts than the actual version
//     acts as a prefix wildcard: "3.7" matches every "3.7.x".
//   - Pre-release and build-metadata tags are accepted only after a full
//     three-part core, so "1.2-beta" is invalid.
//   - Pre-release identifiers are compared as plain ASCII strings, never
//     numerically.
//   - Build metadata is parsed and retained but never participates in
//     comparison.
//
// Parsing is a single iterative scan; no recursion is involved, so
// adversarial input cannot exhaust the stack.
//
// # Usage
//
//	actual, err := semver.Parse("3.7.1-beta.2+build.5")
//	if err != nil {
//		// malformed version string
//	}
//	target, _ := semver.Parse("3.7")
//	switch semver.Compare(actual, target) {
//	case 0:
//		// versions match (here: prefix wildcard)
//	}
//
// CompareRaw combines both steps and treats an empty target as "matches
// everything", which is how absent condition operands behave upstream.
package semver
