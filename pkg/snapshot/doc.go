// Package snapshot holds the immutable configuration a decision service
// operates on: experiments, feature flags, audiences, mutual-exclusion
// groups, and rollouts.
//
// A Snapshot is built once from a Document, either constructed in code or
// decoded from a JSON/YAML datafile, and never mutated afterwards. The
// external configuration manager replaces snapshots wholesale; concurrent
// decision calls against the same snapshot need no locking.
//
// Construction is also where integrity is enforced. Traffic-allocation
// tables must be strictly increasing and stay within the allocation space,
// and every cross-reference (variation ids in allocations, audience ids on
// experiments, experiment ids on features and groups) must resolve.
// Violations surface as ErrIntegrity at adoption time so the hashing path
// never validates per call.
//
//	snap, err := snapshot.ParseJSON(datafile)
//	if err != nil {
//		// reject the document, keep serving the previous snapshot
//	}
//	exp, ok := snap.ExperimentByKey("checkout-redesign")
//
// Audience gates referenced by id are composed with Or, matching the
// datafile shape where an experiment lists qualifying audience ids.
package snapshot
