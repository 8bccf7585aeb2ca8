// Package decision orchestrates which variation, if any, a user receives
// for an experiment or feature flag.
//
// A Service is constructed against one immutable configuration snapshot
// and optional collaborators: a sticky-profile store and a fault
// reporter. It holds no global state; swapping configuration means
// constructing a new Service around the new snapshot.
//
// # Experiment precedence
//
// ForExperiment runs a strict precedence machine, short-circuiting on the
// first definitive outcome:
//
//  1. Forced override: a per-user entry in the experiment's override map
//     wins unconditionally, even when the experiment is paused or the
//     audience would reject the user.
//  2. Status: a non-running experiment decides nothing.
//  3. Sticky lookup: a stored assignment whose variation still exists is
//     returned as-is; stale references are discarded silently.
//  4. Audience gate: the condition tree must evaluate True; both False
//     and Unknown fail the experiment without error.
//  5. Group exclusion: an experiment in a mutual-exclusion group is only
//     eligible when the group-level bucketing names it.
//  6. Experiment bucketing over the experiment's own allocation table.
//  7. Write-back of a fresh assignment to the profile store.
//
// The bucketing key defaults to the user id; a string value under the
// reserved BucketingIDAttribute overrides it.
//
// # Feature precedence
//
// ForFeature consults the flag's experiments in declared order, then the
// rollout's rules in declared order. Rollout rules skip the forced and
// sticky stages; the first rule whose audience passes is terminal,
// whether or not its bucketing check places the user.
//
// # Failure semantics
//
// No stage errors on business-level absence: unknown keys, missing
// audiences, empty attributes, and an absent or failing profile store all
// degrade to the zero Decision. The only reportable faults are condition
// defects (wrong-typed literals, malformed versions); they reach the
// Reporter and the affected leaf evaluates Unknown while the decision
// machine keeps going.
package decision
