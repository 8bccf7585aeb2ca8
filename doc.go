// Package expkit is a feature-experimentation decision engine: it takes an
// immutable project configuration, a user, and their attributes, and
// deterministically decides which experiment variation or feature state the
// user receives.
//
// The engine is a library of focused packages:
//
//   - pkg/snapshot  – adopts and validates a configuration datafile (JSON or
//     YAML) into an immutable, query-ready snapshot
//   - pkg/condition – tri-state audience condition trees and match
//     evaluators over user attributes
//   - pkg/semver    – the lenient version dialect used by semver matchers
//   - pkg/bucketer  – deterministic murmur3-based traffic splitting
//   - pkg/profile   – sticky-assignment stores (memory, Redis, Postgres)
//   - pkg/decision  – the precedence machine tying it all together
//   - pkg/config    – environment-driven settings and collaborator wiring
//   - pkg/logger    – slog factory with the engine's attribute vocabulary
//
// Basic Usage:
//
//	snap, err := snapshot.ParseJSON(datafile)
//	if err != nil {
//		return err
//	}
//
//	svc := decision.New(snap,
//		decision.WithProfileStore(profile.NewMemoryStore()),
//	)
//
//	d := svc.ForExperiment(ctx, "checkout-redesign", decision.User{
//		ID:         "user-42",
//		Attributes: condition.Attributes{"plan": "gold"},
//	})
//	if !d.None() {
//		render(d.VariationKey)
//	}
//
// Decisions are pure with respect to the snapshot: the same snapshot, user
// id, and attributes always produce the same outcome, so the engine can run
// in-process on every request with no coordination.
package expkit
