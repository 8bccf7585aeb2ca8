package decision

import (
	"context"
	"errors"
	"log/slog"

	"github.com/variantlab/expkit/pkg/bucketer"
	"github.com/variantlab/expkit/pkg/condition"
	"github.com/variantlab/expkit/pkg/profile"
	"github.com/variantlab/expkit/pkg/snapshot"
)

// Service decides variations against one immutable snapshot. It is safe
// for unsynchronized concurrent use; the only blocking calls are the
// profile-store reads and writes at the boundary.
type Service struct {
	snap     *snapshot.Snapshot
	store    profile.Store
	log      *slog.Logger
	reporter Reporter
}

// Option configures a Service.
type Option func(*Service)

// WithProfileStore enables sticky bucketing through the given store.
func WithProfileStore(store profile.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithLogger routes service logging to the given logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithReporter replaces the default log-only fault reporter.
func WithReporter(r Reporter) Option {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// New constructs a Service around an adopted snapshot. All collaborators
// are explicit; there is no process-wide state to reach into.
func New(snap *snapshot.Snapshot, opts ...Option) *Service {
	s := &Service{
		snap: snap,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		s.reporter = slogReporter{log: s.log}
	}
	return s
}

// ForExperiment decides which variation user receives for the experiment
// with the given key. An unknown key is "no decision", not an error.
func (s *Service) ForExperiment(ctx context.Context, experimentKey string, user User) Decision {
	exp, ok := s.snap.ExperimentByKey(experimentKey)
	if !ok {
		s.log.DebugContext(ctx, "experiment not in snapshot", slog.String("experiment_key", experimentKey))
		return Decision{}
	}
	return s.decide(ctx, exp, user, true)
}

// decide runs the precedence machine for one experiment. Sticky stages
// apply only when useProfile is set; rollout rules pass false.
func (s *Service) decide(ctx context.Context, exp *snapshot.Experiment, user User, useProfile bool) Decision {
	// Stage 1: forced override, unconditional. Adoption-time validation
	// guarantees the referenced variation key exists.
	if key, ok := exp.ForcedVariations[user.ID]; ok {
		if v, ok := exp.VariationByKey(key); ok {
			s.log.DebugContext(ctx, "forced variation override",
				slog.String("experiment_key", exp.Key),
				slog.String("user_id", user.ID),
				slog.String("variation_key", v.Key),
			)
			return s.decision(exp, v, SourceForced)
		}
	}

	// Stage 2: only running experiments bucket traffic.
	if !exp.IsRunning() {
		return Decision{}
	}

	// Stage 3: sticky replay.
	if useProfile && s.store != nil {
		if d, ok := s.stickyDecision(ctx, exp, user); ok {
			return d
		}
	}

	// Stage 4: audience gate. False and Unknown both fail.
	if gate := exp.Gate(); gate != nil {
		res := condition.Evaluate(gate, user.Attributes,
			condition.WithLogger(s.log),
			condition.WithFaultHook(s.faultHook(ctx, exp, user)),
		)
		if res != condition.True {
			s.log.DebugContext(ctx, "audience gate failed",
				slog.String("experiment_key", exp.Key),
				slog.String("user_id", user.ID),
				slog.String("result", res.String()),
			)
			return Decision{}
		}
	}

	bucketingID := user.BucketingID()

	// Stage 5: mutual-exclusion group. The group allocation must name
	// this experiment, otherwise the user belongs to a sibling or to the
	// group's holdout.
	if exp.GroupID != "" {
		g, ok := s.snap.GroupByID(exp.GroupID)
		if !ok {
			return Decision{}
		}
		winner, ok := bucketer.Bucket(bucketingID, g.ID, g.TrafficAllocation)
		if !ok || winner != exp.ID {
			return Decision{}
		}
	}

	// Stage 6: experiment bucketing.
	variationID, ok := bucketer.Bucket(bucketingID, exp.ID, exp.TrafficAllocation)
	if !ok {
		return Decision{}
	}
	v, ok := exp.VariationByID(variationID)
	if !ok {
		return Decision{}
	}

	// Stage 7: persist. Failures are logged and never change the outcome.
	if useProfile && s.store != nil {
		if err := s.store.Save(ctx, user.ID, exp.ID, v.ID); err != nil {
			s.log.WarnContext(ctx, "sticky assignment save failed",
				slog.String("experiment_id", exp.ID),
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
		}
	}

	return s.decision(exp, v, SourceExperiment)
}

// stickyDecision replays a stored assignment when it still resolves in the
// current snapshot. Store errors and stale references read as "nothing
// stored".
func (s *Service) stickyDecision(ctx context.Context, exp *snapshot.Experiment, user User) (Decision, bool) {
	stored, err := s.store.Lookup(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			s.log.WarnContext(ctx, "sticky assignment lookup failed",
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
		}
		return Decision{}, false
	}

	variationID, ok := stored[exp.ID]
	if !ok {
		return Decision{}, false
	}
	v, ok := exp.VariationByID(variationID)
	if !ok {
		// The variation was removed by a config update; recompute below.
		s.log.DebugContext(ctx, "discarding stale sticky assignment",
			slog.String("experiment_id", exp.ID),
			slog.String("user_id", user.ID),
			slog.String("variation_id", variationID),
		)
		return Decision{}, false
	}
	return s.decision(exp, v, SourceSticky), true
}

func (s *Service) decision(exp *snapshot.Experiment, v *snapshot.Variation, src Source) Decision {
	return Decision{
		ExperimentID:   exp.ID,
		ExperimentKey:  exp.Key,
		VariationID:    v.ID,
		VariationKey:   v.Key,
		FeatureEnabled: v.FeatureEnabled,
		Source:         src,
	}
}

// faultHook bridges condition faults into the Reporter with decision
// context attached.
func (s *Service) faultHook(ctx context.Context, exp *snapshot.Experiment, user User) condition.FaultHook {
	return func(f condition.Fault) {
		s.reporter.Report(ctx, Fault{
			ID:            newFaultID(),
			UserID:        user.ID,
			ExperimentKey: exp.Key,
			AttributeName: f.AttributeName,
			Match:         f.Match,
			Err:           f.Err,
		})
	}
}
