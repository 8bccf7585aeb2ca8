package decision

import (
	"context"
	"log/slog"

	"github.com/variantlab/expkit/pkg/bucketer"
	"github.com/variantlab/expkit/pkg/condition"
)

// ForFeature decides which variation user receives for the feature flag
// with the given key: the flag's experiments in declared order first, then
// the rollout's rules in declared order.
func (s *Service) ForFeature(ctx context.Context, featureKey string, user User) Decision {
	flag, ok := s.snap.FeatureByKey(featureKey)
	if !ok {
		s.log.DebugContext(ctx, "feature not in snapshot", slog.String("feature_key", featureKey))
		return Decision{}
	}

	for _, id := range flag.ExperimentIDs {
		exp, ok := s.snap.ExperimentByID(id)
		if !ok {
			continue
		}
		if d := s.decide(ctx, exp, user, true); !d.None() {
			d.Source = SourceExperiment
			return d
		}
	}

	if flag.RolloutID == "" {
		return Decision{}
	}
	rollout, ok := s.snap.RolloutByID(flag.RolloutID)
	if !ok {
		return Decision{}
	}

	// Rollout rules skip the forced and sticky stages: only the audience
	// gate and the rule's (typically 100%) bucketing check apply. The
	// first rule whose audience passes is terminal, bucketed or not.
	bucketingID := user.BucketingID()
	for i := range rollout.Rules {
		rule := &rollout.Rules[i]

		if gate := rule.Gate(); gate != nil {
			res := condition.Evaluate(gate, user.Attributes,
				condition.WithLogger(s.log),
				condition.WithFaultHook(s.faultHook(ctx, rule, user)),
			)
			if res != condition.True {
				continue
			}
		}

		variationID, ok := bucketer.Bucket(bucketingID, rule.ID, rule.TrafficAllocation)
		if !ok {
			return Decision{}
		}
		v, ok := rule.VariationByID(variationID)
		if !ok {
			return Decision{}
		}
		return s.decision(rule, v, SourceRollout)
	}

	return Decision{}
}
