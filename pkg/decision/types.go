package decision

import "github.com/variantlab/expkit/pkg/condition"

// Source tags which precedence stage produced a decision.
type Source string

const (
	// SourceNone marks the zero Decision: the user gets nothing.
	SourceNone Source = ""
	// SourceForced marks a per-user override from the experiment config.
	SourceForced Source = "forced"
	// SourceSticky marks an assignment replayed from the profile store.
	SourceSticky Source = "sticky"
	// SourceExperiment marks a fresh experiment bucketing.
	SourceExperiment Source = "experiment"
	// SourceRollout marks a rollout-rule bucketing.
	SourceRollout Source = "rollout"
)

// Decision is the outcome of one evaluation. The zero value means "no
// decision"; it is produced fresh per call and never retained.
type Decision struct {
	ExperimentID   string
	ExperimentKey  string
	VariationID    string
	VariationKey   string
	FeatureEnabled bool
	Source         Source
}

// None reports whether no variation was assigned.
func (d Decision) None() bool { return d.VariationID == "" }

// BucketingIDAttribute is the reserved attribute that overrides the
// bucketing key for a user. Only non-empty string values apply.
const BucketingIDAttribute = "$opt_bucketing_id"

// User identifies who is being decided for.
type User struct {
	ID         string
	Attributes condition.Attributes
}

// BucketingID returns the key hashed during bucketing: the reserved
// attribute override when present, the user id otherwise.
func (u User) BucketingID() string {
	if v, ok := u.Attributes[BucketingIDAttribute].(string); ok && v != "" {
		return v
	}
	return u.ID
}
