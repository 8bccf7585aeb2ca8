package snapshot

import (
	"errors"
	"fmt"

	"github.com/variantlab/expkit/pkg/bucketer"
	"github.com/variantlab/expkit/pkg/condition"
)

// Status is the lifecycle state of an experiment. Only running
// experiments bucket traffic; paused and archived ones decide nothing
// (forced overrides excepted).
type Status string

const (
	StatusRunning    Status = "Running"
	StatusPaused     Status = "Paused"
	StatusNotStarted Status = "Not started"
	StatusArchived   Status = "Archived"
)

// Variation is one arm of an experiment.
type Variation struct {
	ID             string `json:"id" yaml:"id"`
	Key            string `json:"key" yaml:"key"`
	FeatureEnabled bool   `json:"featureEnabled,omitempty" yaml:"featureEnabled,omitempty"`
}

// Experiment describes a single experiment or rollout rule. The ordered
// TrafficAllocation partitions the allocation space over variation ids;
// positions beyond the last bound are a holdout.
type Experiment struct {
	ID                string                `json:"id" yaml:"id"`
	Key               string                `json:"key" yaml:"key"`
	Status            Status                `json:"status" yaml:"status"`
	Variations        []Variation           `json:"variations" yaml:"variations"`
	TrafficAllocation []bucketer.Allocation `json:"trafficAllocation" yaml:"trafficAllocation"`

	// AudienceIDs and AudienceConditions both gate eligibility; an inline
	// condition tree wins, an id list is composed with Or at adoption.
	AudienceIDs        []string       `json:"audienceIds,omitempty" yaml:"audienceIds,omitempty"`
	AudienceConditions *ConditionNode `json:"audienceConditions,omitempty" yaml:"audienceConditions,omitempty"`

	// GroupID marks membership in a mutual-exclusion group.
	GroupID string `json:"groupId,omitempty" yaml:"groupId,omitempty"`

	// ForcedVariations maps user ids to variation keys that bypass every
	// decision stage.
	ForcedVariations map[string]string `json:"forcedVariations,omitempty" yaml:"forcedVariations,omitempty"`

	variationsByID  map[string]*Variation
	variationsByKey map[string]*Variation
	gate            *condition.Tree
}

// IsRunning reports whether the experiment buckets traffic.
func (e *Experiment) IsRunning() bool { return e.Status == StatusRunning }

// VariationByID resolves a variation by id.
func (e *Experiment) VariationByID(id string) (*Variation, bool) {
	v, ok := e.variationsByID[id]
	return v, ok
}

// VariationByKey resolves a variation by key.
func (e *Experiment) VariationByKey(key string) (*Variation, bool) {
	v, ok := e.variationsByKey[key]
	return v, ok
}

// Gate returns the composed audience condition tree, nil when the
// experiment is open to everyone.
func (e *Experiment) Gate() *condition.Tree { return e.gate }

// Group is a set of mutually exclusive experiments sharing one outer
// allocation, so a user is bucketed into at most one member.
type Group struct {
	ID                string                `json:"id" yaml:"id"`
	Policy            string                `json:"policy,omitempty" yaml:"policy,omitempty"`
	ExperimentIDs     []string              `json:"experimentIds" yaml:"experimentIds"`
	TrafficAllocation []bucketer.Allocation `json:"trafficAllocation" yaml:"trafficAllocation"`
}

// FeatureFlag attaches experiments and an optional rollout to a feature
// key. Experiments are consulted in declared order before the rollout.
type FeatureFlag struct {
	ID            string   `json:"id" yaml:"id"`
	Key           string   `json:"key" yaml:"key"`
	ExperimentIDs []string `json:"experimentIds,omitempty" yaml:"experimentIds,omitempty"`
	RolloutID     string   `json:"rolloutId,omitempty" yaml:"rolloutId,omitempty"`
}

// Rollout is an ordered sequence of audience-gated single-variation rules
// used to progressively enable a feature. Rules reuse the Experiment
// shape but skip forced and sticky decision stages.
type Rollout struct {
	ID    string       `json:"id" yaml:"id"`
	Rules []Experiment `json:"rules" yaml:"rules"`
}

// Audience names a reusable condition tree.
type Audience struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name,omitempty" yaml:"name,omitempty"`
	Conditions *ConditionNode `json:"conditions" yaml:"conditions"`

	tree *condition.Tree
}

// Tree returns the built condition tree.
func (a *Audience) Tree() *condition.Tree { return a.tree }

// ConditionNode is the document form of a condition tree: an operator node
// carries Op and Children, a leaf carries Name, Match, and Value.
type ConditionNode struct {
	Op       string           `json:"op,omitempty" yaml:"op,omitempty"`
	Children []*ConditionNode `json:"children,omitempty" yaml:"children,omitempty"`
	Name     string           `json:"name,omitempty" yaml:"name,omitempty"`
	Match    string           `json:"match,omitempty" yaml:"match,omitempty"`
	Value    any              `json:"value,omitempty" yaml:"value,omitempty"`
}

// tree builds the runtime condition tree. Operator arity is enforced here;
// unknown match tags are deliberately let through so that documents written
// for newer evaluators degrade to Unknown instead of being rejected.
func (n *ConditionNode) tree() (*condition.Tree, error) {
	if n == nil {
		return nil, nil
	}
	if n.Op == "" {
		return &condition.Tree{Leaf: &condition.Leaf{
			Name:  n.Name,
			Match: condition.MatchType(n.Match),
			Value: n.Value,
		}}, nil
	}
	children := make([]*condition.Tree, 0, len(n.Children))
	for _, c := range n.Children {
		if c == nil {
			return nil, errors.Join(ErrIntegrity, errors.New("nil condition child"))
		}
		ct, err := c.tree()
		if err != nil {
			return nil, err
		}
		children = append(children, ct)
	}
	t, err := condition.NewNode(condition.Operator(n.Op), children...)
	if err != nil {
		return nil, errors.Join(ErrIntegrity, fmt.Errorf("condition node %q: %w", n.Op, err))
	}
	return t, nil
}

// Document is the decoded form of a configuration datafile.
type Document struct {
	Revision     string        `json:"revision,omitempty" yaml:"revision,omitempty"`
	Experiments  []Experiment  `json:"experiments,omitempty" yaml:"experiments,omitempty"`
	FeatureFlags []FeatureFlag `json:"featureFlags,omitempty" yaml:"featureFlags,omitempty"`
	Groups       []Group       `json:"groups,omitempty" yaml:"groups,omitempty"`
	Audiences    []Audience    `json:"audiences,omitempty" yaml:"audiences,omitempty"`
	Rollouts     []Rollout     `json:"rollouts,omitempty" yaml:"rollouts,omitempty"`
}
