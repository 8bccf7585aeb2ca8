package snapshot

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/variantlab/expkit/pkg/bucketer"
	"github.com/variantlab/expkit/pkg/condition"
)

// Snapshot is an adopted, validated, immutable configuration. All lookups
// are O(1) map hits and safe for unsynchronized concurrent use.
type Snapshot struct {
	revision string

	experimentsByKey map[string]*Experiment
	experimentsByID  map[string]*Experiment
	featuresByKey    map[string]*FeatureFlag
	audiencesByID    map[string]*Audience
	groupsByID       map[string]*Group
	rolloutsByID     map[string]*Rollout
}

// New validates doc and adopts it as a snapshot. The document is copied;
// later mutation of doc does not affect the snapshot. Any malformed
// allocation table or dangling reference fails adoption with ErrIntegrity.
func New(doc Document) (*Snapshot, error) {
	s := &Snapshot{
		revision:         doc.Revision,
		experimentsByKey: make(map[string]*Experiment, len(doc.Experiments)),
		experimentsByID:  make(map[string]*Experiment, len(doc.Experiments)),
		featuresByKey:    make(map[string]*FeatureFlag, len(doc.FeatureFlags)),
		audiencesByID:    make(map[string]*Audience, len(doc.Audiences)),
		groupsByID:       make(map[string]*Group, len(doc.Groups)),
		rolloutsByID:     make(map[string]*Rollout, len(doc.Rollouts)),
	}

	for _, a := range doc.Audiences {
		if _, dup := s.audiencesByID[a.ID]; dup {
			return nil, errors.Join(ErrIntegrity, fmt.Errorf("duplicate audience id %q", a.ID))
		}
		aud := a
		tree, err := a.Conditions.tree()
		if err != nil {
			return nil, errors.Join(err, fmt.Errorf("audience %q", a.ID))
		}
		aud.tree = tree
		s.audiencesByID[a.ID] = &aud
	}

	for _, g := range doc.Groups {
		if _, dup := s.groupsByID[g.ID]; dup {
			return nil, errors.Join(ErrIntegrity, fmt.Errorf("duplicate group id %q", g.ID))
		}
		grp := g
		grp.ExperimentIDs = slices.Clone(g.ExperimentIDs)
		grp.TrafficAllocation = slices.Clone(g.TrafficAllocation)

		members := make(map[string]struct{}, len(grp.ExperimentIDs))
		for _, id := range grp.ExperimentIDs {
			members[id] = struct{}{}
		}
		if err := validateAllocation(grp.TrafficAllocation, members, "group "+g.ID); err != nil {
			return nil, err
		}
		s.groupsByID[g.ID] = &grp
	}

	for _, e := range doc.Experiments {
		exp, err := s.prepareExperiment(e)
		if err != nil {
			return nil, err
		}
		if exp.GroupID != "" {
			g, ok := s.groupsByID[exp.GroupID]
			if !ok {
				return nil, errors.Join(ErrIntegrity, fmt.Errorf("experiment %q references unknown group %q", exp.Key, exp.GroupID))
			}
			if !slices.Contains(g.ExperimentIDs, exp.ID) {
				return nil, errors.Join(ErrIntegrity, fmt.Errorf("experiment %q is not a member of group %q", exp.Key, exp.GroupID))
			}
		}
		if _, dup := s.experimentsByKey[exp.Key]; dup {
			return nil, errors.Join(ErrIntegrity, fmt.Errorf("duplicate experiment key %q", exp.Key))
		}
		if _, dup := s.experimentsByID[exp.ID]; dup {
			return nil, errors.Join(ErrIntegrity, fmt.Errorf("duplicate experiment id %q", exp.ID))
		}
		s.experimentsByKey[exp.Key] = exp
		s.experimentsByID[exp.ID] = exp
	}

	for _, r := range doc.Rollouts {
		if _, dup := s.rolloutsByID[r.ID]; dup {
			return nil, errors.Join(ErrIntegrity, fmt.Errorf("duplicate rollout id %q", r.ID))
		}
		ro := Rollout{ID: r.ID, Rules: make([]Experiment, 0, len(r.Rules))}
		for _, rule := range r.Rules {
			prepared, err := s.prepareExperiment(rule)
			if err != nil {
				return nil, errors.Join(err, fmt.Errorf("rollout %q", r.ID))
			}
			ro.Rules = append(ro.Rules, *prepared)
		}
		s.rolloutsByID[r.ID] = &ro
	}

	for _, f := range doc.FeatureFlags {
		if _, dup := s.featuresByKey[f.Key]; dup {
			return nil, errors.Join(ErrIntegrity, fmt.Errorf("duplicate feature key %q", f.Key))
		}
		flag := f
		flag.ExperimentIDs = slices.Clone(f.ExperimentIDs)
		for _, id := range flag.ExperimentIDs {
			if _, ok := s.experimentsByID[id]; !ok {
				return nil, errors.Join(ErrIntegrity, fmt.Errorf("feature %q references unknown experiment %q", f.Key, id))
			}
		}
		if flag.RolloutID != "" {
			if _, ok := s.rolloutsByID[flag.RolloutID]; !ok {
				return nil, errors.Join(ErrIntegrity, fmt.Errorf("feature %q references unknown rollout %q", f.Key, flag.RolloutID))
			}
		}
		s.featuresByKey[flag.Key] = &flag
	}

	return s, nil
}

// prepareExperiment copies e, builds its variation indexes, composes its
// audience gate, and validates its allocation table.
func (s *Snapshot) prepareExperiment(e Experiment) (*Experiment, error) {
	exp := e
	exp.Variations = slices.Clone(e.Variations)
	exp.TrafficAllocation = slices.Clone(e.TrafficAllocation)
	exp.AudienceIDs = slices.Clone(e.AudienceIDs)
	exp.ForcedVariations = maps.Clone(e.ForcedVariations)

	exp.variationsByID = make(map[string]*Variation, len(exp.Variations))
	exp.variationsByKey = make(map[string]*Variation, len(exp.Variations))
	allowed := make(map[string]struct{}, len(exp.Variations))
	for i := range exp.Variations {
		v := &exp.Variations[i]
		if _, dup := exp.variationsByID[v.ID]; dup {
			return nil, errors.Join(ErrIntegrity, fmt.Errorf("experiment %q: duplicate variation id %q", exp.Key, v.ID))
		}
		if _, dup := exp.variationsByKey[v.Key]; dup {
			return nil, errors.Join(ErrIntegrity, fmt.Errorf("experiment %q: duplicate variation key %q", exp.Key, v.Key))
		}
		exp.variationsByID[v.ID] = v
		exp.variationsByKey[v.Key] = v
		allowed[v.ID] = struct{}{}
	}

	if err := validateAllocation(exp.TrafficAllocation, allowed, "experiment "+exp.Key); err != nil {
		return nil, err
	}

	for user, key := range exp.ForcedVariations {
		if _, ok := exp.variationsByKey[key]; !ok {
			return nil, errors.Join(ErrIntegrity, fmt.Errorf("experiment %q: forced variation %q for user %q does not exist", exp.Key, key, user))
		}
	}

	gate, err := s.composeGate(&exp)
	if err != nil {
		return nil, err
	}
	exp.gate = gate
	return &exp, nil
}

// composeGate resolves the experiment's audience gate: an inline condition
// tree wins; otherwise referenced audience ids are composed with Or; no
// references means no gate (nil).
func (s *Snapshot) composeGate(exp *Experiment) (*condition.Tree, error) {
	if exp.AudienceConditions != nil {
		return exp.AudienceConditions.tree()
	}
	if len(exp.AudienceIDs) == 0 {
		return nil, nil
	}
	children := make([]*condition.Tree, 0, len(exp.AudienceIDs))
	for _, id := range exp.AudienceIDs {
		aud, ok := s.audiencesByID[id]
		if !ok {
			return nil, errors.Join(ErrIntegrity, fmt.Errorf("experiment %q references unknown audience %q", exp.Key, id))
		}
		children = append(children, aud.tree)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return condition.NewNode(condition.Or, children...)
}

// validateAllocation enforces the table invariants: bounds within the
// allocation space, strictly increasing, and every entity resolvable.
func validateAllocation(table []bucketer.Allocation, allowed map[string]struct{}, owner string) error {
	prev := -1
	for i, a := range table {
		if a.EndOfRange < 0 || a.EndOfRange > bucketer.MaxTrafficValue {
			return errors.Join(ErrIntegrity, fmt.Errorf("%s: allocation %d bound %d outside [0, %d]", owner, i, a.EndOfRange, bucketer.MaxTrafficValue))
		}
		if a.EndOfRange <= prev {
			return errors.Join(ErrIntegrity, fmt.Errorf("%s: allocation %d bound %d not increasing", owner, i, a.EndOfRange))
		}
		if _, ok := allowed[a.EntityID]; !ok {
			return errors.Join(ErrIntegrity, fmt.Errorf("%s: allocation %d references unknown entity %q", owner, i, a.EntityID))
		}
		prev = a.EndOfRange
	}
	return nil
}

// Revision identifies the document version this snapshot was built from.
func (s *Snapshot) Revision() string { return s.revision }

// ExperimentByKey resolves a top-level experiment by key.
func (s *Snapshot) ExperimentByKey(key string) (*Experiment, bool) {
	e, ok := s.experimentsByKey[key]
	return e, ok
}

// ExperimentByID resolves a top-level experiment by id.
func (s *Snapshot) ExperimentByID(id string) (*Experiment, bool) {
	e, ok := s.experimentsByID[id]
	return e, ok
}

// FeatureByKey resolves a feature flag by key.
func (s *Snapshot) FeatureByKey(key string) (*FeatureFlag, bool) {
	f, ok := s.featuresByKey[key]
	return f, ok
}

// AudienceByID resolves an audience by id.
func (s *Snapshot) AudienceByID(id string) (*Audience, bool) {
	a, ok := s.audiencesByID[id]
	return a, ok
}

// GroupByID resolves a mutual-exclusion group by id.
func (s *Snapshot) GroupByID(id string) (*Group, bool) {
	g, ok := s.groupsByID[id]
	return g, ok
}

// RolloutByID resolves a rollout by id.
func (s *Snapshot) RolloutByID(id string) (*Rollout, bool) {
	r, ok := s.rolloutsByID[id]
	return r, ok
}
