package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variantlab/expkit/pkg/bucketer"
	"github.com/variantlab/expkit/pkg/condition"
	"github.com/variantlab/expkit/pkg/snapshot"
)

func validDocument() snapshot.Document {
	return snapshot.Document{
		Revision: "42",
		Audiences: []snapshot.Audience{
			{
				ID:   "aud-gold",
				Name: "Gold plan",
				Conditions: &snapshot.ConditionNode{
					Name: "plan", Match: "exact", Value: "gold",
				},
			},
			{
				ID:   "aud-de",
				Name: "Germany",
				Conditions: &snapshot.ConditionNode{
					Name: "country", Match: "exact", Value: "de",
				},
			},
		},
		Groups: []snapshot.Group{
			{
				ID:            "grp-1",
				Policy:        "random",
				ExperimentIDs: []string{"exp-a", "exp-b"},
				TrafficAllocation: []bucketer.Allocation{
					{EntityID: "exp-a", EndOfRange: 5000},
					{EntityID: "exp-b", EndOfRange: 10000},
				},
			},
		},
		Experiments: []snapshot.Experiment{
			{
				ID:     "exp-a",
				Key:    "checkout-redesign",
				Status: snapshot.StatusRunning,
				Variations: []snapshot.Variation{
					{ID: "var-1", Key: "control"},
					{ID: "var-2", Key: "treatment"},
				},
				TrafficAllocation: []bucketer.Allocation{
					{EntityID: "var-1", EndOfRange: 5000},
					{EntityID: "var-2", EndOfRange: 10000},
				},
				AudienceIDs:      []string{"aud-gold", "aud-de"},
				GroupID:          "grp-1",
				ForcedVariations: map[string]string{"qa-user": "treatment"},
			},
			{
				ID:     "exp-b",
				Key:    "pricing-page",
				Status: snapshot.StatusRunning,
				Variations: []snapshot.Variation{
					{ID: "var-3", Key: "control"},
				},
				TrafficAllocation: []bucketer.Allocation{
					{EntityID: "var-3", EndOfRange: 10000},
				},
				GroupID: "grp-1",
			},
		},
		Rollouts: []snapshot.Rollout{
			{
				ID: "rollout-1",
				Rules: []snapshot.Experiment{
					{
						ID:     "rule-1",
						Key:    "rollout-1-rule-1",
						Status: snapshot.StatusRunning,
						Variations: []snapshot.Variation{
							{ID: "var-on", Key: "on", FeatureEnabled: true},
						},
						TrafficAllocation: []bucketer.Allocation{
							{EntityID: "var-on", EndOfRange: 10000},
						},
						AudienceIDs: []string{"aud-gold"},
					},
				},
			},
		},
		FeatureFlags: []snapshot.FeatureFlag{
			{
				ID:            "feat-1",
				Key:           "new-checkout",
				ExperimentIDs: []string{"exp-a"},
				RolloutID:     "rollout-1",
			},
		},
	}
}

func TestNewBuildsLookups(t *testing.T) {
	t.Parallel()

	snap, err := snapshot.New(validDocument())
	require.NoError(t, err)

	assert.Equal(t, "42", snap.Revision())

	exp, ok := snap.ExperimentByKey("checkout-redesign")
	require.True(t, ok)
	assert.Equal(t, "exp-a", exp.ID)
	assert.True(t, exp.IsRunning())

	byID, ok := snap.ExperimentByID("exp-a")
	require.True(t, ok)
	assert.Same(t, exp, byID)

	v, ok := exp.VariationByKey("treatment")
	require.True(t, ok)
	assert.Equal(t, "var-2", v.ID)

	v, ok = exp.VariationByID("var-1")
	require.True(t, ok)
	assert.Equal(t, "control", v.Key)

	_, ok = snap.FeatureByKey("new-checkout")
	assert.True(t, ok)
	_, ok = snap.GroupByID("grp-1")
	assert.True(t, ok)
	_, ok = snap.RolloutByID("rollout-1")
	assert.True(t, ok)
	_, ok = snap.AudienceByID("aud-gold")
	assert.True(t, ok)

	_, ok = snap.ExperimentByKey("nope")
	assert.False(t, ok)
}

func TestGateComposition(t *testing.T) {
	t.Parallel()

	t.Run("AudienceIDsComposeWithOr", func(t *testing.T) {
		t.Parallel()
		snap, err := snapshot.New(validDocument())
		require.NoError(t, err)

		exp, _ := snap.ExperimentByKey("checkout-redesign")
		gate := exp.Gate()
		require.NotNil(t, gate)

		// Either audience qualifies on its own.
		assert.Equal(t, condition.True, condition.Evaluate(gate, condition.Attributes{"plan": "gold"}))
		assert.Equal(t, condition.True, condition.Evaluate(gate, condition.Attributes{"country": "de", "plan": "silver"}))
		assert.Equal(t, condition.False, condition.Evaluate(gate, condition.Attributes{"plan": "silver", "country": "us"}))
	})

	t.Run("NoReferencesMeansNoGate", func(t *testing.T) {
		t.Parallel()
		snap, err := snapshot.New(validDocument())
		require.NoError(t, err)

		exp, _ := snap.ExperimentByKey("pricing-page")
		assert.Nil(t, exp.Gate())
	})

	t.Run("InlineConditionsWin", func(t *testing.T) {
		t.Parallel()
		doc := validDocument()
		doc.Experiments[0].AudienceConditions = &snapshot.ConditionNode{
			Op: "not",
			Children: []*snapshot.ConditionNode{
				{Name: "beta", Match: "exact", Value: true},
			},
		}
		snap, err := snapshot.New(doc)
		require.NoError(t, err)

		exp, _ := snap.ExperimentByKey("checkout-redesign")
		assert.Equal(t, condition.True, condition.Evaluate(exp.Gate(), condition.Attributes{"beta": false}))
		assert.Equal(t, condition.False, condition.Evaluate(exp.Gate(), condition.Attributes{"beta": true}))
	})

	t.Run("UnknownMatchTagSurvivesAdoption", func(t *testing.T) {
		t.Parallel()
		doc := validDocument()
		doc.Audiences[0].Conditions = &snapshot.ConditionNode{
			Name: "plan", Match: "qualified-somehow", Value: "gold",
		}
		snap, err := snapshot.New(doc)
		require.NoError(t, err)

		exp, _ := snap.ExperimentByKey("checkout-redesign")
		// The unknown tag degrades to Unknown at evaluation; the Or still
		// passes through the second audience.
		assert.Equal(t, condition.True, condition.Evaluate(exp.Gate(), condition.Attributes{"country": "de"}))
		assert.Equal(t, condition.Unknown, condition.Evaluate(exp.Gate(), condition.Attributes{"country": "us", "plan": "gold"}))
	})
}

func TestNewIntegrityViolations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*snapshot.Document)
	}{
		{"AllocationNotIncreasing", func(d *snapshot.Document) {
			d.Experiments[0].TrafficAllocation = []bucketer.Allocation{
				{EntityID: "var-1", EndOfRange: 5000},
				{EntityID: "var-2", EndOfRange: 5000},
			}
		}},
		{"AllocationUnsorted", func(d *snapshot.Document) {
			d.Experiments[0].TrafficAllocation = []bucketer.Allocation{
				{EntityID: "var-2", EndOfRange: 10000},
				{EntityID: "var-1", EndOfRange: 5000},
			}
		}},
		{"AllocationBoundTooLarge", func(d *snapshot.Document) {
			d.Experiments[0].TrafficAllocation[1].EndOfRange = 10001
		}},
		{"AllocationBoundNegative", func(d *snapshot.Document) {
			d.Experiments[0].TrafficAllocation[0].EndOfRange = -1
		}},
		{"AllocationDanglingVariation", func(d *snapshot.Document) {
			d.Experiments[0].TrafficAllocation[0].EntityID = "var-404"
		}},
		{"GroupAllocationDanglingMember", func(d *snapshot.Document) {
			d.Groups[0].TrafficAllocation[0].EntityID = "exp-404"
		}},
		{"ForcedVariationDangling", func(d *snapshot.Document) {
			d.Experiments[0].ForcedVariations["qa-user"] = "no-such-key"
		}},
		{"UnknownAudienceReference", func(d *snapshot.Document) {
			d.Experiments[0].AudienceIDs = []string{"aud-404"}
		}},
		{"UnknownGroupReference", func(d *snapshot.Document) {
			d.Experiments[0].GroupID = "grp-404"
		}},
		{"NotAMemberOfGroup", func(d *snapshot.Document) {
			d.Groups[0].ExperimentIDs = []string{"exp-b"}
			d.Groups[0].TrafficAllocation = []bucketer.Allocation{
				{EntityID: "exp-b", EndOfRange: 10000},
			}
		}},
		{"FeatureDanglingExperiment", func(d *snapshot.Document) {
			d.FeatureFlags[0].ExperimentIDs = []string{"exp-404"}
		}},
		{"FeatureDanglingRollout", func(d *snapshot.Document) {
			d.FeatureFlags[0].RolloutID = "rollout-404"
		}},
		{"DuplicateExperimentKey", func(d *snapshot.Document) {
			d.Experiments[1].Key = d.Experiments[0].Key
		}},
		{"DuplicateVariationID", func(d *snapshot.Document) {
			d.Experiments[0].Variations[1].ID = "var-1"
			d.Experiments[0].TrafficAllocation = []bucketer.Allocation{
				{EntityID: "var-1", EndOfRange: 10000},
			}
		}},
		{"DuplicateVariationKey", func(d *snapshot.Document) {
			d.Experiments[0].Variations[1].Key = d.Experiments[0].Variations[0].Key
		}},
		{"DuplicateAudienceID", func(d *snapshot.Document) {
			d.Audiences[1].ID = d.Audiences[0].ID
		}},
		{"NotNodeArity", func(d *snapshot.Document) {
			d.Audiences[0].Conditions = &snapshot.ConditionNode{
				Op: "not",
				Children: []*snapshot.ConditionNode{
					{Name: "a", Match: "exact", Value: "1"},
					{Name: "b", Match: "exact", Value: "2"},
				},
			}
		}},
		{"UnknownOperator", func(d *snapshot.Document) {
			d.Audiences[0].Conditions = &snapshot.ConditionNode{
				Op: "xor",
				Children: []*snapshot.ConditionNode{
					{Name: "a", Match: "exact", Value: "1"},
				},
			}
		}},
		{"RolloutRuleBadAllocation", func(d *snapshot.Document) {
			d.Rollouts[0].Rules[0].TrafficAllocation[0].EntityID = "var-404"
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := validDocument()
			tc.mutate(&doc)
			_, err := snapshot.New(doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, snapshot.ErrIntegrity)
		})
	}
}

func TestSnapshotIsolatedFromDocumentMutation(t *testing.T) {
	t.Parallel()

	doc := validDocument()
	snap, err := snapshot.New(doc)
	require.NoError(t, err)

	doc.Experiments[0].Variations[0].Key = "mutated"
	doc.Experiments[0].ForcedVariations["qa-user"] = "mutated"
	doc.Experiments[0].TrafficAllocation[0].EndOfRange = 1

	exp, _ := snap.ExperimentByKey("checkout-redesign")
	v, ok := exp.VariationByID("var-1")
	require.True(t, ok)
	assert.Equal(t, "control", v.Key)
	assert.Equal(t, "treatment", exp.ForcedVariations["qa-user"])
	assert.Equal(t, 5000, exp.TrafficAllocation[0].EndOfRange)
}
