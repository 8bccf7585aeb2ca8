package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variantlab/expkit/pkg/condition"
)

// Fixed-outcome leaves: "t" and "f" compare a present attribute, "u" names
// a missing attribute so its leaf always evaluates Unknown.
var (
	leafTrue    = condition.MustLeaf("flag", condition.MatchExact, "on")
	leafFalse   = condition.MustLeaf("flag", condition.MatchExact, "off")
	leafUnknown = condition.MustLeaf("missing", condition.MatchExact, "whatever")

	truthAttrs = condition.Attributes{"flag": "on"}
)

func TestAndTruthTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		children []*condition.Tree
		want     condition.Result
	}{
		{"Empty", nil, condition.True},
		{"AllTrue", []*condition.Tree{leafTrue, leafTrue}, condition.True},
		{"TrueUnknown", []*condition.Tree{leafTrue, leafUnknown}, condition.Unknown},
		{"FalseUnknown", []*condition.Tree{leafFalse, leafUnknown}, condition.False},
		{"UnknownFalse", []*condition.Tree{leafUnknown, leafFalse}, condition.False},
		{"UnknownUnknown", []*condition.Tree{leafUnknown, leafUnknown}, condition.Unknown},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tree := condition.MustNode(condition.And, tc.children...)
			assert.Equal(t, tc.want, condition.Evaluate(tree, truthAttrs))
		})
	}
}

func TestOrTruthTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		children []*condition.Tree
		want     condition.Result
	}{
		{"Empty", nil, condition.False},
		{"AllFalse", []*condition.Tree{leafFalse, leafFalse}, condition.False},
		{"FalseUnknown", []*condition.Tree{leafFalse, leafUnknown}, condition.Unknown},
		{"TrueUnknown", []*condition.Tree{leafTrue, leafUnknown}, condition.True},
		{"UnknownTrue", []*condition.Tree{leafUnknown, leafTrue}, condition.True},
		{"UnknownUnknown", []*condition.Tree{leafUnknown, leafUnknown}, condition.Unknown},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tree := condition.MustNode(condition.Or, tc.children...)
			assert.Equal(t, tc.want, condition.Evaluate(tree, truthAttrs))
		})
	}
}

func TestNot(t *testing.T) {
	t.Parallel()

	assert.Equal(t, condition.False, condition.Evaluate(condition.MustNode(condition.Not, leafTrue), truthAttrs))
	assert.Equal(t, condition.True, condition.Evaluate(condition.MustNode(condition.Not, leafFalse), truthAttrs))
	assert.Equal(t, condition.Unknown, condition.Evaluate(condition.MustNode(condition.Not, leafUnknown), truthAttrs))
}

func TestNestedTree(t *testing.T) {
	t.Parallel()

	// (plan == "gold" AND (country == "de" OR country == "at")) AND NOT beta
	tree := condition.MustNode(condition.And,
		condition.MustLeaf("plan", condition.MatchExact, "gold"),
		condition.MustNode(condition.Or,
			condition.MustLeaf("country", condition.MatchExact, "de"),
			condition.MustLeaf("country", condition.MatchExact, "at"),
		),
		condition.MustNode(condition.Not,
			condition.MustLeaf("beta", condition.MatchExact, true),
		),
	)

	assert.Equal(t, condition.True, condition.Evaluate(tree, condition.Attributes{
		"plan": "gold", "country": "at", "beta": false,
	}))
	assert.Equal(t, condition.False, condition.Evaluate(tree, condition.Attributes{
		"plan": "gold", "country": "us", "beta": false,
	}))
	// Missing beta attribute poisons the NOT branch, whole AND is Unknown.
	assert.Equal(t, condition.Unknown, condition.Evaluate(tree, condition.Attributes{
		"plan": "gold", "country": "de",
	}))
}

func TestShortCircuitStopsAtDefinitiveChild(t *testing.T) {
	t.Parallel()

	var faults []condition.Fault
	hook := condition.WithFaultHook(func(f condition.Fault) { faults = append(faults, f) })

	// The faulty leaf sits behind a definitive short-circuit and must
	// never be evaluated.
	faulty := condition.MustLeaf("plan", condition.MatchSubstring, 42)

	and := condition.MustNode(condition.And, leafFalse, faulty)
	assert.Equal(t, condition.False, condition.Evaluate(and, truthAttrs, hook))
	assert.Empty(t, faults)

	or := condition.MustNode(condition.Or, leafTrue, faulty)
	assert.Equal(t, condition.True, condition.Evaluate(or, truthAttrs, hook))
	assert.Empty(t, faults)
}

func TestUnknownMatchTagEvaluatesUnknown(t *testing.T) {
	t.Parallel()

	// Trees decoded from external documents can carry tags this build
	// does not know; they must degrade, not fail.
	tree := &condition.Tree{Leaf: &condition.Leaf{Name: "plan", Match: "qualified", Value: "gold"}}

	var faults []condition.Fault
	res := condition.Evaluate(tree, condition.Attributes{"plan": "gold"},
		condition.WithFaultHook(func(f condition.Fault) { faults = append(faults, f) }))

	assert.Equal(t, condition.Unknown, res)
	require.Len(t, faults, 1)
	assert.ErrorIs(t, faults[0].Err, condition.ErrUnknownMatchType)
}

func TestNilTreeIsUnknown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, condition.Unknown, condition.Evaluate(nil, truthAttrs))
}

func TestTreeConstructors(t *testing.T) {
	t.Parallel()

	_, err := condition.NewNode(condition.Not, leafTrue, leafFalse)
	assert.ErrorIs(t, err, condition.ErrInvalidTree)

	_, err = condition.NewNode(condition.Not)
	assert.ErrorIs(t, err, condition.ErrInvalidTree)

	_, err = condition.NewNode("xor", leafTrue)
	assert.ErrorIs(t, err, condition.ErrInvalidTree)

	_, err = condition.NewNode(condition.And, leafTrue, nil)
	assert.ErrorIs(t, err, condition.ErrInvalidTree)

	_, err = condition.NewLeaf("plan", "qualified", "gold")
	assert.ErrorIs(t, err, condition.ErrUnknownMatchType)

	leaf, err := condition.NewLeaf("email", condition.MatchExists, nil)
	require.NoError(t, err)
	require.NotNil(t, leaf.Leaf)
}
