package condition

import (
	"errors"
	"fmt"
)

// Operator combines child trees.
type Operator string

const (
	And Operator = "and"
	Or  Operator = "or"
	Not Operator = "not"
)

// MatchType tags the comparison strategy of a leaf. Dispatch is resolved
// through the package registry once, keyed by this tag.
type MatchType string

const (
	MatchExact          MatchType = "exact"
	MatchSubstring      MatchType = "substring"
	MatchExists         MatchType = "exists"
	MatchGreater        MatchType = "gt"
	MatchGreaterOrEqual MatchType = "ge"
	MatchLess           MatchType = "lt"
	MatchLessOrEqual    MatchType = "le"
	MatchSemVerEqual    MatchType = "semver_eq"
	MatchSemVerGreater  MatchType = "semver_gt"
	MatchSemVerGE       MatchType = "semver_ge"
	MatchSemVerLess     MatchType = "semver_lt"
	MatchSemVerLE       MatchType = "semver_le"
)

// Attributes maps attribute names to dynamically typed scalar values:
// string, bool, any Go numeric kind, or nil.
type Attributes map[string]any

// Leaf compares a single named attribute against a literal operand.
type Leaf struct {
	Name  string
	Match MatchType
	Value any
}

// Tree is a recursive condition variant: exactly one of Leaf or Op is set.
type Tree struct {
	Leaf     *Leaf
	Op       Operator
	Children []*Tree
}

// NewLeaf builds a leaf node. The match tag must be registered; unknown
// tags are rejected here rather than discovered during evaluation.
func NewLeaf(name string, match MatchType, value any) (*Tree, error) {
	if _, ok := matchers[match]; !ok && match != MatchExists {
		return nil, errors.Join(ErrUnknownMatchType, fmt.Errorf("match type %q", match))
	}
	return &Tree{Leaf: &Leaf{Name: name, Match: match, Value: value}}, nil
}

// NewNode builds an operator node. Not requires exactly one child; And and
// Or accept any number, including zero.
func NewNode(op Operator, children ...*Tree) (*Tree, error) {
	switch op {
	case And, Or:
	case Not:
		if len(children) != 1 {
			return nil, errors.Join(ErrInvalidTree, fmt.Errorf("not node requires exactly one child, got %d", len(children)))
		}
	default:
		return nil, errors.Join(ErrInvalidTree, fmt.Errorf("unknown operator %q", op))
	}
	for _, c := range children {
		if c == nil {
			return nil, errors.Join(ErrInvalidTree, errors.New("nil child node"))
		}
	}
	return &Tree{Op: op, Children: children}, nil
}

// MustLeaf is NewLeaf for static trees; it panics on invalid input.
func MustLeaf(name string, match MatchType, value any) *Tree {
	t, err := NewLeaf(name, match, value)
	if err != nil {
		panic(err)
	}
	return t
}

// MustNode is NewNode for static trees; it panics on invalid input.
func MustNode(op Operator, children ...*Tree) *Tree {
	t, err := NewNode(op, children...)
	if err != nil {
		panic(err)
	}
	return t
}
