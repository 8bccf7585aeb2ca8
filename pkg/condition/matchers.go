package condition

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/variantlab/expkit/pkg/semver"
)

// matcherFunc evaluates one leaf. A returned error always accompanies an
// Unknown result; errors flag condition defects (ErrTypeMismatch,
// ErrMalformedVersion), never properties of the attribute value.
type matcherFunc func(conditionValue, attributeValue any) (Result, error)

// matchers is the dispatch registry, keyed by MatchType. Built once;
// MatchExists is resolved structurally in evalLeaf because it needs key
// presence, not the value.
var matchers = map[MatchType]matcherFunc{
	MatchExact:          matchExact,
	MatchSubstring:      matchSubstring,
	MatchGreater:        orderedMatch(func(c int) bool { return c > 0 }),
	MatchGreaterOrEqual: orderedMatch(func(c int) bool { return c >= 0 }),
	MatchLess:           orderedMatch(func(c int) bool { return c < 0 }),
	MatchLessOrEqual:    orderedMatch(func(c int) bool { return c <= 0 }),
	MatchSemVerEqual:    semverMatch(func(c int) bool { return c == 0 }),
	MatchSemVerGreater:  semverMatch(func(c int) bool { return c > 0 }),
	MatchSemVerGE:       semverMatch(func(c int) bool { return c >= 0 }),
	MatchSemVerLess:     semverMatch(func(c int) bool { return c < 0 }),
	MatchSemVerLE:       semverMatch(func(c int) bool { return c <= 0 }),
}

// matchExact requires both operands to share a dynamic kind and compares
// for equality. A differently typed attribute is Unknown; a condition
// literal that is neither string, number, nor bool is a defect.
func matchExact(conditionValue, attributeValue any) (Result, error) {
	switch cv := conditionValue.(type) {
	case string:
		av, ok := attributeValue.(string)
		if !ok {
			return Unknown, nil
		}
		return resultOf(av == cv), nil
	case bool:
		av, ok := attributeValue.(bool)
		if !ok {
			return Unknown, nil
		}
		return resultOf(av == cv), nil
	default:
		cf, ok := toFloat(conditionValue)
		if !ok {
			return Unknown, errors.Join(ErrTypeMismatch, fmt.Errorf("exact match operand %T", conditionValue))
		}
		af, ok := toFloat(attributeValue)
		if !ok {
			return Unknown, nil
		}
		return resultOf(af == cf), nil
	}
}

func matchSubstring(conditionValue, attributeValue any) (Result, error) {
	cv, ok := conditionValue.(string)
	if !ok {
		return Unknown, errors.Join(ErrTypeMismatch, fmt.Errorf("substring match operand %T", conditionValue))
	}
	av, ok := attributeValue.(string)
	if !ok {
		return Unknown, nil
	}
	return resultOf(strings.Contains(av, cv)), nil
}

// orderedMatch builds a numeric comparison matcher around the shared
// coercion rules: attribute minus condition, sign tested by accept.
func orderedMatch(accept func(int) bool) matcherFunc {
	return func(conditionValue, attributeValue any) (Result, error) {
		cf, ok := toFloat(conditionValue)
		if !ok {
			return Unknown, errors.Join(ErrTypeMismatch, fmt.Errorf("numeric match operand %T", conditionValue))
		}
		af, ok := toFloat(attributeValue)
		if !ok {
			return Unknown, nil
		}
		switch {
		case af < cf:
			return resultOf(accept(-1)), nil
		case af > cf:
			return resultOf(accept(1)), nil
		default:
			return resultOf(accept(0)), nil
		}
	}
}

// semverMatch builds a version comparison matcher. The condition operand
// must be a string; a non-string attribute is Unknown; a version that
// fails to parse on either side is Unknown with the parse fault attached.
func semverMatch(accept func(int) bool) matcherFunc {
	return func(conditionValue, attributeValue any) (Result, error) {
		cv, ok := conditionValue.(string)
		if !ok {
			return Unknown, errors.Join(ErrTypeMismatch, fmt.Errorf("semver match operand %T", conditionValue))
		}
		av, ok := attributeValue.(string)
		if !ok {
			return Unknown, nil
		}
		c, err := semver.CompareRaw(av, cv)
		if err != nil {
			return Unknown, errors.Join(ErrMalformedVersion, err)
		}
		return resultOf(accept(c)), nil
	}
}

// toFloat coerces any Go numeric kind to float64. Non-finite values are
// rejected so NaN never leaks into ordering decisions.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
