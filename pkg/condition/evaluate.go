package condition

import (
	"errors"
	"fmt"
	"log/slog"
)

// Fault describes a condition defect discovered during evaluation: a
// wrong-typed literal, a malformed version string, or an unknown match
// tag. The leaf that produced it still evaluates to Unknown.
type Fault struct {
	AttributeName string
	Match         MatchType
	Err           error
}

// FaultHook receives faults as they are discovered. Hooks must not block;
// evaluation continues regardless of what the hook does.
type FaultHook func(Fault)

// Option configures an evaluation.
type Option func(*evalConfig)

type evalConfig struct {
	log   *slog.Logger
	fault FaultHook
}

// WithLogger routes fault logging to the given logger instead of the
// process default.
func WithLogger(log *slog.Logger) Option {
	return func(c *evalConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithFaultHook registers a hook invoked for every condition defect.
func WithFaultHook(hook FaultHook) Option {
	return func(c *evalConfig) {
		if hook != nil {
			c.fault = hook
		}
	}
}

// Evaluate walks the tree against attrs and returns the three-valued
// outcome. A nil tree is Unknown; callers that treat "no audience" as a
// pass must check for nil before calling.
func Evaluate(tree *Tree, attrs Attributes, opts ...Option) Result {
	cfg := evalConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return evalNode(tree, attrs, &cfg)
}

func evalNode(t *Tree, attrs Attributes, cfg *evalConfig) Result {
	if t == nil {
		return Unknown
	}
	if t.Leaf != nil {
		return evalLeaf(t.Leaf, attrs, cfg)
	}

	switch t.Op {
	case And:
		res := True
		for _, c := range t.Children {
			switch evalNode(c, attrs, cfg) {
			case False:
				return False
			case Unknown:
				res = Unknown
			}
		}
		return res
	case Or:
		res := False
		for _, c := range t.Children {
			switch evalNode(c, attrs, cfg) {
			case True:
				return True
			case Unknown:
				res = Unknown
			}
		}
		return res
	case Not:
		if len(t.Children) != 1 {
			cfg.report(Fault{Err: errors.Join(ErrInvalidTree, fmt.Errorf("not node with %d children", len(t.Children)))})
			return Unknown
		}
		return evalNode(t.Children[0], attrs, cfg).Not()
	default:
		cfg.report(Fault{Err: errors.Join(ErrInvalidTree, fmt.Errorf("unknown operator %q", t.Op))})
		return Unknown
	}
}

func evalLeaf(leaf *Leaf, attrs Attributes, cfg *evalConfig) Result {
	// Exists is the only match that answers on a missing key.
	if leaf.Match == MatchExists {
		v, ok := attrs[leaf.Name]
		return resultOf(ok && v != nil)
	}

	match, ok := matchers[leaf.Match]
	if !ok {
		cfg.report(Fault{
			AttributeName: leaf.Name,
			Match:         leaf.Match,
			Err:           errors.Join(ErrUnknownMatchType, fmt.Errorf("match type %q", leaf.Match)),
		})
		return Unknown
	}

	value, ok := attrs[leaf.Name]
	if !ok {
		return Unknown
	}

	res, err := match(leaf.Value, value)
	if err != nil {
		cfg.report(Fault{AttributeName: leaf.Name, Match: leaf.Match, Err: err})
		return Unknown
	}
	return res
}

// report hands the fault to the hook when one is registered; the hook then
// owns logging. Without a hook the fault is logged here so it is never
// silently dropped.
func (c *evalConfig) report(f Fault) {
	if c.fault != nil {
		c.fault(f)
		return
	}
	c.log.Warn("condition evaluation fault",
		slog.String("attribute", f.AttributeName),
		slog.String("match", string(f.Match)),
		slog.Any("error", f.Err),
	)
}
