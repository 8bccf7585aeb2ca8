// Package condition evaluates audience-targeting condition trees over user
// attributes using three-valued logic.
//
// A condition tree is a recursive variant: either a Leaf comparing one
// named attribute against a literal operand, or an operator node combining
// child trees with And, Or, or Not. Evaluation is pure and side-effect
// free; the same tree and attributes always produce the same Result.
//
// # Three-valued logic
//
// Results are True, False, or Unknown. Unknown is not an error: it means
// the question could not be answered for this user, typically because the
// attribute is missing or carries an unexpected dynamic type. Operator
// nodes propagate Unknown the usual Kleene way:
//
//   - And short-circuits on False; otherwise any Unknown child makes the
//     node Unknown. An empty And is vacuously True.
//   - Or short-circuits on True; otherwise any Unknown child makes the
//     node Unknown. An empty Or is vacuously False.
//   - Not flips True and False and leaves Unknown untouched.
//
// # Faults versus Unknown
//
// A malformed condition literal (for example a numeric operand on a
// substring match) is a configuration defect, not a property of the user.
// Such leaves still evaluate to Unknown so one bad condition never aborts
// a decision, but the defect is surfaced through the fault hook so it can
// be reported once by the caller:
//
//	res := condition.Evaluate(tree, attrs, condition.WithFaultHook(func(f condition.Fault) {
//		log.Warn("audience condition fault", "attribute", f.AttributeName, "err", f.Err)
//	}))
//
// Matcher dispatch is resolved from the leaf's MatchType tag through a
// fixed registry built at package init, not per evaluation.
package condition
