// Package saturate implements the equality-saturation driver: it
// repeatedly applies a fixed list of rewrite rules to an e-graph until
// neither the e-class count nor the e-node count changes across a full
// sweep, or an iteration budget is exhausted, then extracts the
// smallest equivalent term.
package saturate

import (
	"fmt"

	"github.com/rogpeppe/eqsat/egraph/term"
)

// Rule is a rewrite rule: wherever the e-matcher finds the left-hand
// side, the driver adds the right-hand side (instantiated under the
// same substitution) into the matched class.
//
// No variable may occur in RHS that doesn't also occur in LHS; that is
// a precondition on rule input; see ParseRule.
type Rule struct {
	LHS, RHS term.Pattern
}

// ParseRule parses a rule from its textual LHS and RHS patterns, and
// validates that RHS introduces no variable absent from LHS.
func ParseRule(lhsSrc, rhsSrc string) (Rule, error) {
	lhs, err := term.ParsePattern(lhsSrc)
	if err != nil {
		return Rule{}, fmt.Errorf("saturate: parsing rule lhs %q: %w", lhsSrc, err)
	}
	rhs, err := term.ParsePattern(rhsSrc)
	if err != nil {
		return Rule{}, fmt.Errorf("saturate: parsing rule rhs %q: %w", rhsSrc, err)
	}
	bound := make(map[string]bool)
	for _, v := range term.Vars(lhs) {
		bound[v] = true
	}
	for _, v := range term.Vars(rhs) {
		if !bound[v] {
			return Rule{}, fmt.Errorf("saturate: rule %q -> %q: variable %q occurs only on the right-hand side", lhsSrc, rhsSrc, v)
		}
	}
	return Rule{LHS: lhs, RHS: rhs}, nil
}

// String renders the rule as "lhs -> rhs".
func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.LHS, r.RHS)
}
