package egraph

import (
	"iter"

	"github.com/rogpeppe/eqsat/egraph/term"
)

// Match pairs a substitution with the e-class in which it was found: a
// node conforming to the matched pattern under σ lives in Class.
type Match struct {
	Subst Subst
	Class EClassId
}

// Ematch returns a lazily-enumerated sequence of (σ, e) pairs: every
// way to instantiate p against some live e-class, backtracking over
// each class's node set depth-first.
//
// Enumeration order is deterministic given identical e-graph history
// (classes are visited in ascending id order, nodes within a class in
// insertion order) but is otherwise unspecified — exactly the
// determinism guarantee this matcher is documented to provide.
//
// The returned sequence is lazy (push-based range-over-func): callers
// may stop ranging at any point to bound the work done, rather than
// always paying for a fully materialized slice of matches.
func (g *EGraph) Ematch(p term.Pattern) iter.Seq2[Subst, EClassId] {
	return func(yield func(Subst, EClassId) bool) {
		ids := make([]EClassId, 0, len(g.classes))
		for id := range g.classes {
			ids = append(ids, id)
		}
		sortEClassIds(ids)
		for _, e := range ids {
			if _, live := g.classes[e]; !live {
				continue // absorbed since the id slice was built
			}
			for _, σ := range g.walk(p, e, Subst{}) {
				if !yield(σ, e) {
					return
				}
			}
		}
	}
}

// Matches collects Ematch's sequence eagerly. Most callers (the
// saturation driver among them) want a snapshot they can apply merges
// against without perturbing the iteration in progress, so this is
// the usual entry point; Ematch itself stays around for callers happy
// to consume it lazily.
func (g *EGraph) Matches(p term.Pattern) []Match {
	var out []Match
	for σ, e := range g.Ematch(p) {
		out = append(out, Match{Subst: σ, Class: e})
	}
	return out
}

// sortEClassIds sorts in place in ascending order; ids are small dense
// ints so an insertion sort is simplest and fast enough.
func sortEClassIds(ids []EClassId) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// walk returns every substitution extending σ that makes p conform to
// some e-node in class e.
func (g *EGraph) walk(p term.Pattern, e EClassId, σ Subst) []Subst {
	e = g.Find(e)
	switch p := p.(type) {
	case term.Var:
		if bound, ok := σ[p.Name]; ok {
			if g.Find(bound) == e {
				return []Subst{σ}
			}
			return nil
		}
		next := cloneSubst(σ)
		next[p.Name] = e
		return []Subst{next}
	case term.Node:
		var out []Subst
		for _, h := range g.classes[e].Nodes() {
			n := h.Value()
			if n.Op != p.Op || len(n.Children) != len(p.Children) {
				continue
			}
			candidates := []Subst{σ}
			for i, childPat := range p.Children {
				childClass := n.Children[i]
				var next []Subst
				for _, cand := range candidates {
					next = append(next, g.walk(childPat, childClass, cand)...)
				}
				candidates = next
				if len(candidates) == 0 {
					break
				}
			}
			out = append(out, candidates...)
		}
		return out
	default:
		panic("egraph: unknown pattern type")
	}
}

func cloneSubst(σ Subst) Subst {
	next := make(Subst, len(σ)+1)
	for k, v := range σ {
		next[k] = v
	}
	return next
}
