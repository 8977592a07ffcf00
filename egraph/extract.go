package egraph

import (
	"fmt"
	"math"

	"github.com/rogpeppe/eqsat/egraph/term"
)

// ExtractSmallest returns a minimum-node-count acyclic term in e's
// class, and that term's size (1 + the sum of its children's sizes).
//
// ExtractSmallest panics if no acyclic witness exists in e's class:
// that can only happen for a class never reached by AddTerm on a
// ground term, which is a programmer error rather than a recoverable
// failure.
func (g *EGraph) ExtractSmallest(e EClassId) (term.Term, int) {
	t, size, ok := g.extract(nil, math.MaxInt, e)
	if !ok {
		panic(fmt.Sprintf("egraph: no acyclic term in class %d", g.Find(e)))
	}
	return t, size
}

// extract performs the cycle-guarded, bound-pruned search described in
// the package's design notes: visited blocks revisiting a class within
// the current path (cycle guard), and bound lets a caller already
// holding a candidate of size bound stop exploring branches that could
// only produce something no better.
//
// A result is kept only when it's at least as good as the best found
// so far in this call (ties favor whichever node is encountered last;
// which of several equal-size terms is returned is not a contract); that
// guard is what makes the search an exact minimum rather than merely
// "whatever fits under the inherited bound".
func (g *EGraph) extract(visited map[EClassId]bool, bound int, e EClassId) (term.Term, int, bool) {
	e = g.Find(e)
	if visited[e] || bound < 0 {
		return term.Term{}, 0, false
	}
	nv := make(map[EClassId]bool, len(visited)+1)
	for k := range visited {
		nv[k] = true
	}
	nv[e] = true

	bestSize := bound
	var bestTerm term.Term
	found := false
	for _, h := range g.classes[e].Nodes() {
		n := h.Value()
		acc := 1
		// Leaves keep a nil Children slice, as term.Parse produces.
		var kids []term.Term
		if len(n.Children) > 0 {
			kids = make([]term.Term, len(n.Children))
		}
		ok := true
		for i, c := range n.Children {
			t, s, kok := g.extract(nv, bestSize-acc, c)
			if !kok {
				ok = false
				break
			}
			kids[i] = t
			acc += s
		}
		if !ok {
			continue
		}
		if !found || acc <= bestSize {
			bestTerm = term.Term{Op: n.Op, Children: kids}
			bestSize = acc
			found = true
		}
	}
	if !found {
		return term.Term{}, 0, false
	}
	return bestTerm, bestSize, true
}
