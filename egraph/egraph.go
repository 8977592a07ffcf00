// Package egraph implements the e-graph: the hash-consed e-node table,
// the union-find over e-class ids, the congruence-closure rebuild
// procedure, the backtracking e-matcher, and size-minimal extraction.
//
// Canonicality invariants (see the package-level tests for the
// corresponding properties):
//  1. every key of classes is a union-find root, and every key of
//     hashcons is a canonical e-node (all children are union-find roots);
//  2. every canonical e-node n -> c in hashcons has n in classes[c].nodes;
//  3. two canonical e-nodes with equal op and equal canonical children
//     live under the same class id (hashcons enforces this structurally);
//  4. every e-node's children carry a parent back-link to it.
package egraph

import (
	"fmt"

	"github.com/rogpeppe/eqsat/egraph/term"
	"github.com/rogpeppe/eqsat/unionfind"
)

// EGraph holds the union-find, the e-class store, and the hashcons
// index. The zero value is not usable; construct with New.
type EGraph struct {
	uf       *unionfind.UnionFind[EClassId]
	classes  map[EClassId]*EClass
	hashcons map[nodeHandle]EClassId

	worklist []EClassId
}

// New returns an empty e-graph.
func New() *EGraph {
	return &EGraph{
		uf:       unionfind.New[EClassId](0),
		classes:  make(map[EClassId]*EClass),
		hashcons: make(map[nodeHandle]EClassId),
	}
}

// ClassCount returns the number of live e-classes.
func (g *EGraph) ClassCount() int {
	return len(g.classes)
}

// NodeCount returns the number of distinct canonical e-nodes.
func (g *EGraph) NodeCount() int {
	return len(g.hashcons)
}

// Find returns the canonical (current root) id for x. Callers must
// re-derive an EClassId through Find before every use, since a merge
// elsewhere in the graph can change which id is the current root.
func (g *EGraph) Find(x EClassId) EClassId {
	return g.uf.Find(x)
}

// Class returns the live EClass that e belongs to: e is resolved
// through Find first, so an id absorbed by an earlier merge returns its
// current root's class. It panics if that root has no live class.
func (g *EGraph) Class(e EClassId) *EClass {
	c, ok := g.classes[g.uf.Find(e)]
	if !ok {
		panic(fmt.Sprintf("egraph: no live class for id %d", e))
	}
	return c
}

// canonicalize returns a copy of n with every child replaced by its
// current union-find root. canonicalize is pure.
func (g *EGraph) canonicalize(n ENode) ENode {
	if len(n.Children) == 0 {
		return n
	}
	out := ENode{Op: n.Op, Children: make([]EClassId, len(n.Children))}
	for i, c := range n.Children {
		out.Children[i] = g.uf.Find(c)
	}
	return out
}

// Add inserts an e-node, returning the id of the class it belongs to.
// Add is idempotent: re-adding a structurally equal e-node (after
// canonicalization) returns the same id.
func (g *EGraph) Add(n ENode) EClassId {
	n = g.canonicalize(n)
	h := intern(n)
	if e, ok := g.hashcons[h]; ok {
		return e
	}
	e := g.uf.Extend()
	g.hashcons[h] = e
	g.classes[e] = newEClass(h)
	for _, c := range n.Children {
		g.classes[g.uf.Find(c)].addParent(h, e)
	}
	return e
}

// AddTerm inserts a ground term, recursively adding its children first
// (post-order), and returns the id of its root class.
func (g *EGraph) AddTerm(t term.Term) EClassId {
	children := make([]EClassId, len(t.Children))
	for i, c := range t.Children {
		children[i] = g.AddTerm(c)
	}
	return g.Add(ENode{Op: t.Op, Children: children})
}

// Subst binds pattern variable names to e-class ids.
type Subst map[string]EClassId

// AddPattern instantiates p under substitution σ, adding any new
// e-nodes it introduces, and returns the id of the resulting class.
//
// AddPattern panics if p references a variable not bound in σ: rule
// input must never mention a variable on the right-hand side that
// doesn't also occur in the left-hand side, so this is a programmer
// error, not a recoverable one (see package saturate).
func (g *EGraph) AddPattern(σ Subst, p term.Pattern) EClassId {
	switch p := p.(type) {
	case term.Var:
		e, ok := σ[p.Name]
		if !ok {
			panic(fmt.Sprintf("egraph: unbound pattern variable %q", p.Name))
		}
		return g.Find(e)
	case term.Node:
		children := make([]EClassId, len(p.Children))
		for i, c := range p.Children {
			children[i] = g.AddPattern(σ, c)
		}
		return g.Add(ENode{Op: p.Op, Children: children})
	default:
		panic(fmt.Sprintf("egraph: unknown pattern type %T", p))
	}
}

// Merge asserts that the classes of a and b are equivalent. It returns
// false if they were already in the same class (a no-op), and true if
// a genuine merge — and the rebuild it triggers — happened.
func (g *EGraph) Merge(a, b EClassId) bool {
	root, child, ok := g.uf.Union(a, b)
	if !ok {
		return false
	}
	survivor, absorbed := g.classes[root], g.classes[child]
	survivor.mergeFrom(absorbed)
	delete(g.classes, child)

	// The absorbed class's original e-node is no longer canonical
	// (one of its children may now resolve to a different root via
	// this very union); its hashcons entry would otherwise dangle.
	delete(g.hashcons, absorbed.original)
	recanon := g.canonicalize(absorbed.original.Value())
	g.hashcons[intern(recanon)] = g.uf.Find(root)

	g.worklist = append(g.worklist, root)
	g.rebuild()
	return true
}

// rebuild drains the repair worklist to a fixed point, restoring the
// canonicality and congruence invariants after one or more merges.
func (g *EGraph) rebuild() {
	for len(g.worklist) > 0 {
		// Dedup pending ids against their current root: a class can
		// be scheduled more than once, and an id can have been
		// absorbed by the time its turn comes up. Roots are repaired
		// in the order they were scheduled, so that identical
		// operation histories produce identical e-graphs.
		var todo []EClassId
		scheduled := make(map[EClassId]bool)
		for _, e := range g.worklist {
			if r := g.uf.Find(e); !scheduled[r] {
				scheduled[r] = true
				todo = append(todo, r)
			}
		}
		g.worklist = g.worklist[:0]
		for _, e := range todo {
			g.repair(e)
		}
	}
}

// repair re-canonicalizes every parent e-node of e and merges any
// classes that this reveals to be congruent.
func (g *EGraph) repair(e EClassId) {
	c, ok := g.classes[g.uf.Find(e)]
	if !ok {
		// e was absorbed by a merge performed earlier in this same
		// drain; nothing to repair.
		return
	}
	for _, p := range c.parents {
		delete(g.hashcons, p.node)
		recanon := g.canonicalize(p.node.Value())
		g.hashcons[intern(recanon)] = g.uf.Find(p.class)
	}

	seen := make(map[nodeHandle]EClassId)
	var dedup []parentLink
	for _, p := range c.parents {
		recanon := intern(g.canonicalize(p.node.Value()))
		pClass := g.uf.Find(p.class)
		if prior, ok := seen[recanon]; ok {
			if prior != pClass {
				g.merge(prior, pClass)
			}
		} else {
			seen[recanon] = pClass
			dedup = append(dedup, parentLink{recanon, pClass})
		}
	}
	c.resetParents(dedup)
}

// merge is Merge's inner, worklist-aware half: repair calls back into
// it directly (rather than through Merge) so that the recursive
// congruence closures it triggers are drained by the rebuild loop
// already running instead of re-entering Merge's own rebuild call.
func (g *EGraph) merge(a, b EClassId) bool {
	root, child, ok := g.uf.Union(a, b)
	if !ok {
		return false
	}
	survivor, absorbed := g.classes[root], g.classes[child]
	survivor.mergeFrom(absorbed)
	delete(g.classes, child)
	delete(g.hashcons, absorbed.original)
	recanon := g.canonicalize(absorbed.original.Value())
	g.hashcons[intern(recanon)] = g.uf.Find(root)
	g.worklist = append(g.worklist, root)
	return true
}
