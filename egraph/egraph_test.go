package egraph_test

import (
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"

	"github.com/rogpeppe/eqsat/egraph"
	"github.com/rogpeppe/eqsat/egraph/term"
)

func mustTerm(t *testing.T, src string) term.Term {
	t.Helper()
	tm, err := term.Parse(src)
	qt.Assert(t, qt.IsNil(err))
	return tm
}

func mustPattern(t *testing.T, src string) term.Pattern {
	t.Helper()
	p, err := term.ParsePattern(src)
	qt.Assert(t, qt.IsNil(err))
	return p
}

func TestAddTermIdempotent(t *testing.T) {
	g := egraph.New()
	tm := mustTerm(t, "(+ a b)")
	e1 := g.AddTerm(tm)
	e2 := g.AddTerm(tm)
	qt.Assert(t, qt.Equals(e1, e2))
}

func TestAddTermIdempotentAfterMerge(t *testing.T) {
	g := egraph.New()
	a := g.AddTerm(mustTerm(t, "a"))
	b := g.AddTerm(mustTerm(t, "b"))
	g.Merge(a, b)

	tm := mustTerm(t, "(f a)")
	e1 := g.AddTerm(tm)
	e2 := g.AddTerm(tm)
	qt.Assert(t, qt.Equals(g.Find(e1), g.Find(e2)))
}

func TestCongruenceClosure(t *testing.T) {
	// (f a) and (f b) must collapse into the same class once a and b
	// are merged, by congruence: same op, pointwise-equivalent
	// children implies equivalent.
	g := egraph.New()
	fa := g.AddTerm(mustTerm(t, "(f a)"))
	fb := g.AddTerm(mustTerm(t, "(f b)"))
	qt.Assert(t, qt.Not(qt.Equals(g.Find(fa), g.Find(fb))))

	a := g.AddTerm(mustTerm(t, "a"))
	b := g.AddTerm(mustTerm(t, "b"))
	g.Merge(a, b)

	qt.Assert(t, qt.Equals(g.Find(fa), g.Find(fb)))
}

func TestMergeReturnsFalseWhenAlreadyEqual(t *testing.T) {
	g := egraph.New()
	a := g.AddTerm(mustTerm(t, "a"))
	b := g.AddTerm(mustTerm(t, "b"))
	qt.Assert(t, qt.Equals(g.Merge(a, b), true))
	qt.Assert(t, qt.Equals(g.Merge(a, b), false))
}

func TestMatcherSoundness(t *testing.T) {
	g := egraph.New()
	g.AddTerm(mustTerm(t, "(+ a b)"))
	p := mustPattern(t, "(+ ?x ?y)")

	found := false
	for σ, e := range g.Ematch(p) {
		found = true
		inst := g.AddPattern(σ, p)
		qt.Assert(t, qt.Equals(g.Find(inst), g.Find(e)))
	}
	qt.Assert(t, qt.Equals(found, true))
}

func TestMatcherCompleteness(t *testing.T) {
	g := egraph.New()
	root := g.AddTerm(mustTerm(t, "(f a a)"))
	p := mustPattern(t, "(f ?x ?x)") // linear-by-use: both occurrences must agree

	var matches int
	for σ, e := range g.Ematch(p) {
		if g.Find(e) == g.Find(root) {
			matches++
			a := g.AddTerm(mustTerm(t, "a"))
			qt.Assert(t, qt.Equals(g.Find(σ["x"]), g.Find(a)))
		}
	}
	qt.Assert(t, qt.Not(qt.Equals(matches, 0)))
}

func TestMatcherRejectsNonLinearMismatch(t *testing.T) {
	g := egraph.New()
	g.AddTerm(mustTerm(t, "(f a b)"))
	p := mustPattern(t, "(f ?x ?x)")

	for range g.Ematch(p) {
		t.Fatal("(f ?x ?x) should not match (f a b) when a != b")
	}
}

func TestMatcherArityMismatchFiltered(t *testing.T) {
	g := egraph.New()
	g.AddTerm(mustTerm(t, "(f a)"))
	p := mustPattern(t, "(f ?x ?y)")

	for range g.Ematch(p) {
		t.Fatal("arity mismatch should never match")
	}
}

func TestExtractionMinimality(t *testing.T) {
	g := egraph.New()
	root := g.AddTerm(mustTerm(t, "(+ a a)"))
	doubled := g.AddTerm(mustTerm(t, "(* 2 a)"))
	g.Merge(root, doubled)

	_, size := g.ExtractSmallest(root)
	qt.Assert(t, qt.Equals(size, 3)) // both representatives have size 3
}

func TestExtractionPicksSmaller(t *testing.T) {
	g := egraph.New()
	root := g.AddTerm(mustTerm(t, "(f a b c)"))
	leaf := g.AddTerm(mustTerm(t, "z"))
	g.Merge(root, leaf)

	tm, size := g.ExtractSmallest(root)
	qt.Assert(t, qt.Equals(size, 1))
	qt.Assert(t, qt.Equals(tm.Op, "z"))
}

func TestExtractionCycleSafe(t *testing.T) {
	// Build a self-referential e-node by merging a class with the
	// class of a node that has it as a child: (g x) ~ x. A cyclic
	// witness must not prevent extracting the acyclic one (x itself).
	g := egraph.New()
	x := g.AddTerm(mustTerm(t, "x"))
	gx := g.Add(egraphNode("g", x))
	g.Merge(x, gx)

	tm, size := g.ExtractSmallest(x)
	qt.Assert(t, qt.Equals(size, 1))
	qt.Assert(t, qt.Equals(tm.Op, "x"))
}

func TestExtractionReturnsExactTree(t *testing.T) {
	// A structural (not just String()) comparison of the extracted
	// term against the term we built it from, so a wrong child order
	// or a wrong Op would show up as a readable field-level diff
	// rather than just "strings differ".
	g := egraph.New()
	want := mustTerm(t, "(f a b)")
	root := g.AddTerm(want)
	other := g.AddTerm(mustTerm(t, "z"))
	g.Merge(g.AddTerm(mustTerm(t, "z")), other)

	got, _ := g.ExtractSmallest(root)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("extracted term differs (-want +got):\n%s", diff)
	}
}

func egraphNode(op string, children ...egraph.EClassId) egraph.ENode {
	return egraph.ENode{Op: op, Children: children}
}

func TestCanonicalityAfterMerges(t *testing.T) {
	g := egraph.New()
	a := g.AddTerm(mustTerm(t, "a"))
	b := g.AddTerm(mustTerm(t, "b"))
	fa := g.AddTerm(mustTerm(t, "(f a)"))
	fb := g.AddTerm(mustTerm(t, "(f b)"))
	g.Merge(a, b)
	g.Merge(fa, fb)

	// Every class id we can still reach (root or not) must canonicalize
	// to a root that Find maps to itself, and re-adding the same terms must still be
	// idempotent after the merges.
	for _, id := range []egraph.EClassId{a, b, fa, fb} {
		root := g.Find(id)
		qt.Assert(t, qt.Equals(g.Find(root), root))
	}
	qt.Assert(t, qt.Equals(g.AddTerm(mustTerm(t, "(f a)")), g.Find(fa)))
}
