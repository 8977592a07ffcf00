package saturate

import (
	"fmt"

	"github.com/rogpeppe/eqsat/egraph"
	"github.com/rogpeppe/eqsat/egraph/term"
)

// Stats reports how a saturation run terminated.
type Stats struct {
	// Iterations is the number of sweeps actually performed.
	Iterations int
	// Converged is true if the run stopped because neither the class
	// count nor the node count changed across a full sweep (the
	// fixed-point signal), false if it stopped because Iterations
	// reached maxIter first.
	Converged bool
	// ClassCount and NodeCount are the e-graph's final size.
	ClassCount int
	NodeCount  int
}

// DefaultMaxIter is the iteration cap Run and Saturate use when none is
// given explicitly. It is a safety cap independent of the fixed-point
// check, for rule sets that keep adding new e-nodes on every sweep.
const DefaultMaxIter = 16

// Run saturates g under rewrites starting from root, for at most
// maxIter full sweeps (maxIter <= 0 means DefaultMaxIter), and returns
// the smallest term equivalent to root's initial contents.
//
// Matches for each rule are snapshotted into a slice before any merge
// triggered by that rule's matches is applied (see the package's
// design notes on the snapshot-before-merge strategy): this is the
// simpler of the two conformant strategies the matcher's laziness
// allows, and is what this driver always does.
func Run(g *egraph.EGraph, root egraph.EClassId, rewrites []Rule, maxIter int, logger Logger) (term.Term, Stats) {
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if logger == nil {
		logger = nopLogger{}
	}

	stats := Stats{}
	for i := 0; i < maxIter; i++ {
		stats.Iterations = i + 1
		c0, n0 := g.ClassCount(), g.NodeCount()
		logger.Debugf("iteration %d: %d classes, %d nodes", i, c0, n0)

		for ri, rule := range rewrites {
			matches := g.Matches(rule.LHS)
			for _, m := range matches {
				e2 := g.AddPattern(m.Subst, rule.RHS)
				g.Merge(m.Class, e2)
			}
			logger.Debugf("  rule %d (%s): %d matches", ri, rule, len(matches))
		}

		c1, n1 := g.ClassCount(), g.NodeCount()
		if c0 == c1 && n0 == n1 {
			stats.Converged = true
			break
		}
	}
	stats.ClassCount = g.ClassCount()
	stats.NodeCount = g.NodeCount()

	t, _ := g.ExtractSmallest(g.Find(root))
	logger.Infof("extracted %s after %d iteration(s), converged=%v", t, stats.Iterations, stats.Converged)
	return t, stats
}

// Saturate is a string-in/string-out convenience wrapper: it parses
// termSrc as a ground term, saturates it under rewrites, and prints the
// extracted result back out as an S-expression.
func Saturate(termSrc string, rewrites []Rule, maxIter int, logger Logger) (string, Stats, error) {
	tm, err := term.Parse(termSrc)
	if err != nil {
		return "", Stats{}, fmt.Errorf("saturate: %w", err)
	}
	g := egraph.New()
	root := g.AddTerm(tm)
	result, stats := Run(g, root, rewrites, maxIter, logger)
	return result.String(), stats, nil
}
