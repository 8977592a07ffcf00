package egraph

import (
	"hash/maphash"
	"slices"

	"github.com/rogpeppe/eqsat/anyunique"
)

// EClassId is an opaque, dense e-class identifier. Two ids denote the
// same class iff the e-graph's union-find maps them to the same root;
// callers must re-canonicalize through EGraph.Find before using one,
// since a merge can change which id is the current root.
//
// EClassId is branded as its own type (rather than a bare int) so that
// it can't be silently mixed up with any other integer-keyed id in this
// module, matching this codebase's branded-generics convention (see
// unionfind.UnionFind's K type parameter).
type EClassId int

// ENode is a single operator application over child e-classes: the
// atom of the e-graph. ENode is a plain, immutable value type; two
// ENodes are equal iff their Op and Children are equal element-wise.
type ENode struct {
	Op       string
	Children []EClassId
}

// enodeHasher implements anyunique.Hasher[ENode]: it hashes the
// operator string followed by each canonical child id. The separator
// byte between the two keeps an op name from colliding with a
// differently-split op+children encoding of some other node.
type enodeHasher struct{}

func (enodeHasher) Hash(h *maphash.Hash, n ENode) {
	h.WriteString(n.Op)
	h.WriteByte(0) // separator so "a"+[1] can't collide with "a1"+[]
	for _, c := range n.Children {
		maphash.WriteComparable(h, c)
	}
}

func (enodeHasher) Equal(a, b ENode) bool {
	return a.Op == b.Op && slices.Equal(a.Children, b.Children)
}

// interned is the process-wide e-node table: it canonicalizes ENode
// values into comparable handles so that structurally equal e-nodes —
// regardless of which EGraph or when they were constructed — collapse
// to the same Handle value. EGraph.hashcons (egraph.go) is then just
// an ordinary Go map keyed by this handle, since anyunique.Handle is
// itself comparable.
var interned = anyunique.New[ENode, enodeHasher](enodeHasher{})

// nodeHandle is a canonical, comparable reference to an ENode value.
type nodeHandle = anyunique.Handle[ENode]

// intern returns the canonical handle for n.
func intern(n ENode) nodeHandle {
	return interned.Make(n)
}
