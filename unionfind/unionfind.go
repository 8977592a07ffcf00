// Package unionfind provides a disjoint-set (union-find) data structure
// over dense integer keys, with path compression and union-by-rank.
//
// Keys are branded with a caller-supplied type K (e.g. egraph.EClassId)
// so that ids from different domains can't be mixed up at compile
// time, rather than handing callers a bare int.
package unionfind

// UnionFind implements disjoint sets over the dense integer range
// 0..n-1, extendable one key at a time via Extend.
//
// The zero value is not usable; construct with New.
type UnionFind[K ~int] struct {
	parent []K
	rank   []uint8
}

// New returns a UnionFind holding n singleton sets with keys 0..n-1.
func New[K ~int](n int) *UnionFind[K] {
	uf := &UnionFind[K]{
		parent: make([]K, n),
		rank:   make([]uint8, n),
	}
	for i := range uf.parent {
		uf.parent[i] = K(i)
	}
	return uf
}

// Extend allocates a new singleton set and returns its key.
func (uf *UnionFind[K]) Extend() K {
	k := K(len(uf.parent))
	uf.parent = append(uf.parent, k)
	uf.rank = append(uf.rank, 0)
	return k
}

// Len returns the number of keys ever allocated (not the number of
// distinct sets; use DisjointSets for that).
func (uf *UnionFind[K]) Len() int {
	return len(uf.parent)
}

// Find returns the representative of the set containing x, applying
// path compression to every node visited along the way.
func (uf *UnionFind[K]) Find(x K) K {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		uf.parent[x], x = root, uf.parent[x]
	}
	return root
}

// Union merges the sets containing x and y.
//
// If they are already in the same set, ok is false and root/child are
// unspecified. Otherwise ok is true, root is the surviving
// representative and child is the absorbed representative: the e-graph
// relies on this distinction to know which e-class to delete.
//
// Ties are broken by rank: the smaller-rank root is attached under the
// larger. On a tie, x's root survives and its rank is incremented.
func (uf *UnionFind[K]) Union(x, y K) (root, child K, ok bool) {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return rx, ry, false
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
		return ry, rx, true
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
		return rx, ry, true
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
		return rx, ry, true
	}
}

// Connected reports whether x and y are in the same set.
func (uf *UnionFind[K]) Connected(x, y K) bool {
	return uf.Find(x) == uf.Find(y)
}

// DisjointSets returns a map from each live root to the members of its
// set, in key order.
func (uf *UnionFind[K]) DisjointSets() map[K][]K {
	sets := make(map[K][]K)
	for i := range uf.parent {
		k := K(i)
		r := uf.Find(k)
		sets[r] = append(sets[r], k)
	}
	return sets
}
