package egraph

// EClass is an equivalence class of e-nodes: the set of all e-nodes
// congruent under the merges performed so far.
//
// nodes and parents are kept as insertion-ordered slices with a side
// index for membership/lookup, rather than bare Go maps: iteration
// order over a Go map is randomized per range, which would make
// e-matcher enumeration order (implementation-defined, but required to
// be deterministic given identical operation history) vary between two
// calls in the very same process. A slice plus an index map gives O(1)
// membership and dedup while keeping iteration order equal to
// insertion order.
type EClass struct {
	nodes    []nodeHandle
	nodeIdx  map[nodeHandle]int
	original nodeHandle

	parents   []parentLink
	parentIdx map[nodeHandle]int
}

// parentLink records that the e-node `node` (which has this class as
// one of its children) currently lives in e-class `class`.
type parentLink struct {
	node  nodeHandle
	class EClassId
}

func newEClass(n nodeHandle) *EClass {
	c := &EClass{
		nodeIdx:   make(map[nodeHandle]int),
		original:  n,
		parentIdx: make(map[nodeHandle]int),
	}
	c.addNode(n)
	return c
}

// addNode adds n to the class's node set if not already present.
func (c *EClass) addNode(n nodeHandle) {
	if _, ok := c.nodeIdx[n]; ok {
		return
	}
	c.nodeIdx[n] = len(c.nodes)
	c.nodes = append(c.nodes, n)
}

// hasNode reports whether n is a member of the class.
func (c *EClass) hasNode(n nodeHandle) bool {
	_, ok := c.nodeIdx[n]
	return ok
}

// Nodes returns the class's e-nodes in deterministic (insertion) order.
func (c *EClass) Nodes() []nodeHandle {
	return c.nodes
}

// addParent records that node (a parent of this class) lives in class
// `in`. If node already had a recorded parent class, the newer value
// silently replaces it: repair re-derives parent links from scratch on
// every rebuild, so only the latest is ever meaningful.
func (c *EClass) addParent(node nodeHandle, in EClassId) {
	if i, ok := c.parentIdx[node]; ok {
		c.parents[i].class = in
		return
	}
	c.parentIdx[node] = len(c.parents)
	c.parents = append(c.parents, parentLink{node, in})
}

// mergeFrom folds the nodes and parents of `other` (an absorbed class)
// into c (the surviving class).
func (c *EClass) mergeFrom(other *EClass) {
	for _, n := range other.nodes {
		c.addNode(n)
	}
	for _, p := range other.parents {
		c.addParent(p.node, p.class)
	}
}

// resetParents replaces the parent list wholesale, used by repair once
// it has recomputed canonical parent links.
func (c *EClass) resetParents(links []parentLink) {
	c.parents = links
	c.parentIdx = make(map[nodeHandle]int, len(links))
	for i, p := range links {
		c.parentIdx[p.node] = i
	}
}
