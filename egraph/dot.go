package egraph

import (
	"fmt"
	"iter"
	"strings"
)

// ClassIDs returns a read-only, ascending-order enumerator over the
// e-graph's live class ids, for callers (Dot among them) that want to
// walk the classes without reaching into unexported fields.
func (g *EGraph) ClassIDs() iter.Seq[EClassId] {
	return func(yield func(EClassId) bool) {
		ids := make([]EClassId, 0, len(g.classes))
		for id := range g.classes {
			ids = append(ids, id)
		}
		sortEClassIds(ids)
		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}

// Dot renders a debug dump of the e-graph's classes and their e-nodes,
// one class per line, e-nodes separated by " | ". It's meant for
// humans staring at a saturation run, not as a stable machine format.
// The idea comes from a generic Mermaid-diagram marshaler over
// arbitrary graph values; this dump is shaped around e-classes and
// e-nodes specifically rather than a generic Node/Edge pair, so it's a
// plain method here rather than a Marshaler implementation.
func (g *EGraph) Dot() string {
	var b strings.Builder
	for id := range g.ClassIDs() {
		fmt.Fprintf(&b, "class %d:", id)
		for i, h := range g.classes[id].Nodes() {
			if i > 0 {
				b.WriteString(" |")
			}
			n := h.Value()
			fmt.Fprintf(&b, " %s", n.Op)
			for _, c := range n.Children {
				fmt.Fprintf(&b, "/%d", g.Find(c))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
