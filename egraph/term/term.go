// Package term implements the textual syntax shared by ground terms and
// rewrite patterns: a minimal S-expression grammar.
//
// An atom denotes a leaf; `(op t1 ... tn)` denotes an internal node whose
// head must itself be an atom. Patterns extend the grammar with
// variables: an atom beginning with `?` is a variable reference rather
// than an operator.
package term

import "strings"

// Term is a ground term: an operator applied to zero or more child
// terms, with no free variables.
type Term struct {
	Op       string
	Children []Term
}

// String renders t back to its S-expression form. String is the
// inverse of Parse on well-formed input.
func (t Term) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Term) write(b *strings.Builder) {
	if len(t.Children) == 0 {
		b.WriteString(t.Op)
		return
	}
	b.WriteByte('(')
	b.WriteString(t.Op)
	for _, c := range t.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}

// Pattern is a term whose leaves may additionally be variables. It is
// a two-case sum (Var or Node) implemented as a small sealed interface
// rather than a single struct with an "is this a variable" flag.
type Pattern interface {
	isPattern()
	String() string
}

// Var is a pattern variable, written `?name` in source.
type Var struct {
	Name string
}

func (Var) isPattern() {}

// String renders v back to its `?name` form.
func (v Var) String() string {
	return "?" + v.Name
}

// Node is a pattern-level operator application.
type Node struct {
	Op       string
	Children []Pattern
}

func (Node) isPattern() {}

// String renders n back to its S-expression form.
func (n Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n Node) write(b *strings.Builder) {
	if len(n.Children) == 0 {
		b.WriteString(n.Op)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Op)
	for _, c := range n.Children {
		b.WriteByte(' ')
		switch c := c.(type) {
		case Node:
			c.write(b)
		default:
			b.WriteString(c.String())
		}
	}
	b.WriteByte(')')
}

// Vars returns the set of variable names occurring in p, each reported
// once regardless of how many times it's used.
func Vars(p Pattern) []string {
	seen := make(map[string]bool)
	var names []string
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch p := p.(type) {
		case Var:
			if !seen[p.Name] {
				seen[p.Name] = true
				names = append(names, p.Name)
			}
		case Node:
			for _, c := range p.Children {
				walk(c)
			}
		}
	}
	walk(p)
	return names
}
