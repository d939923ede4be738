package statement

import (
	"sort"

	"github.com/ppiankov/dartxbrl/internal/xbrl"
)

// Node is one concept's position in a statement outline
type Node struct {
	Concept  string
	Parent   string // "" for a network root
	Depth    int    // 0 for a network root
	Position int    // global visiting order across networks
	Role     string
}

// Outline is the ordered concept tree of one statement type
type Outline struct {
	Nodes []Node
	index map[string]int
}

func newOutline() *Outline {
	return &Outline{index: make(map[string]int)}
}

// Lookup returns the node of a concept
func (o *Outline) Lookup(concept string) (Node, bool) {
	if o == nil {
		return Node{}, false
	}
	i, ok := o.index[concept]
	if !ok {
		return Node{}, false
	}
	return o.Nodes[i], true
}

// Contains reports whether the concept was reached
func (o *Outline) Contains(concept string) bool {
	_, ok := o.Lookup(concept)
	return ok
}

// Len returns the number of reached concepts
func (o *Outline) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Nodes)
}

// Ancestors returns the ancestors of a concept below the network root,
// outermost first. The concept itself is not included.
func (o *Outline) Ancestors(concept string) []string {
	node, ok := o.Lookup(concept)
	if !ok {
		return nil
	}
	var chain []string
	for node.Parent != "" {
		parent, ok := o.Lookup(node.Parent)
		if !ok || parent.Depth == 0 {
			break
		}
		chain = append(chain, parent.Concept)
		node = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// visit adds a node unless the concept already has a position
func (o *Outline) visit(n Node) bool {
	if _, seen := o.index[n.Concept]; seen {
		return false
	}
	n.Position = len(o.Nodes)
	o.index[n.Concept] = len(o.Nodes)
	o.Nodes = append(o.Nodes, n)
	return true
}

// walk traverses one network depth-first with an explicit stack,
// children in ascending arc order
func (o *Outline) walk(net xbrl.Network) {
	children := make(map[string][]xbrl.Arc)
	for _, a := range net.Arcs {
		children[a.From] = append(children[a.From], a)
	}
	for from := range children {
		arcs := children[from]
		sort.SliceStable(arcs, func(i, j int) bool { return arcs[i].Order < arcs[j].Order })
	}

	type frame struct {
		concept string
		parent  string
		depth   int
	}

	roots := Roots(net)
	stack := make([]frame, 0, len(net.Arcs)+len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{concept: roots[i]})
	}

	// guards against cycles within one network
	expanded := make(map[string]bool)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		o.visit(Node{Concept: top.concept, Parent: top.parent, Depth: top.depth, Role: net.Role})
		if expanded[top.concept] {
			continue
		}
		expanded[top.concept] = true

		kids := children[top.concept]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{concept: kids[i].To, parent: top.concept, depth: top.depth + 1})
		}
	}
}

// Roots returns the concepts of a network without an incoming arc,
// in order of first appearance
func Roots(net xbrl.Network) []string {
	incoming := make(map[string]bool, len(net.Arcs))
	for _, a := range net.Arcs {
		incoming[a.To] = true
	}
	seen := make(map[string]bool)
	var roots []string
	for _, a := range net.Arcs {
		if incoming[a.From] || seen[a.From] {
			continue
		}
		seen[a.From] = true
		roots = append(roots, a.From)
	}
	return roots
}
