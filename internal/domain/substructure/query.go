package substructure

import (
	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/pkg/errors"
)

// Node wraps one query atom.
type Node struct {
	index int
	owner *QueryGraph

	// AtomIndex is the position of Atom in the source query molecule.
	AtomIndex int
	Atom      *molecule.Atom
	Matcher   AtomMatcher

	neighbors []*Node
	edges     []*Edge
}

// Index returns the construction-order position of the node.
func (n *Node) Index() int { return n.index }

// Degree returns the number of query edges at the node.
func (n *Node) Degree() int { return len(n.edges) }

// Neighbors returns adjacent nodes in connection order.
func (n *Node) Neighbors() []*Node { return n.neighbors }

// Edges returns incident edges in connection order.
func (n *Node) Edges() []*Edge { return n.edges }

// IsNeighbor reports whether other is adjacent to n.
func (n *Node) IsNeighbor(other *Node) bool {
	for _, nb := range n.neighbors {
		if nb == other {
			return true
		}
	}
	return false
}

// Edge wraps one query bond.
type Edge struct {
	index   int
	A, B    *Node
	Bond    *molecule.Bond
	Matcher BondMatcher
}

// Index returns the construction-order position of the edge.
func (e *Edge) Index() int { return e.index }

// Other returns the endpoint opposite n.
func (e *Edge) Other(n *Node) *Node {
	if e.A == n {
		return e.B
	}
	return e.A
}

// QueryGraph is an append-only graph of matcher-carrying nodes and edges.
type QueryGraph struct {
	nodes  []*Node
	edges  []*Edge
	source *GraphView
}

// NewQueryGraph returns an empty query graph.
func NewQueryGraph() *QueryGraph {
	return &QueryGraph{}
}

// AddNode registers a node for atom guarded by m.
func (q *QueryGraph) AddNode(m AtomMatcher, atom *molecule.Atom) *Node {
	n := &Node{
		index:     len(q.nodes),
		owner:     q,
		AtomIndex: len(q.nodes),
		Atom:      atom,
		Matcher:   m,
	}
	q.nodes = append(q.nodes, n)
	return n
}

// Connect links a and b with an undirected edge guarded by m.
func (q *QueryGraph) Connect(a, b *Node, m BondMatcher, bond *molecule.Bond) (*Edge, error) {
	switch {
	case a == nil || b == nil:
		return nil, errors.New(errors.ErrCodeInvalidQuery, "cannot connect a nil node")
	case a.owner != q || b.owner != q:
		return nil, errors.New(errors.ErrCodeInvalidQuery, "node belongs to another query graph")
	case a == b:
		return nil, errors.New(errors.ErrCodeInvalidQuery, "cannot connect a node to itself").
			WithDetailf("node=%d", a.index)
	case a.IsNeighbor(b):
		return nil, errors.New(errors.ErrCodeInvalidQuery, "nodes are already connected").
			WithDetailf("a=%d b=%d", a.index, b.index)
	}
	if m == nil {
		m = AnyBondMatcher{}
	}
	e := &Edge{index: len(q.edges), A: a, B: b, Bond: bond, Matcher: m}
	q.edges = append(q.edges, e)
	a.neighbors = append(a.neighbors, b)
	a.edges = append(a.edges, e)
	b.neighbors = append(b.neighbors, a)
	b.edges = append(b.edges, e)
	return e, nil
}

// GetNode returns the node wrapping atom, or nil.  Query graphs are small,
// so this is a linear scan.
func (q *QueryGraph) GetNode(atom *molecule.Atom) *Node {
	for _, n := range q.nodes {
		if n.Atom == atom {
			return n
		}
	}
	return nil
}

func (q *QueryGraph) NodeCount() int   { return len(q.nodes) }
func (q *QueryGraph) EdgeCount() int   { return len(q.edges) }
func (q *QueryGraph) Node(i int) *Node { return q.nodes[i] }
func (q *QueryGraph) Nodes() []*Node   { return q.nodes }
func (q *QueryGraph) Edges() []*Edge   { return q.edges }

// Source returns the view of the molecule the query was built from, or nil
// for hand-assembled queries.
func (q *QueryGraph) Source() *GraphView { return q.source }

// BuildQuery assembles a query graph from a whole molecule.  Hydrogens are
// skipped when opts.RemoveHydrogens is set; bond matchers follow opts.BondMode.
func BuildQuery(query molecule.Graph, opts Options) (*QueryGraph, error) {
	view, err := NewGraphView(query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidQuery, "invalid query graph")
	}
	q := NewQueryGraph()
	q.source = view

	byAtom := make([]*Node, view.AtomCount())
	for i := 0; i < view.AtomCount(); i++ {
		a := view.AtomAt(i)
		if opts.RemoveHydrogens && a.IsHydrogen() {
			continue
		}
		n := q.AddNode(NewAtomMatcher(view, i, opts.MatchSaturation), a)
		n.AtomIndex = i
		byAtom[i] = n
	}
	if q.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "query graph has no matchable atoms")
	}
	for k := 0; k < query.BondCount(); k++ {
		b := query.Bond(k)
		na, nb := byAtom[b.Begin], byAtom[b.End]
		if na == nil || nb == nil {
			continue
		}
		if _, err := q.Connect(na, nb, NewBondMatcher(view, b, opts.BondMode), b); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid query graph").WithDetailf("bond=%d", k)
		}
	}
	return q, nil
}

//Personal.AI order the ending
