// Package substructure implements subgraph isomorphism search over molecular
// graphs: an indexed target view, atom and bond matcher predicates, a query
// graph, an explicit-stack backtracking search, symmetry post-filtering and
// chemical ranking of the resulting mappings.
package substructure

import (
	"sort"

	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/pkg/errors"
)

type atomPair [2]int

func newAtomPair(i, j int) atomPair {
	if i > j {
		i, j = j, i
	}
	return atomPair{i, j}
}

// GraphView is an indexed, read-only adjacency view of a target molecule.
// It is built once and may be shared across goroutines.
type GraphView struct {
	graph     molecule.Graph
	atoms     []*molecule.Atom
	index     map[*molecule.Atom]int
	neighbors [][]int
	incident  [][]*molecule.Bond
	bonds     map[atomPair]*molecule.Bond
	logger    logging.Logger
}

// ViewOption customises NewGraphView.
type ViewOption func(*GraphView)

// WithViewLogger routes lookup diagnostics to l.
func WithViewLogger(l logging.Logger) ViewOption {
	return func(v *GraphView) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewGraphView indexes g.  A bond referencing a position outside g is a
// configuration error.
func NewGraphView(g molecule.Graph, opts ...ViewOption) (*GraphView, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidTarget, "target graph is nil")
	}
	n := g.AtomCount()
	v := &GraphView{
		graph:     g,
		atoms:     make([]*molecule.Atom, n),
		index:     make(map[*molecule.Atom]int, n),
		neighbors: make([][]int, n),
		incident:  make([][]*molecule.Bond, n),
		bonds:     make(map[atomPair]*molecule.Bond, g.BondCount()),
		logger:    logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(v)
	}
	for i := 0; i < n; i++ {
		a := g.Atom(i)
		v.atoms[i] = a
		v.index[a] = i
	}
	for k := 0; k < g.BondCount(); k++ {
		b := g.Bond(k)
		if b.Begin < 0 || b.Begin >= n || b.End < 0 || b.End >= n || b.Begin == b.End {
			return nil, errors.New(errors.ErrCodeInvalidTarget, "bond references an invalid atom position").
				WithDetailf("bond=%d begin=%d end=%d atoms=%d", k, b.Begin, b.End, n)
		}
		v.bonds[newAtomPair(b.Begin, b.End)] = b
		v.neighbors[b.Begin] = append(v.neighbors[b.Begin], b.End)
		v.neighbors[b.End] = append(v.neighbors[b.End], b.Begin)
		v.incident[b.Begin] = append(v.incident[b.Begin], b)
		v.incident[b.End] = append(v.incident[b.End], b)
	}
	for i := range v.neighbors {
		sort.Ints(v.neighbors[i])
	}
	return v, nil
}

// Graph returns the underlying molecule graph.
func (v *GraphView) Graph() molecule.Graph { return v.graph }

func (v *GraphView) AtomCount() int { return len(v.atoms) }
func (v *GraphView) BondCount() int { return v.graph.BondCount() }

// AtomAt returns the atom at position i.
func (v *GraphView) AtomAt(i int) *molecule.Atom { return v.atoms[i] }

// IndexOf returns the position of atom and whether it belongs to the view.
func (v *GraphView) IndexOf(atom *molecule.Atom) (int, bool) {
	i, ok := v.index[atom]
	return i, ok
}

func (v *GraphView) lookup(atom *molecule.Atom, op string) (int, bool) {
	i, ok := v.index[atom]
	if !ok {
		v.logger.Debug("atom not present in graph view", logging.String("op", op))
	}
	return i, ok
}

// CountNeighbors returns the number of atoms bonded to atom, or 0 when atom
// is not part of the view.
func (v *GraphView) CountNeighbors(atom *molecule.Atom) int {
	i, ok := v.lookup(atom, "CountNeighbors")
	if !ok {
		return 0
	}
	return len(v.neighbors[i])
}

// GetNeighbors returns the atoms bonded to atom in ascending position order,
// or nil when atom is not part of the view.
func (v *GraphView) GetNeighbors(atom *molecule.Atom) []*molecule.Atom {
	i, ok := v.lookup(atom, "GetNeighbors")
	if !ok {
		return nil
	}
	out := make([]*molecule.Atom, len(v.neighbors[i]))
	for k, j := range v.neighbors[i] {
		out[k] = v.atoms[j]
	}
	return out
}

// GetBond returns the bond between a and b, or nil when they are not bonded
// or either atom is not part of the view.
func (v *GraphView) GetBond(a, b *molecule.Atom) *molecule.Bond {
	i, ok := v.lookup(a, "GetBond")
	if !ok {
		return nil
	}
	j, ok := v.lookup(b, "GetBond")
	if !ok {
		return nil
	}
	return v.BondBetween(i, j)
}

// Degree returns the neighbour count of position i.
func (v *GraphView) Degree(i int) int { return len(v.neighbors[i]) }

// NeighborIndices returns the sorted neighbour positions of i.  The slice is
// shared; callers must not modify it.
func (v *GraphView) NeighborIndices(i int) []int { return v.neighbors[i] }

// BondsOf returns the bonds incident to position i.
func (v *GraphView) BondsOf(i int) []*molecule.Bond { return v.incident[i] }

// BondBetween returns the bond joining positions i and j, or nil.
func (v *GraphView) BondBetween(i, j int) *molecule.Bond {
	return v.bonds[newAtomPair(i, j)]
}

// Unsaturation returns the valence deficit of position i: the sum of bond
// valence contributions minus the number of incident bonds.
func (v *GraphView) Unsaturation(i int) int {
	total := 0
	for _, b := range v.incident[i] {
		total += b.Order.Valence()
	}
	return total - len(v.incident[i])
}

// Saturation returns explicit neighbours plus implicit hydrogens of position i.
func (v *GraphView) Saturation(i int) int {
	return len(v.neighbors[i]) + v.atoms[i].HydrogenCount()
}

//Personal.AI order the ending
