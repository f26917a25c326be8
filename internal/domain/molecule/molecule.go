// Package molecule provides the molecular graph model consumed by the
// substructure engine: atoms, bonds, an immutable Molecule and a Builder that
// validates graph shape before anything downstream sees it.
package molecule

import (
	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
)

// Graph is the read-only adjacency contract the matching engine depends on.
// Atom positions are stable for the lifetime of the value.
type Graph interface {
	AtomCount() int
	BondCount() int
	Atom(i int) *Atom
	Bond(i int) *Bond
}

// Molecule is an immutable molecular graph.  Construct it with a Builder or
// FromDTO; both validate bond endpoints.
type Molecule struct {
	ID    common.ID
	Name  string
	atoms []*Atom
	bonds []*Bond
}

func (m *Molecule) AtomCount() int   { return len(m.atoms) }
func (m *Molecule) BondCount() int   { return len(m.bonds) }
func (m *Molecule) Atom(i int) *Atom { return m.atoms[i] }
func (m *Molecule) Bond(i int) *Bond { return m.bonds[i] }

// Atoms returns the atom slice.  Callers must not modify it.
func (m *Molecule) Atoms() []*Atom { return m.atoms }

// Bonds returns the bond slice.  Callers must not modify it.
func (m *Molecule) Bonds() []*Bond { return m.bonds }

// HeavyAtomCount counts non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.atoms {
		if !a.IsHydrogen() {
			n++
		}
	}
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// Builder
// ─────────────────────────────────────────────────────────────────────────────

// AtomOption customises an atom added through Builder.AddAtom.
type AtomOption func(*Atom)

// WithCharge sets the formal charge.
func WithCharge(c int) AtomOption { return func(a *Atom) { a.FormalCharge = c } }

// WithHydrogens sets the implicit hydrogen count.
func WithHydrogens(n int) AtomOption { return func(a *Atom) { a.ImplicitHydrogens = IntPtr(n) } }

// WithValence sets the declared valence.
func WithValence(v int) AtomOption { return func(a *Atom) { a.Valence = IntPtr(v) } }

// WithParity sets tetrahedral parity.
func WithParity(p int) AtomOption { return func(a *Atom) { a.Parity = p } }

// AromaticAtom flags the atom aromatic.
func AromaticAtom() AtomOption { return func(a *Atom) { a.Aromatic = true } }

// BondOption customises a bond added through Builder.AddBond.
type BondOption func(*Bond)

// WithStereo sets the double-bond configuration.
func WithStereo(s BondStereo) BondOption { return func(b *Bond) { b.Stereo = s } }

// AromaticBond flags the bond aromatic regardless of its order.
func AromaticBond() BondOption { return func(b *Bond) { b.Aromatic = true } }

// Builder assembles a Molecule.  The first error is sticky and reported by Build.
type Builder struct {
	id    common.ID
	name  string
	atoms []*Atom
	bonds []*Bond
	seen  map[[2]int]struct{}
	err   error
}

// NewBuilder starts a molecule with the given display name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name, seen: make(map[[2]int]struct{})}
}

// WithID assigns the molecule identifier.
func (b *Builder) WithID(id common.ID) *Builder {
	b.id = id
	return b
}

// AddAtom appends an atom and returns its position.
func (b *Builder) AddAtom(symbol string, opts ...AtomOption) int {
	a := &Atom{Symbol: symbol}
	for _, o := range opts {
		o(a)
	}
	if symbol == "" && b.err == nil {
		b.err = errors.New(errors.ErrCodeMoleculeInvalidGraph, "atom symbol is empty").
			WithDetailf("atom=%d", len(b.atoms))
	}
	b.atoms = append(b.atoms, a)
	return len(b.atoms) - 1
}

// AddBond connects positions i and j.  Aromatic orders set the aromatic flag.
func (b *Builder) AddBond(i, j int, order BondOrder, opts ...BondOption) *Builder {
	bond := &Bond{Begin: i, End: j, Order: order, Aromatic: order == BondOrderAromatic}
	for _, o := range opts {
		o(bond)
	}
	if b.err == nil {
		b.err = b.checkBond(bond, len(b.bonds))
	}
	b.bonds = append(b.bonds, bond)
	return b
}

// Chain adds the symbols as a linear chain of single bonds and returns the
// positions of the new atoms.
func (b *Builder) Chain(symbols ...string) []int {
	idx := make([]int, len(symbols))
	for k, s := range symbols {
		idx[k] = b.AddAtom(s)
		if k > 0 {
			b.AddBond(idx[k-1], idx[k], BondOrderSingle)
		}
	}
	return idx
}

func (b *Builder) checkBond(bond *Bond, pos int) error {
	n := len(b.atoms)
	if bond.Begin < 0 || bond.Begin >= n || bond.End < 0 || bond.End >= n {
		return errors.New(errors.ErrCodeMoleculeInvalidGraph, "bond references an unknown atom").
			WithDetailf("bond=%d begin=%d end=%d atoms=%d", pos, bond.Begin, bond.End, n)
	}
	if bond.Begin == bond.End {
		return errors.New(errors.ErrCodeMoleculeInvalidGraph, "bond connects an atom to itself").
			WithDetailf("bond=%d atom=%d", pos, bond.Begin)
	}
	if bond.Order == BondOrderUnset {
		return errors.New(errors.ErrCodeMoleculeInvalidGraph, "bond order is unset").
			WithDetailf("bond=%d", pos)
	}
	key := pairKey(bond.Begin, bond.End)
	if _, dup := b.seen[key]; dup {
		return errors.New(errors.ErrCodeMoleculeInvalidGraph, "duplicate bond").
			WithDetailf("bond=%d begin=%d end=%d", pos, bond.Begin, bond.End)
	}
	b.seen[key] = struct{}{}
	return nil
}

// Build returns the molecule or the first validation error.
func (b *Builder) Build() (*Molecule, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Molecule{ID: b.id, Name: b.name, atoms: b.atoms, bonds: b.bonds}, nil
}

// MustBuild is Build that panics; intended for fixtures.
func (b *Builder) MustBuild() *Molecule {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

func pairKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

//Personal.AI order the ending
