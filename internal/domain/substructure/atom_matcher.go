package substructure

import (
	"github.com/turtacn/molmatch/internal/domain/molecule"
)

// AtomMatcher decides whether a query atom may bind to a target atom.
// Implementations are pure and safe for concurrent use.
type AtomMatcher interface {
	Matches(view *GraphView, target *molecule.Atom) bool
	Kind() MatcherKind
}

// MatcherKind tags the closed set of matcher variants.
type MatcherKind int

const (
	KindSymbol MatcherKind = iota
	KindAnyAtom
	KindSaturation
	KindAnyBond
	KindOrderBond
	KindUnsaturationBond
)

func (k MatcherKind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindAnyAtom:
		return "any-atom"
	case KindSaturation:
		return "saturation"
	case KindAnyBond:
		return "any-bond"
	case KindOrderBond:
		return "order"
	case KindUnsaturationBond:
		return "unsaturation"
	}
	return "unknown"
}

// SymbolMatcher accepts target atoms with the same element symbol.
type SymbolMatcher struct {
	Symbol string
}

func (m SymbolMatcher) Matches(_ *GraphView, target *molecule.Atom) bool {
	return target.Symbol == m.Symbol
}

func (SymbolMatcher) Kind() MatcherKind { return KindSymbol }

// AnyAtomMatcher accepts every target atom.  Hydrogen exclusion is applied
// by the search, not here.
type AnyAtomMatcher struct{}

func (AnyAtomMatcher) Matches(*GraphView, *molecule.Atom) bool { return true }

func (AnyAtomMatcher) Kind() MatcherKind { return KindAnyAtom }

// SaturationMatcher requires symbol equality and that the target atom can
// accommodate at least as many substituents, explicit plus implicit
// hydrogens, as the query atom carries.
type SaturationMatcher struct {
	Symbol       string
	MinNeighbors int
}

func (m SaturationMatcher) Matches(view *GraphView, target *molecule.Atom) bool {
	if target.Symbol != m.Symbol {
		return false
	}
	i, ok := view.IndexOf(target)
	if !ok {
		return false
	}
	return view.Saturation(i) >= m.MinNeighbors
}

func (SaturationMatcher) Kind() MatcherKind { return KindSaturation }

// NewAtomMatcher picks the variant for a query atom.  Wildcard symbols always
// produce AnyAtomMatcher; saturation is only applied to concrete elements.
func NewAtomMatcher(query *GraphView, atom int, saturation bool) AtomMatcher {
	a := query.AtomAt(atom)
	switch {
	case a.IsWildcard():
		return AnyAtomMatcher{}
	case saturation:
		return SaturationMatcher{Symbol: a.Symbol, MinNeighbors: query.Saturation(atom)}
	default:
		return SymbolMatcher{Symbol: a.Symbol}
	}
}

//Personal.AI order the ending
