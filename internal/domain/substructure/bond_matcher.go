package substructure

import (
	"strings"

	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/pkg/errors"
)

// BondMatcher decides whether a query bond may bind to a target bond.
type BondMatcher interface {
	Matches(view *GraphView, target *molecule.Bond) bool
	Kind() MatcherKind
}

// AnyBondMatcher ignores bond type.
type AnyBondMatcher struct{}

func (AnyBondMatcher) Matches(*GraphView, *molecule.Bond) bool { return true }

func (AnyBondMatcher) Kind() MatcherKind { return KindAnyBond }

// OrderBondMatcher requires equal order and aromaticity.  Two aromatic bonds
// match whatever their Kekulé order.
type OrderBondMatcher struct {
	Order    molecule.BondOrder
	Aromatic bool
}

func (m OrderBondMatcher) Matches(_ *GraphView, target *molecule.Bond) bool {
	if m.Aromatic && target.IsAromatic() {
		return true
	}
	return m.Order == target.Order && m.Aromatic == target.IsAromatic()
}

func (OrderBondMatcher) Kind() MatcherKind { return KindOrderBond }

// UnsaturationBondMatcher accepts an exact match, or a different order when
// the summed valence deficit of both target endpoints equals the query's.
type UnsaturationBondMatcher struct {
	OrderBondMatcher
	Unsaturation int
}

func (m UnsaturationBondMatcher) Matches(view *GraphView, target *molecule.Bond) bool {
	if m.OrderBondMatcher.Matches(view, target) {
		return true
	}
	return view.Unsaturation(target.Begin)+view.Unsaturation(target.End) == m.Unsaturation
}

func (UnsaturationBondMatcher) Kind() MatcherKind { return KindUnsaturationBond }

// BondMode selects the bond matcher variant a query is built with.
type BondMode int

const (
	// BondModeAny ignores bond type.
	BondModeAny BondMode = iota
	// BondModeExact requires equal order and aromaticity.
	BondModeExact
	// BondModeUnsaturation accepts orders with equivalent valence deficit.
	BondModeUnsaturation
)

func (m BondMode) String() string {
	switch m {
	case BondModeExact:
		return "exact"
	case BondModeUnsaturation:
		return "unsaturation"
	}
	return "any"
}

// ParseBondMode converts "any", "exact" or "unsaturation" to a BondMode.
// The empty string selects BondModeAny.
func ParseBondMode(s string) (BondMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return BondModeAny, nil
	case "exact":
		return BondModeExact, nil
	case "unsaturation":
		return BondModeUnsaturation, nil
	}
	return BondModeAny, errors.New(errors.ErrCodeInvalidOption, "unrecognised bond mode").
		WithDetailf("mode=%q", s)
}

// NewBondMatcher builds the matcher for bond of the query view.
func NewBondMatcher(query *GraphView, bond *molecule.Bond, mode BondMode) BondMatcher {
	exact := OrderBondMatcher{Order: bond.Order, Aromatic: bond.IsAromatic()}
	switch mode {
	case BondModeExact:
		return exact
	case BondModeUnsaturation:
		return UnsaturationBondMatcher{
			OrderBondMatcher: exact,
			Unsaturation:     query.Unsaturation(bond.Begin) + query.Unsaturation(bond.End),
		}
	}
	return AnyBondMatcher{}
}

//Personal.AI order the ending
