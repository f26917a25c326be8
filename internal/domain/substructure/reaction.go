package substructure

import (
	"context"

	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/pkg/errors"
)

// MapReaction returns total reactant-to-product atom bijections ranked by
// stereo compatibility, then bond energy.  The graphs must have equal atom
// counts (heavy atom counts when hydrogens are removed).
func MapReaction(ctx context.Context, reactant, product molecule.Graph, opts ...Option) ([]Mapping, error) {
	if reactant == nil || product == nil {
		return nil, errors.New(errors.ErrCodeReactionShape, "reactant and product are required")
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	rc, pc := reactant.AtomCount(), product.AtomCount()
	if o.RemoveHydrogens {
		rc, pc = heavyAtoms(reactant), heavyAtoms(product)
	}
	if rc != pc {
		return nil, errors.New(errors.ErrCodeReactionShape, "reactant and product atom counts differ").
			WithDetailf("reactant=%d product=%d", rc, pc)
	}

	all := append(append([]Option(nil), opts...), WithRanking(FilterStereo, FilterEnergy))
	m, err := NewMatcher(reactant, all...)
	if err != nil {
		return nil, err
	}
	maps, err := m.GetMaps(ctx, product)
	if err != nil {
		return nil, err
	}
	total := maps[:0:0]
	for _, mp := range maps {
		if len(mp) == rc {
			total = append(total, mp)
		}
	}
	return total, nil
}

// LargestMapping returns the mapping covering the most atoms, the earliest
// on ties, or nil for an empty list.  MCS callers feed it ranked mappings.
func LargestMapping(mappings []Mapping) Mapping {
	var best Mapping
	for _, m := range mappings {
		if len(m) > len(best) {
			best = m
		}
	}
	return best
}

func heavyAtoms(g molecule.Graph) int {
	n := 0
	for i := 0; i < g.AtomCount(); i++ {
		if !g.Atom(i).IsHydrogen() {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
