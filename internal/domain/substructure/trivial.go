package substructure

import (
	"sort"
)

// trivialCandidate is one single-atom placement with its ranking key.
type trivialCandidate struct {
	pair AtomPair
	key  float64
}

// trivialMappings handles queries the general search degenerates on.  A
// single-node query yields one mapping per accepted target atom, ordered by
// ascending attached bond cost: the sum over the target atom's bonds of
// order plus bond energy, plus 0.5 when formal charges differ.  A query with
// edges never fits a bond-less target.  Multi-node edgeless queries against
// bond-less targets fall back to the general search (handled=false).
func trivialMappings(q *QueryGraph, target *GraphView, opts *Options) (mappings []Mapping, handled bool) {
	if q.EdgeCount() > 0 && target.BondCount() == 0 {
		return nil, true
	}
	if q.NodeCount() != 1 {
		return nil, false
	}
	node := q.Node(0)
	energies := opts.Energies
	if energies == nil {
		energies = DefaultBondEnergies()
	}

	var cands []trivialCandidate
	for t := 0; t < target.AtomCount(); t++ {
		atom := target.AtomAt(t)
		if opts.RemoveHydrogens && atom.IsHydrogen() {
			continue
		}
		if !node.Matcher.Matches(target, atom) {
			continue
		}
		key := 0.0
		for _, b := range target.BondsOf(t) {
			key += b.Order.Numeric() + energies.BondEnergy(target, b)
		}
		if node.Atom != nil && node.Atom.FormalCharge != atom.FormalCharge {
			key += 0.5
		}
		cands = append(cands, trivialCandidate{pair: AtomPair{Query: node.AtomIndex, Target: t}, key: key})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].key < cands[j].key })

	if opts.MaxMappings > 0 && len(cands) > opts.MaxMappings {
		cands = cands[:opts.MaxMappings]
	}
	mappings = make([]Mapping, len(cands))
	for i, c := range cands {
		mappings[i] = Mapping{c.pair}
	}
	return mappings, true
}

//Personal.AI order the ending
