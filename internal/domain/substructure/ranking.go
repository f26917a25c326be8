package substructure

import (
	"sort"
	"strings"

	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/pkg/errors"
)

// FilterKind names a chemical ranking filter.
type FilterKind int

const (
	FilterStereo FilterKind = iota
	FilterFragment
	FilterEnergy
)

func (k FilterKind) String() string {
	switch k {
	case FilterStereo:
		return "stereo"
	case FilterFragment:
		return "fragment"
	case FilterEnergy:
		return "energy"
	}
	return "unknown"
}

// ParseFilterKind converts "stereo", "fragment" or "energy".
func ParseFilterKind(s string) (FilterKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stereo":
		return FilterStereo, nil
	case "fragment", "fragments":
		return FilterFragment, nil
	case "energy":
		return FilterEnergy, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidOption, "unrecognised ranking filter").WithDetailf("filter=%q", s)
}

// RankContext carries the graphs a mapping set was computed on.
type RankContext struct {
	Query    *GraphView
	Target   *GraphView
	Energies *BondEnergyTable
}

// Filter scores a mapping; lower scores rank first.
type Filter interface {
	Kind() FilterKind
	Score(rc *RankContext, m Mapping) float64
}

// StereoFilter counts tetrahedral parity inversions and E/Z mismatches.
type StereoFilter struct{}

func (StereoFilter) Kind() FilterKind { return FilterStereo }
func (StereoFilter) Score(rc *RankContext, m Mapping) float64 {
	return float64(StereoMismatches(rc, m))
}

// FragmentFilter counts connected components among mapped target atoms.
type FragmentFilter struct{}

func (FragmentFilter) Kind() FilterKind { return FilterFragment }
func (FragmentFilter) Score(rc *RankContext, m Mapping) float64 {
	return float64(Fragments(rc, m))
}

// EnergyFilter sums bond energies of the target images of query bonds.
type EnergyFilter struct{}

func (EnergyFilter) Kind() FilterKind { return FilterEnergy }
func (EnergyFilter) Score(rc *RankContext, m Mapping) float64 {
	return Energy(rc, m)
}

// FilterFor returns the filter implementing kind.
func FilterFor(kind FilterKind) Filter {
	switch kind {
	case FilterFragment:
		return FragmentFilter{}
	case FilterEnergy:
		return EnergyFilter{}
	}
	return StereoFilter{}
}

// Rank returns a new slice holding mappings ordered by the filters, the first
// filter being the primary key.  Ties keep their input order.  Neither the
// input slice nor any mapping is modified.
func Rank(rc *RankContext, mappings []Mapping, filters ...Filter) []Mapping {
	out := append([]Mapping(nil), mappings...)
	if len(filters) == 0 || len(out) < 2 {
		return out
	}
	scores := make([][]float64, len(out))
	for i, m := range out {
		row := make([]float64, len(filters))
		for k, f := range filters {
			row[k] = f.Score(rc, m)
		}
		scores[i] = row
	}
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		for k := range sa {
			if sa[k] != sb[k] {
				return sa[k] < sb[k]
			}
		}
		return false
	})
	ranked := make([]Mapping, len(out))
	for i, idx := range order {
		ranked[i] = out[idx]
	}
	return ranked
}

// Scores bundles every ranking criterion of one mapping.
type Scores struct {
	StereoMismatches int
	Fragments        int
	Energy           float64
}

// ScoreMapping evaluates all criteria for m.
func ScoreMapping(rc *RankContext, m Mapping) Scores {
	return Scores{
		StereoMismatches: StereoMismatches(rc, m),
		Fragments:        Fragments(rc, m),
		Energy:           Energy(rc, m),
	}
}

// StereoMismatches counts stereocentres whose parity is inverted by m and
// double bonds whose E/Z label differs.  Centres with unmapped neighbours or
// differing neighbour counts are not compared.
func StereoMismatches(rc *RankContext, m Mapping) int {
	if rc.Query == nil || rc.Target == nil {
		return 0
	}
	image := make(map[int]int, len(m))
	for _, p := range m {
		image[p.Query] = p.Target
	}
	mismatches := 0
	for _, p := range m {
		qa, ta := rc.Query.AtomAt(p.Query), rc.Target.AtomAt(p.Target)
		if qa.Parity == 0 || ta.Parity == 0 {
			continue
		}
		parity, ok := neighbourPermutationParity(rc, p, image)
		if !ok {
			continue
		}
		if qa.Parity*parity != ta.Parity {
			mismatches++
		}
	}
	g := rc.Query.Graph()
	for k := 0; k < g.BondCount(); k++ {
		qb := g.Bond(k)
		if qb.Stereo == molecule.BondStereoNone {
			continue
		}
		ta, okA := image[qb.Begin]
		tb, okB := image[qb.End]
		if !okA || !okB {
			continue
		}
		if target := rc.Target.BondBetween(ta, tb); target != nil && target.Stereo != molecule.BondStereoNone && target.Stereo != qb.Stereo {
			mismatches++
		}
	}
	return mismatches
}

// neighbourPermutationParity maps the query centre's ordered neighbours into
// the target and returns the parity of their order among the target centre's
// neighbours.
func neighbourPermutationParity(rc *RankContext, p AtomPair, image map[int]int) (int, bool) {
	qn := rc.Query.NeighborIndices(p.Query)
	tn := rc.Target.NeighborIndices(p.Target)
	if len(qn) != len(tn) {
		return 0, false
	}
	pos := make(map[int]int, len(tn))
	for i, t := range tn {
		pos[t] = i
	}
	perm := make([]int, len(qn))
	for i, q := range qn {
		t, ok := image[q]
		if !ok {
			return 0, false
		}
		at, ok := pos[t]
		if !ok {
			return 0, false
		}
		perm[i] = at
	}
	inversions := 0
	for i := 0; i < len(perm); i++ {
		for j := i + 1; j < len(perm); j++ {
			if perm[i] > perm[j] {
				inversions++
			}
		}
	}
	if inversions%2 == 0 {
		return 1, true
	}
	return -1, true
}

// Fragments counts connected components of the target subgraph induced by
// the mapped target atoms.
func Fragments(rc *RankContext, m Mapping) int {
	if len(m) == 0 {
		return 0
	}
	mapped := m.TargetSet()
	visited := make(map[int]bool, len(mapped))
	components := 0
	for _, p := range m {
		if visited[p.Target] {
			continue
		}
		components++
		queue := []int{p.Target}
		visited[p.Target] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range rc.Target.NeighborIndices(cur) {
				if _, in := mapped[nb]; in && !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
	}
	return components
}

// Energy sums the table energies of the target images of the query bonds.
// Target bonds outside the image do not contribute.
func Energy(rc *RankContext, m Mapping) float64 {
	if rc.Query == nil {
		return 0
	}
	table := rc.Energies
	if table == nil {
		table = DefaultBondEnergies()
	}
	image := make(map[int]int, len(m))
	for _, p := range m {
		image[p.Query] = p.Target
	}
	total := 0.0
	g := rc.Query.Graph()
	for k := 0; k < g.BondCount(); k++ {
		qb := g.Bond(k)
		ta, okA := image[qb.Begin]
		tb, okB := image[qb.End]
		if !okA || !okB {
			continue
		}
		if b := rc.Target.BondBetween(ta, tb); b != nil {
			total += table.BondEnergy(rc.Target, b)
		}
	}
	return total
}

//Personal.AI order the ending
