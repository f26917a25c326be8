package substructure

import (
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/molmatch/internal/domain/molecule"
)

// AtomPair is one (query atom position, target atom position) correspondence.
type AtomPair struct {
	Query  int
	Target int
}

// Mapping is a complete assignment of query atoms to target atoms, ordered
// by query node construction order.
type Mapping []AtomPair

// Clone returns an independent copy.
func (m Mapping) Clone() Mapping {
	return append(Mapping(nil), m...)
}

// TargetOf returns the target position bound to query position q.
func (m Mapping) TargetOf(q int) (int, bool) {
	for _, p := range m {
		if p.Query == q {
			return p.Target, true
		}
	}
	return -1, false
}

// TargetSet returns the mapped target positions.
func (m Mapping) TargetSet() map[int]struct{} {
	set := make(map[int]struct{}, len(m))
	for _, p := range m {
		set[p.Target] = struct{}{}
	}
	return set
}

// AtomMatch is a materialised atom-to-atom correspondence.
type AtomMatch struct {
	Query  *molecule.Atom
	Target *molecule.Atom
}

// Atoms materialises the mapping against the graphs it was computed on.
func (m Mapping) Atoms(query, target molecule.Graph) []AtomMatch {
	out := make([]AtomMatch, len(m))
	for i, p := range m {
		out[i] = AtomMatch{Query: query.Atom(p.Query), Target: target.Atom(p.Target)}
	}
	return out
}

// pairKey identifies the mapping as an unordered set of pairs.
func (m Mapping) pairKey() string {
	pairs := m.Clone()
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Query != pairs[j].Query {
			return pairs[i].Query < pairs[j].Query
		}
		return pairs[i].Target < pairs[j].Target
	})
	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(strconv.Itoa(p.Query))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(p.Target))
		sb.WriteByte(',')
	}
	return sb.String()
}

// coverKey identifies the mapping by its query and target position sets.
func (m Mapping) coverKey() string {
	qs := make([]int, len(m))
	ts := make([]int, len(m))
	for i, p := range m {
		qs[i], ts[i] = p.Query, p.Target
	}
	sort.Ints(qs)
	sort.Ints(ts)
	var sb strings.Builder
	for _, q := range qs {
		sb.WriteString(strconv.Itoa(q))
		sb.WriteByte(',')
	}
	sb.WriteByte('|')
	for _, t := range ts {
		sb.WriteString(strconv.Itoa(t))
		sb.WriteByte(',')
	}
	return sb.String()
}

// MappingArena collects the mappings of one search invocation.  It is owned
// by the caller and must not be shared between concurrent searches.
type MappingArena struct {
	mappings []Mapping
}

// NewMappingArena returns an empty arena.
func NewMappingArena() *MappingArena {
	return &MappingArena{}
}

// Clear drops every mapping, keeping capacity.
func (a *MappingArena) Clear() {
	a.mappings = a.mappings[:0]
}

// Add appends a mapping.  The arena takes ownership of m.
func (a *MappingArena) Add(m Mapping) {
	a.mappings = append(a.mappings, m)
}

// Set replaces the contents, used when merging results from several strategies.
func (a *MappingArena) Set(list []Mapping) {
	a.mappings = append(a.mappings[:0], list...)
}

// GetFinalMapping returns the mappings in insertion order.
func (a *MappingArena) GetFinalMapping() []Mapping {
	return a.mappings
}

// Len returns the number of mappings held.
func (a *MappingArena) Len() int {
	return len(a.mappings)
}

//Personal.AI order the ending
