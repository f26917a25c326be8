package substructure

// DedupMode selects how PostFilter compares mappings.
type DedupMode int

const (
	// DedupExact removes mappings equal as unordered pair sets.
	DedupExact DedupMode = iota
	// DedupSymmetry also removes mappings covering the same query and target
	// position sets, i.e. those related by a target automorphism.
	DedupSymmetry
)

// PostFilter returns mappings without duplicates under mode, preserving the
// order of first occurrence.  The input slice is not modified.
func PostFilter(mappings []Mapping, mode DedupMode) []Mapping {
	out := make([]Mapping, 0, len(mappings))
	seen := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		var key string
		if mode == DedupSymmetry {
			key = m.coverKey()
		} else {
			key = m.pairKey()
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

//Personal.AI order the ending
