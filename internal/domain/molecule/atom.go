package molecule

// Atom is one vertex of a molecular graph.  Optional properties are pointers
// so that "unknown" and "zero" stay distinguishable.
type Atom struct {
	Symbol            string
	FormalCharge      int
	ImplicitHydrogens *int
	Valence           *int
	Aromatic          bool

	// Parity is the tetrahedral parity relative to ascending neighbour
	// position order: +1, -1, or 0 when unspecified.
	Parity int
}

// HydrogenCount returns the implicit hydrogen count, 0 when unknown.
func (a *Atom) HydrogenCount() int {
	if a.ImplicitHydrogens == nil {
		return 0
	}
	return *a.ImplicitHydrogens
}

// IsHydrogen reports whether the atom is a hydrogen isotope.
func (a *Atom) IsHydrogen() bool {
	switch a.Symbol {
	case "H", "D", "T":
		return true
	}
	return false
}

// IsWildcard reports whether the atom is a query wildcard ("*" or "A").
func (a *Atom) IsWildcard() bool {
	return a.Symbol == "*" || a.Symbol == "A"
}

// IntPtr is a helper for populating optional atom properties.
func IntPtr(v int) *int { return &v }

//Personal.AI order the ending
