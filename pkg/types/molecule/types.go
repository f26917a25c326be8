// Package molecule defines the wire-level data transfer objects for molecule
// graphs and substructure matching.  These types cross the HTTP, CLI and
// messaging boundaries; the domain model lives in internal/domain/molecule.
package molecule

// ─────────────────────────────────────────────────────────────────────────────
// Molecule graph
// ─────────────────────────────────────────────────────────────────────────────

// AtomDTO is the serialised form of one atom.
type AtomDTO struct {
	// Symbol is the element symbol ("C", "N", "Cl"), or "*" / "A" for a
	// wildcard query atom.
	Symbol string `json:"symbol"`

	// Charge is the formal charge.
	Charge int `json:"charge,omitempty"`

	// ImplicitHydrogens is the implicit hydrogen count; nil when unknown.
	ImplicitHydrogens *int `json:"implicit_hydrogens,omitempty"`

	// Valence is the declared valence; nil when unknown.
	Valence *int `json:"valence,omitempty"`

	Aromatic bool `json:"aromatic,omitempty"`

	// Parity is the tetrahedral parity relative to ascending neighbour index
	// order: +1 clockwise, -1 anticlockwise, 0 unspecified.
	Parity int `json:"parity,omitempty"`
}

// BondDTO is the serialised form of one bond.  Begin and End are zero-based
// positions into the owning MoleculeGraphDTO.Atoms slice.
type BondDTO struct {
	Begin int `json:"begin"`
	End   int `json:"end"`

	// Order is one of "single", "double", "triple", "quadruple", "aromatic",
	// or the SMILES bond symbols "-", "=", "#", "$", ":".
	Order string `json:"order"`

	Aromatic bool `json:"aromatic,omitempty"`

	// Stereo is the double-bond configuration: "", "E" or "Z".
	Stereo string `json:"stereo,omitempty"`
}

// MoleculeGraphDTO is a complete molecule graph.
type MoleculeGraphDTO struct {
	ID    string    `json:"id,omitempty"`
	Name  string    `json:"name,omitempty"`
	Atoms []AtomDTO `json:"atoms"`
	Bonds []BondDTO `json:"bonds"`
}

// MoleculeSummary is the list view of a stored molecule.
type MoleculeSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AtomCount int    `json:"atom_count"`
	BondCount int    `json:"bond_count"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Matching
// ─────────────────────────────────────────────────────────────────────────────

// MatchOptionsDTO configures one substructure search.
type MatchOptionsDTO struct {
	// BondMode is "any" (default), "exact" or "unsaturation".
	BondMode string `json:"bond_mode,omitempty"`

	// MatchSaturation blocks target atoms whose neighbour plus implicit
	// hydrogen count is lower than the query atom's.
	MatchSaturation bool `json:"match_saturation,omitempty"`

	RemoveHydrogens bool `json:"remove_hydrogens,omitempty"`

	// Induced additionally forbids target bonds between atoms whose query
	// counterparts are not bonded.
	Induced bool `json:"induced,omitempty"`

	// UniqueTargets collapses mappings covering the same target atom set.
	UniqueTargets bool `json:"unique_targets,omitempty"`

	// MaxMappings caps enumeration; 0 means unlimited.
	MaxMappings int `json:"max_mappings,omitempty"`

	// Ranking lists the ranking filters to apply, primary first:
	// "stereo", "fragment", "energy".
	Ranking []string `json:"ranking,omitempty"`
}

// Match modes accepted by MatchRequest.Mode.
const (
	MatchModeExists = "exists"
	MatchModeCount  = "count"
	MatchModeFirst  = "first"
	MatchModeAll    = "all"
)

// AtomPairDTO is one (query atom, target atom) correspondence.
type AtomPairDTO struct {
	Query  int `json:"query"`
	Target int `json:"target"`
}

// MappingDTO is one complete mapping with its ranking scores.
type MappingDTO struct {
	Pairs            []AtomPairDTO `json:"pairs"`
	StereoMismatches int           `json:"stereo_mismatches"`
	Fragments        int           `json:"fragments"`
	Energy           float64       `json:"energy"`
}

// MatchRequest asks whether Query occurs in Target.
type MatchRequest struct {
	Query   MoleculeGraphDTO `json:"query"`
	Target  MoleculeGraphDTO `json:"target"`
	Options MatchOptionsDTO  `json:"options"`
	Mode    string           `json:"mode,omitempty"`
}

// MatchResponse reports the outcome of a MatchRequest.
type MatchResponse struct {
	Matched   bool         `json:"matched"`
	Count     int          `json:"count"`
	Mappings  []MappingDTO `json:"mappings,omitempty"`
	ElapsedMs int64        `json:"elapsed_ms"`
	Cached    bool         `json:"cached"`
}

// ScreenRequest matches one query against stored molecules.
type ScreenRequest struct {
	JobID string           `json:"job_id,omitempty"`
	Query MoleculeGraphDTO `json:"query"`

	// TargetIDs restricts screening to the given molecules; empty means the
	// whole corpus, read in pages.
	TargetIDs []string `json:"target_ids,omitempty"`

	Options MatchOptionsDTO `json:"options"`

	// Archive uploads the screening report to object storage.
	Archive bool `json:"archive,omitempty"`
}

// ScreenHit is one corpus molecule containing the query.
type ScreenHit struct {
	MoleculeID string      `json:"molecule_id"`
	Name       string      `json:"name,omitempty"`
	Count      int         `json:"count"`
	Best       *MappingDTO `json:"best,omitempty"`
}

// ScreenResponse summarises a screening run.
type ScreenResponse struct {
	JobID     string      `json:"job_id"`
	Scanned   int         `json:"scanned"`
	Failed    int         `json:"failed"`
	Hits      []ScreenHit `json:"hits"`
	ElapsedMs int64       `json:"elapsed_ms"`
	ReportKey string      `json:"report_key,omitempty"`
}

// ReactionRequest asks for reactant-to-product atom maps.
type ReactionRequest struct {
	Reactant MoleculeGraphDTO `json:"reactant"`
	Product  MoleculeGraphDTO `json:"product"`
	Options  MatchOptionsDTO  `json:"options"`
}

// ReactionResponse lists ranked total atom maps.
type ReactionResponse struct {
	Count    int          `json:"count"`
	Mappings []MappingDTO `json:"mappings"`
}

//Personal.AI order the ending
