package substructure

import (
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/pkg/errors"
)

// Options configures query construction, search and ranking.
type Options struct {
	BondMode        BondMode
	MatchSaturation bool
	RemoveHydrogens bool

	// Induced forbids target bonds between atoms whose query counterparts
	// are not bonded.  The default is plain subgraph semantics.
	Induced bool

	// UniqueTargets makes GetMaps keep one mapping per target atom set.
	UniqueTargets bool

	// MaxMappings stops enumeration after that many mappings; 0 is unlimited.
	MaxMappings int

	// Ranking lists the ranking filters, primary key first.
	Ranking []FilterKind

	Energies *BondEnergyTable
	Logger   logging.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns any-bond subgraph matching ranked by stereo,
// fragment count and bond energy.
func DefaultOptions() Options {
	return Options{
		BondMode: BondModeAny,
		Ranking:  []FilterKind{FilterStereo, FilterFragment, FilterEnergy},
		Energies: DefaultBondEnergies(),
		Logger:   logging.NewNopLogger(),
	}
}

// Validate rejects option values the search cannot honour.
func (o Options) Validate() error {
	if o.MaxMappings < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "max mappings must be >= 0").
			WithDetailf("max_mappings=%d", o.MaxMappings)
	}
	if o.BondMode < BondModeAny || o.BondMode > BondModeUnsaturation {
		return errors.New(errors.ErrCodeInvalidOption, "unknown bond mode").
			WithDetailf("bond_mode=%d", o.BondMode)
	}
	seen := make(map[FilterKind]bool, len(o.Ranking))
	for _, k := range o.Ranking {
		if k < FilterStereo || k > FilterEnergy {
			return errors.New(errors.ErrCodeInvalidOption, "unknown ranking filter").WithDetailf("filter=%d", k)
		}
		if seen[k] {
			return errors.New(errors.ErrCodeInvalidOption, "ranking filter listed twice").WithDetail(k.String())
		}
		seen[k] = true
	}
	return nil
}

// WithBondMode selects the bond matcher variant.
func WithBondMode(m BondMode) Option { return func(o *Options) { o.BondMode = m } }

// RequireExactBonds is WithBondMode(BondModeExact).
func RequireExactBonds() Option { return WithBondMode(BondModeExact) }

// WithSaturation enables saturation-aware atom matching.
func WithSaturation() Option { return func(o *Options) { o.MatchSaturation = true } }

// RemoveHydrogens excludes hydrogens from both graphs.
func RemoveHydrogens() Option { return func(o *Options) { o.RemoveHydrogens = true } }

// Induced enables induced-subgraph semantics.
func Induced() Option { return func(o *Options) { o.Induced = true } }

// UniqueTargets collapses symmetry-equivalent mappings in GetMaps.
func UniqueTargets() Option { return func(o *Options) { o.UniqueTargets = true } }

// WithMaxMappings bounds enumeration.
func WithMaxMappings(n int) Option { return func(o *Options) { o.MaxMappings = n } }

// WithRanking replaces the ranking filters.  No arguments disables ranking.
func WithRanking(kinds ...FilterKind) Option {
	return func(o *Options) { o.Ranking = append([]FilterKind(nil), kinds...) }
}

// WithBondEnergies replaces the bond-energy table used by ranking.
func WithBondEnergies(t *BondEnergyTable) Option {
	return func(o *Options) {
		if t != nil {
			o.Energies = t
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

//Personal.AI order the ending
