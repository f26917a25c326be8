package matching

import (
	"github.com/turtacn/molmatch/internal/config"
	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/domain/substructure"
	"github.com/turtacn/molmatch/pkg/errors"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// mergeDefaults fills the request fields left empty from configuration.
func mergeDefaults(dto mtypes.MatchOptionsDTO, cfg config.MatchingConfig) mtypes.MatchOptionsDTO {
	if dto.BondMode == "" {
		dto.BondMode = cfg.BondMode
	}
	if len(dto.Ranking) == 0 {
		dto.Ranking = append([]string(nil), cfg.Ranking...)
	}
	if dto.MaxMappings == 0 {
		dto.MaxMappings = cfg.MaxMappings
	}
	dto.RemoveHydrogens = dto.RemoveHydrogens || cfg.RemoveHydrogens
	return dto
}

// toOptions converts wire options into engine options.
func (s *Service) toOptions(dto mtypes.MatchOptionsDTO) ([]substructure.Option, error) {
	mode, err := substructure.ParseBondMode(dto.BondMode)
	if err != nil {
		return nil, err
	}
	kinds := make([]substructure.FilterKind, 0, len(dto.Ranking))
	for _, r := range dto.Ranking {
		k, err := substructure.ParseFilterKind(r)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}

	opts := []substructure.Option{
		substructure.WithBondMode(mode),
		substructure.WithMaxMappings(dto.MaxMappings),
		substructure.WithRanking(kinds...),
		substructure.WithBondEnergies(s.energies),
		substructure.WithLogger(s.logger),
	}
	if dto.MatchSaturation {
		opts = append(opts, substructure.WithSaturation())
	}
	if dto.RemoveHydrogens {
		opts = append(opts, substructure.RemoveHydrogens())
	}
	if dto.Induced {
		opts = append(opts, substructure.Induced())
	}
	if dto.UniqueTargets {
		opts = append(opts, substructure.UniqueTargets())
	}
	return opts, nil
}

// decodeGraph builds a molecule from its DTO, tagging failures with code.
func (s *Service) decodeGraph(dto mtypes.MoleculeGraphDTO, code errors.ErrorCode, role string) (*molecule.Molecule, error) {
	if len(dto.Atoms) == 0 {
		return nil, errors.New(code, role+" has no atoms")
	}
	mol, err := molecule.FromDTO(dto)
	if err != nil {
		return nil, errors.Wrap(err, code, "invalid "+role+" graph")
	}
	return mol, nil
}

func (s *Service) decodeQuery(dto mtypes.MoleculeGraphDTO) (*molecule.Molecule, error) {
	mol, err := s.decodeGraph(dto, errors.ErrCodeInvalidQuery, "query")
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxQueryAtoms > 0 && mol.AtomCount() > s.cfg.MaxQueryAtoms {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "query is too large").
			WithDetailf("atoms=%d max=%d", mol.AtomCount(), s.cfg.MaxQueryAtoms)
	}
	return mol, nil
}

func toMappingDTO(m substructure.Mapping, sc substructure.Scores) mtypes.MappingDTO {
	pairs := make([]mtypes.AtomPairDTO, len(m))
	for i, p := range m {
		pairs[i] = mtypes.AtomPairDTO{Query: p.Query, Target: p.Target}
	}
	return mtypes.MappingDTO{
		Pairs:            pairs,
		StereoMismatches: sc.StereoMismatches,
		Fragments:        sc.Fragments,
		Energy:           sc.Energy,
	}
}

//Personal.AI order the ending
