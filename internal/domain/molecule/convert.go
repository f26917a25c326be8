package molecule

import (
	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// FromDTO converts and validates a wire-level graph.
func FromDTO(dto mtypes.MoleculeGraphDTO) (*Molecule, error) {
	b := NewBuilder(dto.Name).WithID(common.ID(dto.ID))
	for _, a := range dto.Atoms {
		opts := []AtomOption{WithCharge(a.Charge), WithParity(a.Parity)}
		if a.ImplicitHydrogens != nil {
			opts = append(opts, WithHydrogens(*a.ImplicitHydrogens))
		}
		if a.Valence != nil {
			opts = append(opts, WithValence(*a.Valence))
		}
		if a.Aromatic {
			opts = append(opts, AromaticAtom())
		}
		b.AddAtom(a.Symbol, opts...)
	}
	for i, bd := range dto.Bonds {
		order, err := ParseBondOrder(bd.Order)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid bond").WithDetailf("bond=%d", i)
		}
		stereo, err := ParseBondStereo(bd.Stereo)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid bond").WithDetailf("bond=%d", i)
		}
		opts := []BondOption{WithStereo(stereo)}
		if bd.Aromatic {
			opts = append(opts, AromaticBond())
		}
		b.AddBond(bd.Begin, bd.End, order, opts...)
	}
	return b.Build()
}

// ToDTO converts a molecule to its wire form.
func ToDTO(m *Molecule) mtypes.MoleculeGraphDTO {
	dto := mtypes.MoleculeGraphDTO{
		ID:    string(m.ID),
		Name:  m.Name,
		Atoms: make([]mtypes.AtomDTO, 0, len(m.atoms)),
		Bonds: make([]mtypes.BondDTO, 0, len(m.bonds)),
	}
	for _, a := range m.atoms {
		dto.Atoms = append(dto.Atoms, mtypes.AtomDTO{
			Symbol:            a.Symbol,
			Charge:            a.FormalCharge,
			ImplicitHydrogens: a.ImplicitHydrogens,
			Valence:           a.Valence,
			Aromatic:          a.Aromatic,
			Parity:            a.Parity,
		})
	}
	for _, b := range m.bonds {
		dto.Bonds = append(dto.Bonds, mtypes.BondDTO{
			Begin:    b.Begin,
			End:      b.End,
			Order:    b.Order.String(),
			Aromatic: b.Aromatic,
			Stereo:   b.Stereo.String(),
		})
	}
	return dto
}

//Personal.AI order the ending
