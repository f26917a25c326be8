package substructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/testutil"
	"github.com/turtacn/molmatch/pkg/errors"
)

// stereocentre builds a carbon bonded to the given substituents in order.
func stereocentre(parity int, subs ...string) *molecule.Molecule {
	b := molecule.NewBuilder("centre")
	b.AddAtom("C", molecule.WithParity(parity))
	for _, s := range subs {
		i := b.AddAtom(s)
		b.AddBond(0, i, molecule.BondOrderSingle)
	}
	return b.MustBuild()
}

func identity(n int) Mapping {
	m := make(Mapping, n)
	for i := range m {
		m[i] = AtomPair{Query: i, Target: i}
	}
	return m
}

func TestStereoMismatches_Tetrahedral(t *testing.T) {
	query := mustView(t, stereocentre(1, "F", "Cl", "Br", "I"))
	bySymbol := func(target *GraphView) Mapping {
		m := Mapping{{Query: 0, Target: 0}}
		for q := 1; q < 5; q++ {
			for tt := 1; tt < 5; tt++ {
				if target.AtomAt(tt).Symbol == query.AtomAt(q).Symbol {
					m = append(m, AtomPair{Query: q, Target: tt})
				}
			}
		}
		return m
	}
	cases := []struct {
		name   string
		target *molecule.Molecule
		want   int
	}{
		{"same drawing same parity", stereocentre(1, "F", "Cl", "Br", "I"), 0},
		{"same drawing inverted", stereocentre(-1, "F", "Cl", "Br", "I"), 1},
		{"even permutation", stereocentre(1, "I", "Br", "Cl", "F"), 0},
		{"odd permutation compensated", stereocentre(-1, "Cl", "F", "Br", "I"), 0},
		{"odd permutation", stereocentre(1, "Cl", "F", "Br", "I"), 1},
		{"unspecified target", stereocentre(0, "F", "Cl", "Br", "I"), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := mustView(t, tc.target)
			rc := &RankContext{Query: query, Target: target}
			assert.Equal(t, tc.want, StereoMismatches(rc, bySymbol(target)))
		})
	}
}

func TestStereoMismatches_DoubleBond(t *testing.T) {
	butene := func(s molecule.BondStereo) *molecule.Molecule {
		b := molecule.NewBuilder("2-butene")
		for i := 0; i < 4; i++ {
			b.AddAtom("C")
		}
		return b.AddBond(0, 1, molecule.BondOrderSingle).
			AddBond(1, 2, molecule.BondOrderDouble, molecule.WithStereo(s)).
			AddBond(2, 3, molecule.BondOrderSingle).
			MustBuild()
	}
	query := mustView(t, butene(molecule.BondStereoE))

	rc := &RankContext{Query: query, Target: mustView(t, butene(molecule.BondStereoZ))}
	assert.Equal(t, 1, StereoMismatches(rc, identity(4)))

	rc.Target = mustView(t, butene(molecule.BondStereoE))
	assert.Equal(t, 0, StereoMismatches(rc, identity(4)))

	rc.Target = mustView(t, butene(molecule.BondStereoNone))
	assert.Equal(t, 0, StereoMismatches(rc, identity(4)))
}

func TestFragmentsAndEnergy(t *testing.T) {
	target := mustView(t, testutil.Chain("ethanol", "C", "C", "O"))
	query := mustView(t, testutil.Chain("ethane", "C", "C"))
	rc := &RankContext{Query: query, Target: target, Energies: DefaultBondEnergies()}

	connected := Mapping{{0, 0}, {1, 1}}
	assert.Equal(t, 1, Fragments(rc, connected))
	assert.InDelta(t, 346.0, Energy(rc, connected), 1e-9)

	split := Mapping{{0, 0}, {1, 2}}
	assert.Equal(t, 2, Fragments(rc, split))
	assert.Equal(t, 0, Fragments(rc, nil))

	s := ScoreMapping(rc, connected)
	assert.Equal(t, Scores{StereoMismatches: 0, Fragments: 1, Energy: 346}, s)
}

func TestEnergy_IgnoresBondsOutsideImage(t *testing.T) {
	// O-C-C-O (atoms 0..3) plus a separate C=C (atoms 4, 5)
	b := molecule.NewBuilder("glycol + ethene")
	b.Chain("O", "C", "C", "O")
	c1, c2 := b.AddAtom("C"), b.AddAtom("C")
	b.AddBond(c1, c2, molecule.BondOrderDouble)
	target := mustView(t, b.MustBuild())
	query := mustView(t, testutil.Chain("ethane", "C", "C"))
	rc := &RankContext{Query: query, Target: target, Energies: DefaultBondEnergies()}

	single := Mapping{{0, 1}, {1, 2}}
	double := Mapping{{0, 4}, {1, 5}}
	assert.InDelta(t, 346.0, Energy(rc, single), 1e-9)
	assert.InDelta(t, 602.0, Energy(rc, double), 1e-9)

	ranked := Rank(rc, []Mapping{double, single}, EnergyFilter{})
	assert.Equal(t, single, ranked[0])
	assert.Equal(t, 0.0, Energy(&RankContext{Target: target}, single))
}

func TestRank(t *testing.T) {
	target := mustView(t, testutil.Hexane())
	rc := &RankContext{Target: target}

	apart := Mapping{{0, 0}, {1, 3}}
	together := Mapping{{0, 0}, {1, 1}}
	input := []Mapping{apart, together}

	ranked := Rank(rc, input, FragmentFilter{})
	assert.Equal(t, []Mapping{together, apart}, ranked)
	assert.Equal(t, []Mapping{apart, together}, input, "input order untouched")

	assert.Equal(t, input, Rank(rc, input), "no filters keeps order")

	// the first filter dominates: stereo ties, fragments decide
	ranked = Rank(rc, input, StereoFilter{}, FragmentFilter{})
	assert.Equal(t, together, ranked[0])
}

func TestParseFilterKind(t *testing.T) {
	for _, k := range []FilterKind{FilterStereo, FilterFragment, FilterEnergy} {
		got, err := ParseFilterKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.Equal(t, k, FilterFor(k).Kind())
	}
	_, err := ParseFilterKind("charm")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidOption))
}

//Personal.AI order the ending
