package substructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/testutil"
	"github.com/turtacn/molmatch/pkg/errors"
)

type brokenGraph struct{}

func (brokenGraph) AtomCount() int { return 2 }
func (brokenGraph) BondCount() int { return 1 }
func (brokenGraph) Atom(i int) *molecule.Atom {
	return &molecule.Atom{Symbol: "C"}
}
func (brokenGraph) Bond(int) *molecule.Bond {
	return &molecule.Bond{Begin: 0, End: 7, Order: molecule.BondOrderSingle}
}

func TestGraphView_Adjacency(t *testing.T) {
	tol := testutil.Toluene()
	v, err := NewGraphView(tol)
	require.NoError(t, err)

	assert.Equal(t, 7, v.AtomCount())
	assert.Equal(t, 7, v.BondCount())
	assert.Equal(t, 3, v.Degree(0))
	assert.Equal(t, []int{1, 5, 6}, v.NeighborIndices(0))
	assert.Equal(t, 3, v.CountNeighbors(tol.Atom(0)))
	assert.Equal(t, []*molecule.Atom{tol.Atom(1), tol.Atom(5), tol.Atom(6)}, v.GetNeighbors(tol.Atom(0)))

	b := v.GetBond(tol.Atom(6), tol.Atom(0))
	require.NotNil(t, b)
	assert.Equal(t, molecule.BondOrderSingle, b.Order)
	assert.Nil(t, v.GetBond(tol.Atom(0), tol.Atom(3)))
	assert.Same(t, b, v.BondBetween(0, 6))
	assert.Len(t, v.BondsOf(0), 3)

	i, ok := v.IndexOf(tol.Atom(4))
	assert.True(t, ok)
	assert.Equal(t, 4, i)
	assert.Equal(t, 4, v.Saturation(6))
}

func TestGraphView_UnknownAtom(t *testing.T) {
	rec := testutil.NewRecordingLogger()
	v, err := NewGraphView(testutil.Propane(), WithViewLogger(rec))
	require.NoError(t, err)

	stranger := &molecule.Atom{Symbol: "C"}
	assert.Equal(t, 0, v.CountNeighbors(stranger))
	assert.Nil(t, v.GetNeighbors(stranger))
	assert.Nil(t, v.GetBond(stranger, v.AtomAt(0)))
	_, ok := v.IndexOf(stranger)
	assert.False(t, ok)
	assert.True(t, rec.HasMessage("debug", "atom not present in graph view"))
}

func TestGraphView_InvalidBond(t *testing.T) {
	_, err := NewGraphView(brokenGraph{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidTarget))

	_, err = NewGraphView(nil)
	assert.Error(t, err)
}

func TestGraphView_Unsaturation(t *testing.T) {
	b := molecule.NewBuilder("propene")
	b.AddAtom("C")
	b.AddAtom("C")
	b.AddAtom("C")
	b.AddBond(0, 1, molecule.BondOrderDouble).AddBond(1, 2, molecule.BondOrderSingle)
	v, err := NewGraphView(b.MustBuild())
	require.NoError(t, err)

	assert.Equal(t, 1, v.Unsaturation(0))
	assert.Equal(t, 1, v.Unsaturation(1))
	assert.Equal(t, 0, v.Unsaturation(2))
}

//Personal.AI order the ending
