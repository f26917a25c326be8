package substructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/testutil"
	"github.com/turtacn/molmatch/pkg/errors"
)

func TestQueryGraph_Connect(t *testing.T) {
	q := NewQueryGraph()
	c := &molecule.Atom{Symbol: "C"}
	o := &molecule.Atom{Symbol: "O"}
	a := q.AddNode(SymbolMatcher{Symbol: "C"}, c)
	b := q.AddNode(SymbolMatcher{Symbol: "O"}, o)

	e, err := q.Connect(a, b, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, KindAnyBond, e.Matcher.Kind())
	assert.Same(t, b, e.Other(a))
	assert.Same(t, a, e.Other(b))
	assert.True(t, a.IsNeighbor(b))
	assert.Equal(t, 1, a.Degree())
	assert.Equal(t, 2, q.NodeCount())
	assert.Equal(t, 1, q.EdgeCount())
	assert.Same(t, b, q.GetNode(o))
	assert.Nil(t, q.GetNode(&molecule.Atom{Symbol: "O"}))
	assert.Nil(t, q.Source())

	_, err = q.Connect(a, b, nil, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQuery), "duplicate edge")
	_, err = q.Connect(a, a, nil, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQuery), "self loop")
	_, err = q.Connect(a, nil, nil, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQuery), "nil node")

	other := NewQueryGraph()
	foreign := other.AddNode(AnyAtomMatcher{}, nil)
	_, err = q.Connect(a, foreign, nil, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQuery), "foreign node")
}

func TestBuildQuery_Hydrogens(t *testing.T) {
	ethanol := testutil.EthanolWithH()

	full, err := BuildQuery(ethanol, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, full.NodeCount())
	assert.Equal(t, 3, full.EdgeCount())

	o := DefaultOptions()
	o.RemoveHydrogens = true
	heavy, err := BuildQuery(ethanol, o)
	require.NoError(t, err)
	assert.Equal(t, 3, heavy.NodeCount())
	assert.Equal(t, 2, heavy.EdgeCount())
	for i, n := range heavy.Nodes() {
		assert.Equal(t, i, n.Index())
		assert.Equal(t, i, n.AtomIndex)
	}
	assert.NotNil(t, heavy.Source())
}

func TestBuildQuery_NoMatchableAtoms(t *testing.T) {
	b := molecule.NewBuilder("hydrogen")
	b.Chain("H", "H")
	o := DefaultOptions()
	o.RemoveHydrogens = true

	_, err := BuildQuery(b.MustBuild(), o)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQuery))
}

func TestBuildQuery_BondMode(t *testing.T) {
	o := DefaultOptions()
	o.BondMode = BondModeExact
	q, err := BuildQuery(testutil.Benzene(), o)
	require.NoError(t, err)
	for _, e := range q.Edges() {
		require.Equal(t, KindOrderBond, e.Matcher.Kind())
		assert.True(t, e.Matcher.(OrderBondMatcher).Aromatic)
	}
}

func TestBuildQuery_InvalidGraph(t *testing.T) {
	_, err := BuildQuery(brokenGraph{}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQuery))
}

//Personal.AI order the ending
