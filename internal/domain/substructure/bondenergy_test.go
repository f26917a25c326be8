package substructure

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/testutil"
	"github.com/turtacn/molmatch/pkg/errors"
)

func TestDefaultBondEnergies(t *testing.T) {
	table := DefaultBondEnergies()
	require.NotNil(t, table)
	assert.Same(t, table, DefaultBondEnergies())
	assert.Greater(t, table.Len(), 30)

	assert.Equal(t, 346.0, table.Lookup("C", "C", molecule.BondOrderSingle))
	assert.Equal(t, 799.0, table.Lookup("O", "C", molecule.BondOrderDouble))
	assert.Equal(t, 518.0, table.Lookup("C", "C", molecule.BondOrderAromatic))
	assert.Equal(t, 0.0, table.Lookup("Xe", "C", molecule.BondOrderSingle))

	var nilTable *BondEnergyTable
	assert.Equal(t, 0.0, nilTable.Lookup("C", "C", molecule.BondOrderSingle))
}

func TestBondEnergy_AromaticFlag(t *testing.T) {
	b := molecule.NewBuilder("kekule")
	b.AddAtom("C")
	b.AddAtom("C")
	b.AddBond(0, 1, molecule.BondOrderDouble, molecule.AromaticBond())
	v := mustView(t, b.MustBuild())

	assert.Equal(t, 518.0, DefaultBondEnergies().BondEnergy(v, v.BondBetween(0, 1)))
	benzene := mustView(t, testutil.Benzene())
	assert.Equal(t, 518.0, DefaultBondEnergies().BondEnergy(benzene, benzene.BondBetween(0, 1)))
}

func TestLoadBondEnergyTable(t *testing.T) {
	table, err := LoadBondEnergyTable(strings.NewReader("# comment\n\nC N single 305\nN N = 418\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 418.0, table.Lookup("N", "N", molecule.BondOrderDouble))

	for name, input := range map[string]string{
		"missing column": "C C single\n",
		"unknown order":  "C C wobbly 1\n",
		"bad energy":     "C C single lots\n",
		"negative":       "C C single -4\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadBondEnergyTable(strings.NewReader(input))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeBondEnergyTable))
		})
	}
}

func TestLoadBondEnergyFile(t *testing.T) {
	table, err := LoadBondEnergyFile("")
	require.NoError(t, err)
	assert.Same(t, DefaultBondEnergies(), table)

	path := filepath.Join(t.TempDir(), "energies.txt")
	require.NoError(t, os.WriteFile(path, []byte("C O single 358\n"), 0o600))
	table, err = LoadBondEnergyFile(path)
	require.NoError(t, err)
	assert.Equal(t, 358.0, table.Lookup("O", "C", molecule.BondOrderSingle))

	_, err = LoadBondEnergyFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeBondEnergyTable))
}

//Personal.AI order the ending
