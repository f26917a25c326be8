package testutil

import (
	"github.com/turtacn/molmatch/internal/domain/molecule"
)

// Chain returns a linear all-single-bond molecule.
func Chain(name string, symbols ...string) *molecule.Molecule {
	b := molecule.NewBuilder(name)
	b.Chain(symbols...)
	return b.MustBuild()
}

// Hexane is n-hexane, heavy atoms only.
func Hexane() *molecule.Molecule {
	return Chain("hexane", "C", "C", "C", "C", "C", "C")
}

// Propane is C-C-C.
func Propane() *molecule.Molecule {
	return Chain("propane", "C", "C", "C")
}

// CNC is dimethylamine drawn as C-N-C.
func CNC() *molecule.Molecule {
	return Chain("dimethylamine", "C", "N", "C")
}

// Methane is a single carbon.
func Methane() *molecule.Molecule {
	b := molecule.NewBuilder("methane")
	b.AddAtom("C", molecule.WithHydrogens(4))
	return b.MustBuild()
}

// Cyclopropane is a three-membered carbon ring.
func Cyclopropane() *molecule.Molecule {
	return ring("cyclopropane", 3, molecule.BondOrderSingle)
}

// Benzene is an aromatic six-membered ring.
func Benzene() *molecule.Molecule {
	return ring("benzene", 6, molecule.BondOrderAromatic)
}

// Cyclohexane is a saturated six-membered ring.
func Cyclohexane() *molecule.Molecule {
	return ring("cyclohexane", 6, molecule.BondOrderSingle)
}

func ring(name string, n int, order molecule.BondOrder) *molecule.Molecule {
	b := molecule.NewBuilder(name)
	for i := 0; i < n; i++ {
		if order == molecule.BondOrderAromatic {
			b.AddAtom("C", molecule.AromaticAtom())
		} else {
			b.AddAtom("C")
		}
	}
	for i := 0; i < n; i++ {
		b.AddBond(i, (i+1)%n, order)
	}
	return b.MustBuild()
}

// Naphthalene is two fused aromatic rings sharing the 4-9 bond.
func Naphthalene() *molecule.Molecule {
	b := molecule.NewBuilder("naphthalene")
	for i := 0; i < 10; i++ {
		b.AddAtom("C", molecule.AromaticAtom())
	}
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 7}, {7, 8}, {8, 9}, {9, 0}, {4, 9}} {
		b.AddBond(e[0], e[1], molecule.BondOrderAromatic)
	}
	return b.MustBuild()
}

// Toluene is benzene (0-5) with a methyl (6) on atom 0.
func Toluene() *molecule.Molecule {
	b := molecule.NewBuilder("toluene")
	for i := 0; i < 6; i++ {
		b.AddAtom("C", molecule.AromaticAtom())
	}
	b.AddAtom("C", molecule.WithHydrogens(3))
	for i := 0; i < 6; i++ {
		b.AddBond(i, (i+1)%6, molecule.BondOrderAromatic)
	}
	b.AddBond(0, 6, molecule.BondOrderSingle)
	return b.MustBuild()
}

// TolueneRenumbered is toluene drawn with the methyl first and the ring
// walked as 4-2-6-1-5-3.
func TolueneRenumbered() *molecule.Molecule {
	b := molecule.NewBuilder("toluene-renumbered")
	b.AddAtom("C", molecule.WithHydrogens(3))
	for i := 1; i <= 6; i++ {
		b.AddAtom("C", molecule.AromaticAtom())
	}
	cycle := []int{4, 2, 6, 1, 5, 3}
	for i := range cycle {
		b.AddBond(cycle[i], cycle[(i+1)%len(cycle)], molecule.BondOrderAromatic)
	}
	b.AddBond(0, 4, molecule.BondOrderSingle)
	return b.MustBuild()
}

// EthanolWithH is C-C-O with an explicit hydroxyl hydrogen.
func EthanolWithH() *molecule.Molecule {
	b := molecule.NewBuilder("ethanol")
	b.Chain("C", "C", "O")
	h := b.AddAtom("H")
	b.AddBond(2, h, molecule.BondOrderSingle)
	return b.MustBuild()
}

//Personal.AI order the ending
