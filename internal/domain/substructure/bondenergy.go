package substructure

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/pkg/errors"
)

//go:embed bond_energies.txt
var defaultBondEnergies []byte

type energyKey struct {
	a, b  string
	order molecule.BondOrder
}

func newEnergyKey(a, b string, order molecule.BondOrder) energyKey {
	if a > b {
		a, b = b, a
	}
	return energyKey{a: a, b: b, order: order}
}

// BondEnergyTable is a static (element, element, order) -> kJ/mol lookup used
// as a ranking heuristic.  It is immutable once loaded.
type BondEnergyTable struct {
	entries map[energyKey]float64
}

// LoadBondEnergyTable parses "<element> <element> <order> <energy>" lines.
// Blank lines and lines starting with '#' are ignored.  Malformed lines and
// unknown bond tokens are configuration errors.
func LoadBondEnergyTable(r io.Reader) (*BondEnergyTable, error) {
	t := &BondEnergyTable{entries: make(map[energyKey]float64)}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		f := strings.Fields(text)
		if len(f) != 4 {
			return nil, errors.New(errors.ErrCodeBondEnergyTable, "expected 4 columns").
				WithDetailf("line=%d text=%q", line, text)
		}
		order, err := molecule.ParseBondOrder(f[2])
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBondEnergyTable, "unrecognised bond type").
				WithDetailf("line=%d", line)
		}
		energy, err := strconv.ParseFloat(f[3], 64)
		if err != nil || energy < 0 {
			return nil, errors.New(errors.ErrCodeBondEnergyTable, "invalid energy").
				WithDetailf("line=%d value=%q", line, f[3])
		}
		t.entries[newEnergyKey(f[0], f[1], order)] = energy
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBondEnergyTable, "failed to read bond energy table")
	}
	return t, nil
}

var (
	defaultTableOnce sync.Once
	defaultTable     *BondEnergyTable
)

// DefaultBondEnergies returns the built-in table.  The embedded data is part
// of the binary, so a parse failure is a programming error and panics.
func DefaultBondEnergies() *BondEnergyTable {
	defaultTableOnce.Do(func() {
		t, err := LoadBondEnergyTable(bytes.NewReader(defaultBondEnergies))
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// LoadBondEnergyFile reads a table from path.  An empty path selects the
// built-in table.
func LoadBondEnergyFile(path string) (*BondEnergyTable, error) {
	if path == "" {
		return DefaultBondEnergies(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBondEnergyTable, "cannot open bond energy file").WithDetail(path)
	}
	defer f.Close()
	return LoadBondEnergyTable(f)
}

// Lookup returns the energy for a bond between elements a and b, or 0 when
// the table has no entry.
func (t *BondEnergyTable) Lookup(a, b string, order molecule.BondOrder) float64 {
	if t == nil {
		return 0
	}
	return t.entries[newEnergyKey(a, b, order)]
}

// Len returns the number of entries.
func (t *BondEnergyTable) Len() int { return len(t.entries) }

// BondEnergy returns the energy of bond within view.  Aromatic-flagged bonds
// are looked up as aromatic.
func (t *BondEnergyTable) BondEnergy(view *GraphView, b *molecule.Bond) float64 {
	order := b.Order
	if b.IsAromatic() {
		order = molecule.BondOrderAromatic
	}
	return t.Lookup(view.AtomAt(b.Begin).Symbol, view.AtomAt(b.End).Symbol, order)
}

//Personal.AI order the ending
