package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/pkg/types/common"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, mol *molecule.Molecule) error {
	return m.Called(ctx, mol).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id common.ID) (*molecule.Molecule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*molecule.Molecule), args.Error(1)
}

func (m *MockRepository) FindByIDs(ctx context.Context, ids []common.ID) ([]*molecule.Molecule, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*molecule.Molecule), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, page common.Pagination) ([]*molecule.Molecule, int64, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*molecule.Molecule), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListMinAtoms(ctx context.Context, minAtoms int, page common.Pagination) ([]*molecule.Molecule, int64, error) {
	args := m.Called(ctx, minAtoms, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*molecule.Molecule), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Delete(ctx context.Context, id common.ID) error {
	return m.Called(ctx, id).Error(0)
}

// useStore swaps the store opener for the duration of the test.
func useStore(t *testing.T, repo molecule.Repository) {
	t.Helper()
	orig := openStore
	openStore = func(*CLIContext) (molecule.Repository, func(), error) {
		return repo, func() {}, nil
	}
	t.Cleanup(func() { openStore = orig })
}

// writeConfig writes a minimal config file so tests never pick up one from
// the host.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "molmatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))
	return path
}

// writeMolecule stores mol as a JSON graph and returns the path.
func writeMolecule(t *testing.T, mol *molecule.Molecule) string {
	t.Helper()
	data, err := json.Marshal(molecule.ToDTO(mol))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), mol.Name+".json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// run executes the CLI with a test config prepended.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config", writeConfig(t)}, args...)
	err := Execute(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

//Personal.AI order the ending
