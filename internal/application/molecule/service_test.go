package molecule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molmatch/internal/application/matching"
	domainMol "github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/testutil"
	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
)

// MockMoleculeRepository is a mock implementation of domainMol.Repository
type MockMoleculeRepository struct {
	mock.Mock
}

func (m *MockMoleculeRepository) Save(ctx context.Context, mol *domainMol.Molecule) error {
	args := m.Called(ctx, mol)
	if args.Error(0) == nil && mol.ID == "" {
		mol.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockMoleculeRepository) FindByID(ctx context.Context, id common.ID) (*domainMol.Molecule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainMol.Molecule), args.Error(1)
}

func (m *MockMoleculeRepository) FindByIDs(ctx context.Context, ids []common.ID) ([]*domainMol.Molecule, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domainMol.Molecule), args.Error(1)
}

func (m *MockMoleculeRepository) List(ctx context.Context, page common.Pagination) ([]*domainMol.Molecule, int64, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domainMol.Molecule), args.Get(1).(int64), args.Error(2)
}

func (m *MockMoleculeRepository) ListMinAtoms(ctx context.Context, minAtoms int, page common.Pagination) ([]*domainMol.Molecule, int64, error) {
	args := m.Called(ctx, minAtoms, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domainMol.Molecule), args.Get(1).(int64), args.Error(2)
}

func (m *MockMoleculeRepository) Delete(ctx context.Context, id common.ID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCache records invalidations; only DeleteByPrefix is expected.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) (bool, error) {
	args := m.Called(ctx, key, dest, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestCreate_Success(t *testing.T) {
	repo := new(MockMoleculeRepository)
	cache := new(MockCache)
	svc := NewService(repo, cache, testutil.NewRecordingLogger())

	repo.On("Save", mock.Anything, mock.AnythingOfType("*molecule.Molecule")).Return(nil)
	cache.On("DeleteByPrefix", mock.Anything, matching.ScreenCachePrefix).Return(int64(3), nil)

	got, err := svc.Create(context.Background(), domainMol.ToDTO(testutil.Benzene()))
	require.NoError(t, err)
	assert.Equal(t, "generated-id", got.ID)
	assert.Equal(t, 6, got.AtomCount)
	assert.Equal(t, 6, got.BondCount)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	repo := new(MockMoleculeRepository)
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), domainMol.ToDTO(domainMol.NewBuilder("empty").MustBuild()))
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	bad := domainMol.ToDTO(testutil.Propane())
	bad.Bonds[0].End = 42
	_, err = svc.Create(context.Background(), bad)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreate_RepoError(t *testing.T) {
	repo := new(MockMoleculeRepository)
	cache := new(MockCache)
	svc := NewService(repo, cache, nil)
	repo.On("Save", mock.Anything, mock.Anything).
		Return(errors.New(errors.ErrCodeMoleculeAlreadyExists, "exists"))

	_, err := svc.Create(context.Background(), domainMol.ToDTO(testutil.Propane()))
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeAlreadyExists))
	cache.AssertNotCalled(t, "DeleteByPrefix", mock.Anything, mock.Anything)
}

func TestCreate_InvalidationFailureIsTolerated(t *testing.T) {
	repo := new(MockMoleculeRepository)
	cache := new(MockCache)
	log := testutil.NewRecordingLogger()
	svc := NewService(repo, cache, log)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	cache.On("DeleteByPrefix", mock.Anything, matching.ScreenCachePrefix).
		Return(int64(0), errors.New(errors.ErrCodeCacheError, "down"))

	_, err := svc.Create(context.Background(), domainMol.ToDTO(testutil.Propane()))
	require.NoError(t, err)
	assert.True(t, log.HasMessage("warn", "failed to invalidate screening cache"))
}

func TestGetByID(t *testing.T) {
	repo := new(MockMoleculeRepository)
	svc := NewService(repo, nil, nil)
	mol := testutil.Toluene()
	repo.On("FindByID", mock.Anything, common.ID("m-1")).Return(mol, nil)
	repo.On("FindByID", mock.Anything, common.ID("nope")).
		Return(nil, errors.New(errors.ErrCodeMoleculeNotFound, "missing"))

	got, err := svc.GetByID(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Len(t, got.Atoms, mol.AtomCount())

	_, err = svc.GetByID(context.Background(), "nope")
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.GetByID(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestList(t *testing.T) {
	repo := new(MockMoleculeRepository)
	svc := NewService(repo, nil, nil)
	mols := []*domainMol.Molecule{testutil.Propane(), testutil.Benzene()}
	repo.On("List", mock.Anything, common.Pagination{Page: 1, PageSize: 20}).Return(mols, int64(41), nil)

	res, err := svc.List(context.Background(), &ListInput{})
	require.NoError(t, err)
	assert.Len(t, res.Molecules, 2)
	assert.Equal(t, int64(41), res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, "propane", res.Molecules[0].Name)
}

func TestList_ClampsPageSize(t *testing.T) {
	repo := new(MockMoleculeRepository)
	svc := NewService(repo, nil, nil)
	repo.On("List", mock.Anything, common.Pagination{Page: 2, PageSize: 100}).
		Return([]*domainMol.Molecule{}, int64(0), nil)

	res, err := svc.List(context.Background(), &ListInput{Page: 2, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, res.PageSize)
	assert.Equal(t, 0, res.TotalPages)
}

func TestDelete(t *testing.T) {
	repo := new(MockMoleculeRepository)
	cache := new(MockCache)
	svc := NewService(repo, cache, nil)
	repo.On("Delete", mock.Anything, common.ID("m-1")).Return(nil)
	repo.On("Delete", mock.Anything, common.ID("m-2")).Return(errors.New(errors.ErrCodeNotFound, "missing"))
	cache.On("DeleteByPrefix", mock.Anything, matching.ScreenCachePrefix).Return(int64(0), nil).Once()

	require.NoError(t, svc.Delete(context.Background(), "m-1"))
	assert.True(t, errors.IsNotFound(svc.Delete(context.Background(), "m-2")))
	cache.AssertNumberOfCalls(t, "DeleteByPrefix", 1)
}

//Personal.AI order the ending
