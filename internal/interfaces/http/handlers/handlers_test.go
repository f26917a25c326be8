package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appMol "github.com/turtacn/molmatch/internal/application/molecule"
	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/molmatch/pkg/types/common"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockMatchService struct {
	mock.Mock
}

func (m *MockMatchService) Match(ctx context.Context, req *mtypes.MatchRequest) (*mtypes.MatchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mtypes.MatchResponse), args.Error(1)
}

func (m *MockMatchService) Screen(ctx context.Context, req *mtypes.ScreenRequest) (*mtypes.ScreenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mtypes.ScreenResponse), args.Error(1)
}

func (m *MockMatchService) React(ctx context.Context, req *mtypes.ReactionRequest) (*mtypes.ReactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mtypes.ReactionResponse), args.Error(1)
}

func (m *MockMatchService) GetJob(ctx context.Context, id string) (*repositories.ScreeningJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ScreeningJob), args.Error(1)
}

type MockJobSubmitter struct {
	mock.Mock
}

func (m *MockJobSubmitter) Submit(ctx context.Context, req *mtypes.ScreenRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockMoleculeService struct {
	mock.Mock
}

func (m *MockMoleculeService) Create(ctx context.Context, g mtypes.MoleculeGraphDTO) (*mtypes.MoleculeSummary, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mtypes.MoleculeSummary), args.Error(1)
}

func (m *MockMoleculeService) GetByID(ctx context.Context, id string) (*mtypes.MoleculeGraphDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mtypes.MoleculeGraphDTO), args.Error(1)
}

func (m *MockMoleculeService) List(ctx context.Context, in *appMol.ListInput) (*appMol.ListResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appMol.ListResult), args.Error(1)
}

func (m *MockMoleculeService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// serve runs one request through engine and returns the recorder.
func serve(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) common.APIResponse[T] {
	t.Helper()
	var resp common.APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func ethane() mtypes.MoleculeGraphDTO {
	return mtypes.MoleculeGraphDTO{
		Name:  "ethane",
		Atoms: []mtypes.AtomDTO{{Symbol: "C"}, {Symbol: "C"}},
		Bonds: []mtypes.BondDTO{{Begin: 0, End: 1, Order: "single"}},
	}
}

//Personal.AI order the ending
