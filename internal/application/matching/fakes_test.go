package matching

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/turtacn/molmatch/internal/config"
	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/molmatch/internal/infrastructure/database/redis"
	"github.com/turtacn/molmatch/internal/infrastructure/storage/minio"
	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
)

func testConfig() config.MatchingConfig {
	return config.MatchingConfig{
		BondMode:          "any",
		Ranking:           []string{"stereo", "fragment", "energy"},
		SearchTimeout:     5 * time.Second,
		MaxQueryAtoms:     64,
		MaxScreenTargets:  1000,
		ScreenConcurrency: 4,
	}
}

// memRepo is an in-memory molecule.Repository.
type memRepo struct {
	mu      sync.Mutex
	mols    []*molecule.Molecule
	listErr error
	lists   int
}

func newMemRepo(mols ...*molecule.Molecule) *memRepo {
	r := &memRepo{}
	for _, m := range mols {
		_ = r.Save(context.Background(), m)
	}
	return r
}

func (r *memRepo) Save(_ context.Context, mol *molecule.Molecule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mol.ID == "" {
		mol.ID = common.NewID()
	}
	for _, m := range r.mols {
		if m.ID == mol.ID {
			return errors.New(errors.ErrCodeMoleculeAlreadyExists, "exists")
		}
	}
	r.mols = append(r.mols, mol)
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id common.ID) (*molecule.Molecule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mols {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, errors.New(errors.ErrCodeMoleculeNotFound, "not found")
}

func (r *memRepo) FindByIDs(_ context.Context, ids []common.ID) ([]*molecule.Molecule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[common.ID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*molecule.Molecule
	for _, m := range r.mols {
		if want[m.ID] {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) List(ctx context.Context, page common.Pagination) ([]*molecule.Molecule, int64, error) {
	return r.ListMinAtoms(ctx, 0, page)
}

func (r *memRepo) ListMinAtoms(_ context.Context, minAtoms int, page common.Pagination) ([]*molecule.Molecule, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var sized []*molecule.Molecule
	for _, m := range r.mols {
		if m.AtomCount() >= minAtoms {
			sized = append(sized, m)
		}
	}
	start := page.Offset()
	if start >= len(sized) {
		return nil, int64(len(sized)), nil
	}
	end := start + page.PageSize
	if end > len(sized) {
		end = len(sized)
	}
	return sized[start:end], int64(len(sized)), nil
}

func (r *memRepo) Delete(_ context.Context, id common.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.mols {
		if m.ID == id {
			r.mols = append(r.mols[:i], r.mols[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "not found")
}

// memJobs is an in-memory JobStore.
type memJobs struct {
	mu   sync.Mutex
	jobs map[string]repositories.ScreeningJob
}

func newMemJobs() *memJobs { return &memJobs{jobs: map[string]repositories.ScreeningJob{}} }

func (j *memJobs) Start(_ context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jobs[id] = repositories.ScreeningJob{ID: id, Status: repositories.JobRunning}
	return nil
}

func (j *memJobs) Finish(_ context.Context, job repositories.ScreeningJob) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	job.Status = repositories.JobSucceeded
	if job.Error != "" {
		job.Status = repositories.JobFailed
	}
	j.jobs[job.ID] = job
	return nil
}

func (j *memJobs) Get(_ context.Context, id string) (*repositories.ScreeningJob, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "job not found")
	}
	return &job, nil
}

type mockArchive struct {
	mock.Mock
}

func (m *mockArchive) Put(ctx context.Context, report *minio.ScreeningReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func (m *mockArchive) Get(ctx context.Context, key string) (*minio.ScreeningReport, error) {
	args := m.Called(ctx, key)
	if r, ok := args.Get(0).(*minio.ScreeningReport); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockArchive) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*common.ProducerMessage
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, msg *common.ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) published() []*common.ProducerMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*common.ProducerMessage(nil), p.msgs...)
}

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	c := redis.NewClientFromUniversal(rdb, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

//Personal.AI order the ending
