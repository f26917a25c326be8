package matching

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/domain/substructure"
	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molmatch/internal/infrastructure/storage/minio"
	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// screenPageSize is the number of molecules read per corpus page.
const screenPageSize = 200

// Screen sources reported in metrics.
const (
	SourceAPI    = "api"
	SourceWorker = "worker"
)

// Screen matches one query against stored molecules.
func (s *Service) Screen(ctx context.Context, req *mtypes.ScreenRequest) (*mtypes.ScreenResponse, error) {
	return s.screen(ctx, req, SourceAPI)
}

func (s *Service) screen(ctx context.Context, req *mtypes.ScreenRequest, source string) (resp *mtypes.ScreenResponse, err error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeBadRequest, "screen request is required")
	}
	if s.repo == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "molecule store is not configured")
	}
	norm := *req
	norm.Options = mergeDefaults(req.Options, s.cfg)
	if norm.JobID == "" {
		norm.JobID = common.NewID().String()
	}

	// whole-corpus screens without side effects are cacheable
	if s.cache != nil && len(norm.TargetIDs) == 0 && !norm.Archive && req.JobID == "" {
		key, kerr := cacheKey(ScreenCachePrefix, struct {
			Query   mtypes.MoleculeGraphDTO
			Options mtypes.MatchOptionsDTO
		}{norm.Query, norm.Options})
		if kerr != nil {
			return nil, kerr
		}
		var cached mtypes.ScreenResponse
		hit, err := s.cache.GetOrSet(ctx, key, &cached, s.cfg.CacheTTL, func(ctx context.Context) (interface{}, error) {
			return s.runScreen(ctx, &norm, source)
		})
		prometheus.RecordCacheAccess(s.metrics, hit)
		if err != nil {
			return nil, err
		}
		// the cached result belongs to the request that computed it
		cached.JobID = norm.JobID
		if hit && s.jobs != nil {
			if err := s.jobs.Start(ctx, norm.JobID); err != nil {
				s.logger.Warn("Failed to record cached screening job", logging.JobID(norm.JobID), logging.Err(err))
			} else {
				s.finishJob(norm.JobID, &cached, nil)
			}
		}
		return &cached, nil
	}
	resp, err = s.runScreen(ctx, &norm, source)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Service) runScreen(ctx context.Context, req *mtypes.ScreenRequest, source string) (resp *mtypes.ScreenResponse, err error) {
	start := time.Now()
	log := s.logger.With(logging.JobID(req.JobID))
	resp = &mtypes.ScreenResponse{JobID: req.JobID, Hits: []mtypes.ScreenHit{}}

	if s.jobs != nil {
		if err := s.jobs.Start(ctx, req.JobID); err != nil {
			return nil, err
		}
		defer func() { s.finishJob(req.JobID, resp, err) }()
	}
	defer func() {
		hits, failed := len(resp.Hits), resp.Failed
		prometheus.RecordScreenJob(s.metrics, source, hits, resp.Scanned-hits-failed, failed, time.Since(start), err)
	}()

	query, err := s.decodeQuery(req.Query)
	if err != nil {
		return resp, err
	}
	opts, err := s.toOptions(req.Options)
	if err != nil {
		return resp, err
	}
	m, err := substructure.NewMatcher(query, opts...)
	if err != nil {
		return resp, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.ScreenConcurrency)

	scan := func(mol *molecule.Molecule) {
		g.Go(func() error {
			hit, err := s.screenOne(gctx, m, mol)
			mu.Lock()
			defer mu.Unlock()
			resp.Scanned++
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return ctx.Err()
				}
				resp.Failed++
				log.Warn("Screening target failed", logging.MoleculeID(mol.ID.String()), logging.Err(err))
			case hit != nil:
				resp.Hits = append(resp.Hits, *hit)
			}
			return nil
		})
	}

	// a target with fewer atoms than the query cannot hold a mapping
	minAtoms := query.AtomCount()
	if req.Options.RemoveHydrogens {
		minAtoms = query.HeavyAtomCount()
	}
	feedErr := s.feedTargets(gctx, req.TargetIDs, minAtoms, scan)
	waitErr := g.Wait()
	if ctx.Err() != nil {
		return resp, errors.Wrap(ctx.Err(), errors.ErrCodeSearchCancelled, "screening cancelled")
	}
	if feedErr != nil {
		return resp, feedErr
	}
	if waitErr != nil {
		return resp, errors.Wrap(waitErr, errors.ErrCodeScreeningFailed, "screening failed")
	}

	sort.Slice(resp.Hits, func(i, j int) bool { return resp.Hits[i].MoleculeID < resp.Hits[j].MoleculeID })
	resp.ElapsedMs = time.Since(start).Milliseconds()

	if req.Archive {
		s.archiveReport(ctx, req, resp, log)
	}
	log.Info("Screening completed",
		logging.Int("scanned", resp.Scanned),
		logging.Int("hits", len(resp.Hits)),
		logging.Int("failed", resp.Failed),
		logging.Int64("elapsed_ms", resp.ElapsedMs))
	return resp, nil
}

// screenOne runs the matcher on a single target under the per-target
// timeout.  A nil hit means no mapping.
func (s *Service) screenOne(ctx context.Context, m *substructure.Matcher, mol *molecule.Molecule) (*mtypes.ScreenHit, error) {
	if s.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SearchTimeout)
		defer cancel()
	}
	res, err := m.Run(ctx, mol)
	if err != nil {
		return nil, err
	}
	if len(res.Mappings) == 0 {
		return nil, nil
	}
	best := toMappingDTO(res.Mappings[0], res.Scores[0])
	return &mtypes.ScreenHit{
		MoleculeID: mol.ID.String(),
		Name:       mol.Name,
		Count:      len(res.Mappings),
		Best:       &best,
	}, nil
}

// feedTargets hands every target molecule to scan, either the requested
// IDs or the corpus molecules of at least minAtoms atoms page by page,
// stopping at MaxScreenTargets.
func (s *Service) feedTargets(ctx context.Context, targetIDs []string, minAtoms int, scan func(*molecule.Molecule)) error {
	limit := s.cfg.MaxScreenTargets

	if len(targetIDs) > 0 {
		if limit > 0 && len(targetIDs) > limit {
			return errors.New(errors.ErrCodeValidation, "too many screening targets").
				WithDetailf("targets=%d max=%d", len(targetIDs), limit)
		}
		ids := make([]common.ID, len(targetIDs))
		for i, id := range targetIDs {
			ids[i] = common.ID(id)
			if err := ids[i].Validate(); err != nil {
				return errors.Wrap(err, errors.ErrCodeValidation, "invalid target id")
			}
		}
		mols, err := s.repo.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, mol := range mols {
			scan(mol)
		}
		return nil
	}

	fed := 0
	for page := 1; ; page++ {
		if ctx.Err() != nil {
			return nil
		}
		mols, total, err := s.repo.ListMinAtoms(ctx, minAtoms, common.Pagination{Page: page, PageSize: screenPageSize})
		if err != nil {
			return err
		}
		for _, mol := range mols {
			if limit > 0 && fed >= limit {
				s.logger.Warn("Screening truncated at target limit", logging.Int("limit", limit), logging.Int64("corpus", total))
				return nil
			}
			scan(mol)
			fed++
		}
		if len(mols) < screenPageSize || int64(page*screenPageSize) >= total {
			return nil
		}
	}
}

func (s *Service) archiveReport(ctx context.Context, req *mtypes.ScreenRequest, resp *mtypes.ScreenResponse, log logging.Logger) {
	if s.archive == nil {
		log.Warn("Report archiving requested but no archive is configured")
		return
	}
	key, err := s.archive.Put(ctx, &minio.ScreeningReport{
		JobID:   req.JobID,
		Query:   req.Query,
		Options: req.Options,
		Result:  *resp,
	})
	if err != nil {
		prometheus.RecordError(s.metrics, "archive", errors.GetCode(err).String())
		log.Warn("Screening report not archived", logging.Err(err))
		return
	}
	resp.ReportKey = key
}

func (s *Service) finishJob(id string, resp *mtypes.ScreenResponse, err error) {
	job := repositories.ScreeningJob{ID: id}
	if resp != nil {
		job.Scanned, job.Hits, job.Failed, job.ReportKey = resp.Scanned, len(resp.Hits), resp.Failed, resp.ReportKey
	}
	if err != nil {
		job.Error = err.Error()
	}
	// the request context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if ferr := s.jobs.Finish(ctx, job); ferr != nil {
		s.logger.Warn("Failed to record screening job outcome", logging.JobID(id), logging.Err(ferr))
	}
}

//Personal.AI order the ending
