// Package matching is the application service behind the HTTP API, the CLI
// and the screening worker.  It turns wire requests into substructure
// searches, caches their results and screens stored molecules.
package matching

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/turtacn/molmatch/internal/config"
	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/domain/substructure"
	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/molmatch/internal/infrastructure/database/redis"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molmatch/internal/infrastructure/storage/minio"
	"github.com/turtacn/molmatch/pkg/errors"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// Cache key prefixes.  Screening entries depend on the stored corpus and are
// dropped whenever it changes.
const (
	MatchCachePrefix  = "match:"
	ScreenCachePrefix = "screen:"
)

// JobStore records screening job status.
type JobStore interface {
	Start(ctx context.Context, id string) error
	Finish(ctx context.Context, job repositories.ScreeningJob) error
	Get(ctx context.Context, id string) (*repositories.ScreeningJob, error)
}

// Dependencies are the collaborators of a Service.  Only Repo is needed for
// screening; every other field may be nil.
type Dependencies struct {
	Repo     molecule.Repository
	Cache    redis.Cache
	Archive  minio.ReportArchive
	Jobs     JobStore
	Metrics  *prometheus.AppMetrics
	Energies *substructure.BondEnergyTable
}

// Service runs substructure searches.
type Service struct {
	cfg      config.MatchingConfig
	repo     molecule.Repository
	cache    redis.Cache
	archive  minio.ReportArchive
	jobs     JobStore
	metrics  *prometheus.AppMetrics
	energies *substructure.BondEnergyTable
	logger   logging.Logger
}

// NewService creates a matching service.
func NewService(cfg config.MatchingConfig, deps Dependencies, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = prometheus.NewNoopMetrics()
	}
	if deps.Energies == nil {
		deps.Energies = substructure.DefaultBondEnergies()
	}
	if cfg.ScreenConcurrency <= 0 {
		cfg.ScreenConcurrency = config.DefaultScreenConcurrency
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = config.DefaultCacheTTL
	}
	return &Service{
		cfg:      cfg,
		repo:     deps.Repo,
		cache:    deps.Cache,
		archive:  deps.Archive,
		jobs:     deps.Jobs,
		metrics:  deps.Metrics,
		energies: deps.Energies,
		logger:   logger,
	}
}

// cacheKey hashes v into a stable key under prefix.
func cacheKey(prefix string, v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode cache key")
	}
	sum := sha256.Sum256(data)
	return prefix + hex.EncodeToString(sum[:]), nil
}

// Match searches one query in one target.  Identical requests are served
// from the cache when one is configured.
func (s *Service) Match(ctx context.Context, req *mtypes.MatchRequest) (*mtypes.MatchResponse, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeBadRequest, "match request is required")
	}
	norm := *req
	norm.Options = mergeDefaults(req.Options, s.cfg)
	if norm.Mode == "" {
		norm.Mode = mtypes.MatchModeAll
	}

	if s.cache == nil {
		return s.match(ctx, &norm)
	}
	key, err := cacheKey(MatchCachePrefix, norm)
	if err != nil {
		return nil, err
	}
	var resp mtypes.MatchResponse
	hit, err := s.cache.GetOrSet(ctx, key, &resp, s.cfg.CacheTTL, func(ctx context.Context) (interface{}, error) {
		return s.match(ctx, &norm)
	})
	prometheus.RecordCacheAccess(s.metrics, hit)
	if err != nil {
		return nil, err
	}
	resp.Cached = hit
	return &resp, nil
}

func (s *Service) match(ctx context.Context, req *mtypes.MatchRequest) (resp *mtypes.MatchResponse, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if resp != nil {
			n = resp.Count
		}
		prometheus.RecordSearch(s.metrics, req.Mode, n, time.Since(start), err)
		if err != nil {
			prometheus.RecordError(s.metrics, "matching", errors.GetCode(err).String())
		}
	}()

	query, err := s.decodeQuery(req.Query)
	if err != nil {
		return nil, err
	}
	target, err := s.decodeGraph(req.Target, errors.ErrCodeInvalidTarget, "target")
	if err != nil {
		return nil, err
	}
	opts, err := s.toOptions(req.Options)
	if err != nil {
		return nil, err
	}
	m, err := substructure.NewMatcher(query, opts...)
	if err != nil {
		return nil, err
	}

	if s.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SearchTimeout)
		defer cancel()
	}

	resp = &mtypes.MatchResponse{}
	switch req.Mode {
	case mtypes.MatchModeExists:
		ok, err := m.HasMap(ctx, target)
		if err != nil {
			return nil, err
		}
		resp.Matched = ok
		if ok {
			resp.Count = 1
		}
	case mtypes.MatchModeCount:
		n, err := m.CountMaps(ctx, target)
		if err != nil {
			return nil, err
		}
		resp.Matched, resp.Count = n > 0, n
	case mtypes.MatchModeFirst, mtypes.MatchModeAll:
		res, err := m.Run(ctx, target)
		if err != nil {
			return nil, err
		}
		resp.Matched, resp.Count = len(res.Mappings) > 0, len(res.Mappings)
		limit := len(res.Mappings)
		if req.Mode == mtypes.MatchModeFirst && limit > 1 {
			limit = 1
		}
		for i := 0; i < limit; i++ {
			resp.Mappings = append(resp.Mappings, toMappingDTO(res.Mappings[i], res.Scores[i]))
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown match mode").WithDetail(req.Mode)
	}
	resp.ElapsedMs = time.Since(start).Milliseconds()
	return resp, nil
}

// React returns ranked total atom maps from reactant to product.
func (s *Service) React(ctx context.Context, req *mtypes.ReactionRequest) (*mtypes.ReactionResponse, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeBadRequest, "reaction request is required")
	}
	start := time.Now()
	reactant, err := s.decodeQuery(req.Reactant)
	if err != nil {
		return nil, err
	}
	product, err := s.decodeGraph(req.Product, errors.ErrCodeInvalidTarget, "product")
	if err != nil {
		return nil, err
	}
	opts, err := s.toOptions(mergeDefaults(req.Options, s.cfg))
	if err != nil {
		return nil, err
	}
	if s.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SearchTimeout)
		defer cancel()
	}

	maps, err := substructure.MapReaction(ctx, reactant, product, opts...)
	prometheus.RecordSearch(s.metrics, "reaction", len(maps), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	// MapReaction ranks with the same options; rebuild the context to score.
	m, err := substructure.NewMatcher(reactant, opts...)
	if err != nil {
		return nil, err
	}
	view, err := m.View(product)
	if err != nil {
		return nil, err
	}
	rc := m.RankContext(view)
	resp := &mtypes.ReactionResponse{Count: len(maps), Mappings: make([]mtypes.MappingDTO, len(maps))}
	for i, mp := range maps {
		resp.Mappings[i] = toMappingDTO(mp, substructure.ScoreMapping(rc, mp))
	}
	return resp, nil
}

// GetJob returns the stored status of a screening job.
func (s *Service) GetJob(ctx context.Context, id string) (*repositories.ScreeningJob, error) {
	if s.jobs == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "screening job tracking is not configured")
	}
	if id == "" {
		return nil, errors.New(errors.ErrCodeValidation, "job id is required")
	}
	return s.jobs.Get(ctx, id)
}

//Personal.AI order the ending
