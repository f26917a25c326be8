// Package molecule is the application service for the stored molecule
// corpus that screening runs against.
package molecule

import (
	"context"

	"github.com/turtacn/molmatch/internal/application/matching"
	domainMol "github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/infrastructure/database/redis"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// Service defines the molecule registry operations.
type Service interface {
	Create(ctx context.Context, graph mtypes.MoleculeGraphDTO) (*mtypes.MoleculeSummary, error)
	GetByID(ctx context.Context, id string) (*mtypes.MoleculeGraphDTO, error)
	List(ctx context.Context, input *ListInput) (*ListResult, error)
	Delete(ctx context.Context, id string) error
}

// ListInput contains input for listing molecules.
type ListInput struct {
	Page     int
	PageSize int
}

// ListResult represents a paginated list of molecules.
type ListResult struct {
	Molecules  []mtypes.MoleculeSummary `json:"molecules"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

type serviceImpl struct {
	repo   domainMol.Repository
	cache  redis.Cache
	logger logging.Logger
}

// NewService creates the registry service.  cache may be nil; when set,
// cached screening results are dropped on every corpus change.
func NewService(repo domainMol.Repository, cache redis.Cache, logger logging.Logger) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{repo: repo, cache: cache, logger: logger}
}

func (s *serviceImpl) Create(ctx context.Context, graph mtypes.MoleculeGraphDTO) (*mtypes.MoleculeSummary, error) {
	if len(graph.Atoms) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "molecule has no atoms")
	}
	mol, err := domainMol.FromDTO(graph)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, mol); err != nil {
		s.logger.Error("failed to create molecule", logging.Err(err))
		return nil, err
	}
	s.invalidateScreens(ctx)
	s.logger.Info("molecule registered", logging.MoleculeID(mol.ID.String()), logging.Int("atoms", mol.AtomCount()))
	return summary(mol), nil
}

func (s *serviceImpl) GetByID(ctx context.Context, id string) (*mtypes.MoleculeGraphDTO, error) {
	if err := common.ID(id).Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid molecule id")
	}
	mol, err := s.repo.FindByID(ctx, common.ID(id))
	if err != nil {
		return nil, err
	}
	dto := domainMol.ToDTO(mol)
	return &dto, nil
}

func (s *serviceImpl) List(ctx context.Context, input *ListInput) (*ListResult, error) {
	if input == nil {
		input = &ListInput{}
	}
	page, size := input.Page, input.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	mols, total, err := s.repo.List(ctx, common.Pagination{Page: page, PageSize: size})
	if err != nil {
		return nil, err
	}

	out := make([]mtypes.MoleculeSummary, len(mols))
	for i, mol := range mols {
		out[i] = *summary(mol)
	}

	totalPages := int(total) / size
	if int(total)%size > 0 {
		totalPages++
	}

	return &ListResult{
		Molecules:  out,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	if err := common.ID(id).Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid molecule id")
	}
	if err := s.repo.Delete(ctx, common.ID(id)); err != nil {
		return err
	}
	s.invalidateScreens(ctx)
	return nil
}

// invalidateScreens drops cached screening results.  A failure only costs
// stale results until their TTL runs out.
func (s *serviceImpl) invalidateScreens(ctx context.Context) {
	if s.cache == nil {
		return
	}
	n, err := s.cache.DeleteByPrefix(ctx, matching.ScreenCachePrefix)
	if err != nil {
		s.logger.Warn("failed to invalidate screening cache", logging.Err(err))
		return
	}
	if n > 0 {
		s.logger.Debug("screening cache invalidated", logging.Int64("keys", n))
	}
}

func summary(mol *domainMol.Molecule) *mtypes.MoleculeSummary {
	return &mtypes.MoleculeSummary{
		ID:        mol.ID.String(),
		Name:      mol.Name,
		AtomCount: mol.AtomCount(),
		BondCount: mol.BondCount(),
	}
}

//Personal.AI order the ending
