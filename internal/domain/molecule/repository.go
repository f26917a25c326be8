package molecule

import (
	"context"

	"github.com/turtacn/molmatch/pkg/types/common"
)

// Repository persists molecules for screening.
type Repository interface {
	// Save inserts a molecule, assigning an ID when empty.
	// Returns errors.ErrCodeMoleculeAlreadyExists on ID collision.
	Save(ctx context.Context, mol *Molecule) error

	// FindByID returns errors.ErrCodeMoleculeNotFound when absent.
	FindByID(ctx context.Context, id common.ID) (*Molecule, error)

	// FindByIDs returns the molecules that exist, in ID order; missing IDs are skipped.
	FindByIDs(ctx context.Context, ids []common.ID) ([]*Molecule, error)

	// List returns one page ordered by creation time plus the total count.
	List(ctx context.Context, page common.Pagination) ([]*Molecule, int64, error)

	// ListMinAtoms pages like List over molecules with at least minAtoms
	// atoms; the total counts only those.
	ListMinAtoms(ctx context.Context, minAtoms int, page common.Pagination) ([]*Molecule, int64, error)

	Delete(ctx context.Context, id common.ID) error
}

//Personal.AI order the ending
