package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

const uniqueViolation = "23505"

const moleculeColumns = `id, name, graph, created_at`

// MoleculeRepository stores molecule graphs as JSONB rows.  Atom and bond
// counts are denormalised so ListMinAtoms can skip targets smaller than the
// query without decoding them.
type MoleculeRepository struct {
	db      queryExecutor
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

var _ molecule.Repository = (*MoleculeRepository)(nil)

// NewMoleculeRepository builds a repository over conn.  A nil metrics
// value disables query timing.
func NewMoleculeRepository(conn *postgres.Connection, log logging.Logger, metrics *prometheus.AppMetrics) *MoleculeRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNoopMetrics()
	}
	return &MoleculeRepository{db: conn.DB(), logger: log, metrics: metrics}
}

func (r *MoleculeRepository) observe(op string, start time.Time, err error) {
	prometheus.RecordDBQuery(r.metrics, op, time.Since(start), err)
}

func (r *MoleculeRepository) Save(ctx context.Context, mol *molecule.Molecule) (err error) {
	start := time.Now()
	defer func() { r.observe("molecule_save", start, err) }()

	if mol == nil {
		return errors.New(errors.ErrCodeValidation, "molecule is nil")
	}
	if mol.ID == "" {
		mol.ID = common.NewID()
	}

	graph, err := json.Marshal(molecule.ToDTO(mol))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode molecule graph")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO molecules (id, name, atom_count, bond_count, graph)
		VALUES ($1, $2, $3, $4, $5)`,
		string(mol.ID), mol.Name, mol.AtomCount(), mol.BondCount(), graph,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.New(errors.ErrCodeMoleculeAlreadyExists, "molecule already exists").WithDetail(string(mol.ID))
		}
		r.logger.Error("failed to insert molecule", logging.MoleculeID(string(mol.ID)), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert molecule")
	}

	r.logger.Debug("molecule saved", logging.MoleculeID(string(mol.ID)), logging.Int("atoms", mol.AtomCount()))
	return nil
}

func (r *MoleculeRepository) FindByID(ctx context.Context, id common.ID) (mol *molecule.Molecule, err error) {
	start := time.Now()
	defer func() { r.observe("molecule_find", start, err) }()

	row := r.db.QueryRowContext(ctx, `SELECT `+moleculeColumns+` FROM molecules WHERE id = $1`, string(id))
	mol, err = scanMolecule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New(errors.ErrCodeMoleculeNotFound, "molecule not found").WithDetail(string(id))
	}
	return mol, err
}

func (r *MoleculeRepository) FindByIDs(ctx context.Context, ids []common.ID) (mols []*molecule.Molecule, err error) {
	if len(ids) == 0 {
		return nil, nil
	}
	start := time.Now()
	defer func() { r.observe("molecule_find_many", start, err) }()

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = string(id)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+moleculeColumns+` FROM molecules WHERE id IN (`+placeholders(1, len(ids))+`) ORDER BY id`,
		args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query molecules")
	}
	return scanMolecules(rows)
}

func (r *MoleculeRepository) List(ctx context.Context, page common.Pagination) (mols []*molecule.Molecule, total int64, err error) {
	if err := page.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeValidation, "invalid pagination")
	}
	start := time.Now()
	defer func() { r.observe("molecule_list", start, err) }()
	return r.list(ctx, "", nil, page)
}

// ListMinAtoms skips molecules too small to contain a query of minAtoms
// atoms, using the atom_count index.
func (r *MoleculeRepository) ListMinAtoms(ctx context.Context, minAtoms int, page common.Pagination) (mols []*molecule.Molecule, total int64, err error) {
	if err := page.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeValidation, "invalid pagination")
	}
	start := time.Now()
	defer func() { r.observe("molecule_list_min_atoms", start, err) }()
	return r.list(ctx, "WHERE atom_count >= $1", []interface{}{minAtoms}, page)
}

func (r *MoleculeRepository) list(ctx context.Context, where string, args []interface{}, page common.Pagination) ([]*molecule.Molecule, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM molecules `+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count molecules")
	}
	if total == 0 {
		return nil, 0, nil
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM molecules %s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		moleculeColumns, where, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, page.PageSize, page.Offset())...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list molecules")
	}
	mols, err := scanMolecules(rows)
	if err != nil {
		return nil, 0, err
	}
	return mols, total, nil
}

func (r *MoleculeRepository) Delete(ctx context.Context, id common.ID) (err error) {
	start := time.Now()
	defer func() { r.observe("molecule_delete", start, err) }()

	res, err := r.db.ExecContext(ctx, `DELETE FROM molecules WHERE id = $1`, string(id))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete molecule")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete molecule")
	}
	if n == 0 {
		return errors.New(errors.ErrCodeMoleculeNotFound, "molecule not found").WithDetail(string(id))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal scanners
// ─────────────────────────────────────────────────────────────────────────────

func scanMolecule(row scanner) (*molecule.Molecule, error) {
	var (
		id        string
		name      string
		graph     []byte
		createdAt time.Time
	)
	if err := row.Scan(&id, &name, &graph, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan molecule")
	}

	var dto mtypes.MoleculeGraphDTO
	if err := json.Unmarshal(graph, &dto); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "stored molecule graph is corrupt").WithDetail(id)
	}
	// the row is authoritative for identity
	dto.ID = id
	dto.Name = name
	return molecule.FromDTO(dto)
}

func scanMolecules(rows *sql.Rows) ([]*molecule.Molecule, error) {
	defer rows.Close()
	var out []*molecule.Molecule
	for rows.Next() {
		m, err := scanMolecule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate molecules")
	}
	return out, nil
}

//Personal.AI order the ending
