package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/molmatch/internal/application/matching"
	domainMol "github.com/turtacn/molmatch/internal/domain/molecule"
	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres"
	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/internal/infrastructure/storage/minio"
	"github.com/turtacn/molmatch/pkg/errors"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// openStore connects to the molecule store named by the configuration.
// The returned func releases the connection.
var openStore = func(cliCtx *CLIContext) (domainMol.Repository, func(), error) {
	conn, err := postgres.NewConnection(cliCtx.Config.Database, cliCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewMoleculeRepository(conn, cliCtx.Logger, nil), func() { _ = conn.Close() }, nil
}

// openArchive connects to the report bucket.
var openArchive = func(cliCtx *CLIContext) (minio.ReportArchive, error) {
	client, err := minio.NewClient(cliCtx.Config.MinIO, cliCtx.Logger)
	if err != nil {
		return nil, err
	}
	return minio.NewReportArchive(client, cliCtx.Logger, nil), nil
}

type screenOptions struct {
	optionFlags
	queryPath string
	targetIDs []string
	archive   bool
}

// NewScreenCmd creates the screen command.
func NewScreenCmd() *cobra.Command {
	opts := &screenOptions{}
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Search the molecule store for targets containing the query",
		Long: "Runs the query against every stored molecule, or against --target-id\n" +
			"molecules only, and lists the hits ordered by molecule ID.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.queryPath, "query", "q", "", "query molecule JSON file (required)")
	cmd.Flags().StringSliceVar(&opts.targetIDs, "target-id", nil, "restrict screening to these molecule IDs (repeatable)")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "upload the report to object storage")
	opts.register(cmd)
	return cmd
}

func runScreen(cmd *cobra.Command, opts *screenOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	dto, err := opts.toDTO()
	if err != nil {
		return err
	}
	query, err := readGraph(opts.queryPath, "query")
	if err != nil {
		return err
	}

	repo, release, err := openStore(cliCtx)
	if err != nil {
		return err
	}
	defer release()

	deps := matching.Dependencies{Repo: repo}
	if opts.archive {
		if deps.Archive, err = openArchive(cliCtx); err != nil {
			return err
		}
	}
	svc, err := newService(cliCtx, deps)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	resp, err := svc.Screen(ctx, &mtypes.ScreenRequest{
		Query:     query,
		TargetIDs: opts.targetIDs,
		Options:   dto,
		Archive:   opts.archive,
	})
	if err != nil {
		return err
	}
	cliCtx.Logger.Debug("Screen finished", logging.JobID(resp.JobID), logging.Int("hits", len(resp.Hits)))
	return PrintResult(cmd, screenResult{resp})
}

// NewImportCmd creates the import command, which stores molecule files.
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Store molecule graphs for screening",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args)
		},
	}
}

func runImport(cmd *cobra.Command, paths []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	mols := make([]*domainMol.Molecule, 0, len(paths))
	for _, p := range paths {
		g, err := readGraph(p, "file")
		if err != nil {
			return err
		}
		mol, err := domainMol.FromDTO(g)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeMoleculeInvalidGraph, "invalid molecule").WithDetail(p)
		}
		mols = append(mols, mol)
	}

	repo, release, err := openStore(cliCtx)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	summaries := make(importResult, 0, len(mols))
	for i, mol := range mols {
		if err := repo.Save(ctx, mol); err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "failed to store molecule").WithDetail(paths[i])
		}
		summaries = append(summaries, mtypes.MoleculeSummary{
			ID:        mol.ID.String(),
			Name:      mol.Name,
			AtomCount: mol.AtomCount(),
			BondCount: mol.BondCount(),
		})
	}
	return PrintResult(cmd, summaries)
}

type screenResult struct {
	*mtypes.ScreenResponse
}

func (r screenResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "job:     %s\nscanned: %d\nfailed:  %d\nhits:    %d\n", r.JobID, r.Scanned, r.Failed, len(r.Hits))
	if r.ReportKey != "" {
		fmt.Fprintf(&sb, "report:  %s\n", r.ReportKey)
	}
	for _, h := range r.Hits {
		fmt.Fprintf(&sb, "  %s %s (%d)\n", h.MoleculeID, h.Name, h.Count)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r screenResult) TableHeaders() []string { return []string{"MOLECULE", "NAME", "MAPPINGS", "BEST"} }

func (r screenResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		best := ""
		if h.Best != nil {
			best = formatPairs(h.Best.Pairs)
		}
		rows = append(rows, []string{h.MoleculeID, h.Name, strconv.Itoa(h.Count), best})
	}
	return rows
}

type importResult []mtypes.MoleculeSummary

func (r importResult) String() string {
	lines := make([]string, len(r))
	for i, s := range r {
		lines[i] = fmt.Sprintf("stored %s %s (%d atoms, %d bonds)", s.ID, s.Name, s.AtomCount, s.BondCount)
	}
	return strings.Join(lines, "\n")
}

func (r importResult) TableHeaders() []string { return []string{"ID", "NAME", "ATOMS", "BONDS"} }

func (r importResult) TableRows() [][]string {
	rows := make([][]string, len(r))
	for i, s := range r {
		rows[i] = []string{s.ID, s.Name, strconv.Itoa(s.AtomCount), strconv.Itoa(s.BondCount)}
	}
	return rows
}

//Personal.AI order the ending
