package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/molmatch/internal/application/matching"
	"github.com/turtacn/molmatch/internal/domain/substructure"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/pkg/errors"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// optionFlags binds the search options shared by match, react and screen.
type optionFlags struct {
	bondMode        string
	saturation      bool
	removeHydrogens bool
	induced         bool
	uniqueTargets   bool
	maxMappings     int
	ranking         string
}

func (o *optionFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.bondMode, "bond-mode", "", "bond comparison: any|exact|unsaturation (default from config)")
	f.BoolVar(&o.saturation, "saturation", false, "require equal unsaturation on mapped atoms")
	f.BoolVar(&o.removeHydrogens, "remove-hydrogens", false, "fold explicit hydrogens into their neighbours first")
	f.BoolVar(&o.induced, "induced", false, "require an induced subgraph (no extra target bonds)")
	f.BoolVar(&o.uniqueTargets, "unique", false, "report one mapping per distinct target atom set")
	f.IntVar(&o.maxMappings, "max-mappings", 0, "stop after this many raw mappings (0 = no limit)")
	f.StringVar(&o.ranking, "ranking", "", "comma-separated ranking filters: stereo,fragment,energy")
}

func (o *optionFlags) toDTO() (mtypes.MatchOptionsDTO, error) {
	dto := mtypes.MatchOptionsDTO{
		BondMode:        o.bondMode,
		MatchSaturation: o.saturation,
		RemoveHydrogens: o.removeHydrogens,
		Induced:         o.induced,
		UniqueTargets:   o.uniqueTargets,
		MaxMappings:     o.maxMappings,
	}
	if o.maxMappings < 0 {
		return dto, errors.Newf(errors.ErrCodeInvalidOption, "max-mappings must be >= 0, got %d", o.maxMappings)
	}
	if _, err := substructure.ParseBondMode(o.bondMode); err != nil {
		return dto, err
	}
	for _, part := range strings.Split(o.ranking, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if _, err := substructure.ParseFilterKind(part); err != nil {
			return dto, err
		}
		dto.Ranking = append(dto.Ranking, part)
	}
	return dto, nil
}

// readGraph decodes one molecule graph in JSON form from path.
func readGraph(path, flag string) (mtypes.MoleculeGraphDTO, error) {
	var g mtypes.MoleculeGraphDTO
	if path == "" {
		return g, errors.Newf(errors.ErrCodeValidation, "--%s is required", flag)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return g, errors.Wrap(err, errors.ErrCodeValidation, "cannot read molecule file").WithDetail(path)
	}
	if err := json.Unmarshal(data, &g); err != nil {
		return g, errors.Wrap(err, errors.ErrCodeSerialization, "molecule file is not a valid graph").WithDetail(path)
	}
	return g, nil
}

// newService builds a matching service; deps may carry a molecule store.
func newService(cliCtx *CLIContext, deps matching.Dependencies) (*matching.Service, error) {
	energies, err := substructure.LoadBondEnergyFile(cliCtx.Config.Matching.BondEnergyFile)
	if err != nil {
		return nil, err
	}
	deps.Energies = energies
	return matching.NewService(cliCtx.Config.Matching, deps, cliCtx.Logger), nil
}

type matchOptions struct {
	optionFlags
	queryPath  string
	targetPath string
	mode       string
}

// NewMatchCmd creates the match command.
func NewMatchCmd() *cobra.Command {
	opts := &matchOptions{}
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Map a query molecule onto a target molecule",
		Long: "Reads two molecule graphs in JSON form and reports whether, how often and\n" +
			"where the query occurs in the target.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.queryPath, "query", "q", "", "query molecule JSON file (required)")
	cmd.Flags().StringVarP(&opts.targetPath, "target", "t", "", "target molecule JSON file (required)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", mtypes.MatchModeAll, "exists|count|first|all")
	opts.register(cmd)
	return cmd
}

func runMatch(cmd *cobra.Command, opts *matchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	switch opts.mode {
	case mtypes.MatchModeExists, mtypes.MatchModeCount, mtypes.MatchModeFirst, mtypes.MatchModeAll:
	default:
		return errors.Newf(errors.ErrCodeInvalidOption, "invalid mode %q (must be exists|count|first|all)", opts.mode)
	}
	dto, err := opts.toDTO()
	if err != nil {
		return err
	}
	query, err := readGraph(opts.queryPath, "query")
	if err != nil {
		return err
	}
	target, err := readGraph(opts.targetPath, "target")
	if err != nil {
		return err
	}

	svc, err := newService(cliCtx, matching.Dependencies{})
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	cliCtx.Logger.Debug("Running match",
		logging.String("query", opts.queryPath),
		logging.String("target", opts.targetPath),
		logging.String("mode", opts.mode))

	resp, err := svc.Match(ctx, &mtypes.MatchRequest{Query: query, Target: target, Options: dto, Mode: opts.mode})
	if err != nil {
		return err
	}
	return PrintResult(cmd, matchResult{resp})
}

type reactOptions struct {
	optionFlags
	reactantPath string
	productPath  string
}

// NewReactCmd creates the react command.
func NewReactCmd() *cobra.Command {
	opts := &reactOptions{}
	cmd := &cobra.Command{
		Use:   "react",
		Short: "Map reactant atoms onto product atoms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReact(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.reactantPath, "reactant", "r", "", "reactant molecule JSON file (required)")
	cmd.Flags().StringVarP(&opts.productPath, "product", "p", "", "product molecule JSON file (required)")
	opts.register(cmd)
	return cmd
}

func runReact(cmd *cobra.Command, opts *reactOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	dto, err := opts.toDTO()
	if err != nil {
		return err
	}
	reactant, err := readGraph(opts.reactantPath, "reactant")
	if err != nil {
		return err
	}
	product, err := readGraph(opts.productPath, "product")
	if err != nil {
		return err
	}

	svc, err := newService(cliCtx, matching.Dependencies{})
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	resp, err := svc.React(ctx, &mtypes.ReactionRequest{Reactant: reactant, Product: product, Options: dto})
	if err != nil {
		return err
	}
	return PrintResult(cmd, reactionResult{resp})
}

// ─────────────────────────────────────────────────────────────────────────────
// Output views
// ─────────────────────────────────────────────────────────────────────────────

type matchResult struct {
	*mtypes.MatchResponse
}

func (r matchResult) MarshalJSON() ([]byte, error) { return json.Marshal(r.MatchResponse) }

func (r matchResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "matched: %t\ncount:   %d\n", r.Matched, r.Count)
	for i, m := range r.Mappings {
		fmt.Fprintf(&sb, "#%d %s\n", i+1, formatMapping(m))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r matchResult) TableHeaders() []string { return mappingHeaders }
func (r matchResult) TableRows() [][]string  { return mappingRows(r.Mappings) }

type reactionResult struct {
	*mtypes.ReactionResponse
}

func (r reactionResult) MarshalJSON() ([]byte, error) { return json.Marshal(r.ReactionResponse) }

func (r reactionResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "mappings: %d\n", r.Count)
	for i, m := range r.Mappings {
		fmt.Fprintf(&sb, "#%d %s\n", i+1, formatMapping(m))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r reactionResult) TableHeaders() []string { return mappingHeaders }
func (r reactionResult) TableRows() [][]string  { return mappingRows(r.Mappings) }

var mappingHeaders = []string{"#", "STEREO", "FRAGMENTS", "ENERGY", "PAIRS"}

func mappingRows(ms []mtypes.MappingDTO) [][]string {
	rows := make([][]string, 0, len(ms))
	for i, m := range ms {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(m.StereoMismatches),
			strconv.Itoa(m.Fragments),
			strconv.FormatFloat(m.Energy, 'f', 1, 64),
			formatPairs(m.Pairs),
		})
	}
	return rows
}

func formatMapping(m mtypes.MappingDTO) string {
	return fmt.Sprintf("stereo=%d fragments=%d energy=%.1f  %s", m.StereoMismatches, m.Fragments, m.Energy, formatPairs(m.Pairs))
}

// formatPairs renders query->target atom pairs, e.g. "0->3 1->4".
func formatPairs(pairs []mtypes.AtomPairDTO) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("%d->%d", p.Query, p.Target)
	}
	return strings.Join(parts, " ")
}

//Personal.AI order the ending
