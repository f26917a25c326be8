package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres"
	"github.com/turtacn/molmatch/pkg/errors"
)

// Migration entry points, replaceable in tests.
var (
	migrateUp = func(cliCtx *CLIContext) error {
		conn, err := postgres.NewConnection(cliCtx.Config.Database, cliCtx.Logger)
		if err != nil {
			return err
		}
		defer conn.Close()
		return conn.RunMigrations(cliCtx.Config.Database.MigrationPath)
	}
	migrateDown = func(cliCtx *CLIContext, steps int) error {
		db := cliCtx.Config.Database
		return postgres.RollbackMigration(db.DSN(), db.MigrationPath, steps)
	}
	migrateStatus = func(cliCtx *CLIContext) (uint, bool, error) {
		db := cliCtx.Config.Database
		return postgres.MigrationStatus(db.DSN(), db.MigrationPath)
	}
)

// NewMigrateCmd creates the migrate command group.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the molecule store schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if err := migrateUp(cliCtx); err != nil {
				return err
			}
			return printStatus(cmd, cliCtx)
		},
	}

	down := &cobra.Command{
		Use:   "down [STEPS]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			steps := 1
			if len(args) == 1 {
				if steps, err = strconv.Atoi(args[0]); err != nil || steps < 1 {
					return errors.Newf(errors.ErrCodeValidation, "steps must be a positive integer, got %q", args[0])
				}
			}
			if err := migrateDown(cliCtx, steps); err != nil {
				return err
			}
			return printStatus(cmd, cliCtx)
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return printStatus(cmd, cliCtx)
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

type migrationState struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s migrationState) String() string {
	if s.Dirty {
		return fmt.Sprintf("schema version %d (dirty)", s.Version)
	}
	return fmt.Sprintf("schema version %d", s.Version)
}

func printStatus(cmd *cobra.Command, cliCtx *CLIContext) error {
	version, dirty, err := migrateStatus(cliCtx)
	if err != nil {
		return err
	}
	return PrintResult(cmd, migrationState{Version: version, Dirty: dirty})
}

//Personal.AI order the ending
