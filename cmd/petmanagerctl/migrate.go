package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codefactory-g12/petmanager-api/internal/infrastructure/postgres"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := e.openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			v, err := postgres.Migrate(pool)
			if err != nil {
				return err
			}
			e.log.Info().Uint("version", v).Msg("migraciones aplicadas")
			fmt.Fprintf(cmd.OutOrStdout(), "esquema en versión %d\n", v)
			return nil
		},
	}
}
