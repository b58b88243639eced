package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/codefactory-g12/petmanager-api/internal/infrastructure/postgres"
	"github.com/codefactory-g12/petmanager-api/pkg/config"
	"github.com/codefactory-g12/petmanager-api/pkg/logger"
)

var version = "dev"

// env estado compartido por los subcomandos; se llena en PersistentPreRunE.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "petmanagerctl",
		Short:         "Herramientas de operación de PetManager",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{
				Env:    cfg.App.Env,
				Level:  cfg.App.LogLevel,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}
	root.AddCommand(
		newMigrateCmd(e),
		newImportSuppliersCmd(e),
		newTokenCmd(e),
	)
	return root
}

func (e *env) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, e.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, nil
}
