package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codefactory-g12/petmanager-api/internal/application/supplier"
	"github.com/codefactory-g12/petmanager-api/internal/infrastructure/postgres"
)

func newImportSuppliersCmd(e *env) *cobra.Command {
	var (
		file    string
		charset string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "import-suppliers",
		Short: "Importa proveedores desde un CSV separado por ';' (upsert por NIT)",
		Long: `Columnas: nit;nombre;direccion;telefono;condicion_pago;notas

condicion_pago acepta el id o el nombre de la condición ("30 días").
Se validan todas las filas antes de escribir; si alguna falla no se importa nada.`,
		Example: `  petmanagerctl import-suppliers --file proveedores.csv
  petmanagerctl import-suppliers --file export_excel.csv --charset latin1 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("abrir archivo: %w", err)
			}
			defer f.Close()

			rows, err := supplier.ParseCSV(f, charset)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d proveedores leídos (sin escribir)\n", len(rows))
				return nil
			}

			pool, err := e.openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := supplier.NewImportUseCase(
				postgres.NewTxRunner(pool),
				postgres.NewPaymentConditionRepository(pool),
				e.log.WithComponent("import-suppliers"),
			)
			res, err := uc.Import(cmd.Context(), rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "creados: %d, actualizados: %d\n", res.Created, res.Updated)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "ruta del CSV")
	cmd.Flags().StringVar(&charset, "charset", supplier.CharsetUTF8, "codificación del archivo: utf8 o latin1")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "solo leer y validar el formato")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
