package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codefactory-g12/petmanager-api/pkg/jwt"
)

// newTokenCmd emite un JWT firmado con JWT_SECRET para probar la API en desarrollo.
func newTokenCmd(e *env) *cobra.Command {
	var (
		userID     string
		expMinutes int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un Bearer token de desarrollo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.cfg.App.Env == "production" {
				return errors.New("token: no disponible en producción")
			}
			if expMinutes <= 0 {
				expMinutes = e.cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(e.cfg.JWT.Secret, userID, e.cfg.JWT.Issuer, expMinutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "dev", "user_id del token")
	cmd.Flags().IntVar(&expMinutes, "exp", 0, "minutos de validez (por defecto JWT_EXPIRATION_MINUTES)")
	return cmd
}
