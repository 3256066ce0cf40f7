package main

import (
	"errors"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Mentoria-api/internal/domain"
)

const corporateFlag = "corporate"

var validateFlags = map[string]cobraflags.Flag{
	corporateFlag: &cobraflags.StringFlag{
		Name:  corporateFlag,
		Value: "",
		Usage: "ID del corporate del enlace de invitación (obligatorio)",
	},
}

func newInviteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Operaciones sobre enlaces de invitación",
	}
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validar el enlace de invitación de un corporate",
		RunE:  validateCommand,
	}
	cobraflags.RegisterMap(validate, validateFlags)
	cmd.AddCommand(validate)
	return cmd
}

func validateCommand(cmd *cobra.Command, _ []string) error {
	corporateID := validateFlags[corporateFlag].GetString()
	if corporateID == "" {
		return errors.New("--corporate es obligatorio")
	}
	out, err := newClient().ValidateInvitation(cmd.Context(), corporateID)
	if errors.Is(err, domain.ErrInvalidInvitation) {
		fmt.Fprintln(cmd.OutOrStdout(), "Enlace inválido.")
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Enlace válido: %s (%s)\n", out.CompanyName, out.CorporateID)
	return nil
}
