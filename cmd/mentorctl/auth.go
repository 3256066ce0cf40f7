package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Mentoria-api/internal/application/guard"
	"github.com/jhoicas/Mentoria-api/internal/application/session"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
)

var loginFlags = map[string]cobraflags.Flag{
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Email de la cuenta (obligatorio)",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "Contraseña (obligatoria)",
	},
}

func newLoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión y guardar la sesión localmente",
		RunE:  loginCommand,
	}
	cobraflags.RegisterMap(cmd, loginFlags)
	return cmd
}

func loginCommand(cmd *cobra.Command, _ []string) error {
	email := loginFlags[emailFlag].GetString()
	password := loginFlags[passwordFlag].GetString()
	if email == "" || password == "" {
		return errors.New("--email y --password son obligatorios")
	}

	out, err := newClient().SignIn(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Sesión iniciada como %s\n", out.Session.User.Email)
	if out.Role == nil {
		fmt.Fprintf(w, "Perfil incompleto (%s): complete el registro antes de continuar.\n", guard.ReasonProfileIncomplete)
		return nil
	}
	fmt.Fprintf(w, "Rol: %s\nDestino: %s\n", *out.Role, out.Redirect)
	return nil
}

func newWhoamiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Mostrar el usuario y el rol de la sesión guardada",
		RunE:  whoamiCommand,
	}
	cmd.Flags().Duration("timeout", 10*time.Second, "Tiempo máximo de espera para cargar la sesión")
	return cmd
}

// whoamiCommand monta el Session Manager sobre el cliente y espera a que termine de cargar.
func whoamiCommand(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	c := newClient()
	m := session.NewManager(c, c, log.Component("session"))
	defer m.Close()

	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	m.Initialize(ctx)
	st, err := m.WaitUntilLoaded(ctx)
	if err != nil {
		return fmt.Errorf("cargar sesión: %w", err)
	}

	w := cmd.OutOrStdout()
	if !st.IsAuthenticated {
		fmt.Fprintln(w, "Sin sesión. Use `mentorctl login`.")
		return nil
	}
	fmt.Fprintf(w, "Usuario: %s (%s)\n", st.User.Email, st.User.ID)
	if st.Role == nil {
		fmt.Fprintln(w, "Rol: ninguno (perfil incompleto o no se pudo consultar)")
		return nil
	}
	fmt.Fprintf(w, "Rol: %s\nDashboard: %s\n", *st.Role, st.Role.Dashboard())
	return nil
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar la sesión y borrar la sesión guardada",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			if _, err := c.GetSession(cmd.Context()); err != nil {
				return err
			}
			if err := c.SignOut(cmd.Context()); err != nil {
				newLogger().Warn().Err(err).Msg("el servidor no confirmó el cierre de sesión")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada.")
			return nil
		},
	}
}
