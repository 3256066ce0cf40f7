package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/Mentoria-api/pkg/client"
	"github.com/jhoicas/Mentoria-api/pkg/logger"
)

const (
	apiURLKey      = "api_url"
	sessionFileKey = "session_file"
	logLevelKey    = "log_level"
)

// settings configuración del CLI: flags > MENTORCTL_* > valores por defecto.
var settings = viper.New()

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mentorctl",
		Short:         "Cliente de línea de comandos de Mentoria",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	settings.SetEnvPrefix("MENTORCTL")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	settings.SetDefault(apiURLKey, "http://localhost:8080")
	settings.SetDefault(sessionFileKey, defaultSessionFile())
	settings.SetDefault(logLevelKey, "warn")

	root.PersistentFlags().String("api-url", "", "URL base de la API (MENTORCTL_API_URL)")
	root.PersistentFlags().String("session-file", "", "archivo de sesión (MENTORCTL_SESSION_FILE)")
	root.PersistentFlags().String("log-level", "", "nivel de log: debug, info, warn, error")
	_ = settings.BindPFlag(apiURLKey, root.PersistentFlags().Lookup("api-url"))
	_ = settings.BindPFlag(sessionFileKey, root.PersistentFlags().Lookup("session-file"))
	_ = settings.BindPFlag(logLevelKey, root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newLoginCommand(),
		newWhoamiCommand(),
		newLogoutCommand(),
		newInviteCommand(),
	)
	return root
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mentorctl-session.json"
	}
	return filepath.Join(home, ".mentorctl", "session.json")
}

// newClient cliente de la API con la sesión persistida en el archivo configurado.
func newClient() *client.Client {
	return client.New(settings.GetString(apiURLKey),
		client.WithTokenStore(client.NewFileTokenStore(settings.GetString(sessionFileKey))))
}

func newLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: settings.GetString(logLevelKey), Output: os.Stderr})
}
