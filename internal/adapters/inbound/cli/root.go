package cli

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// globalFlags are shared by every command that builds a validation service.
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "docsync",
		Short: "Keep documentation in sync with code",
		Long: "docsync parses AsciiDoc documentation, analyzes Java, Python and Go sources, " +
			"pairs them up and reports where the documentation has drifted from the code.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv()
		},
	}
	cmd.PersistentFlags().StringVar(&g.configPath, "config", ".", "Config file, or directory containing .docsync.yaml")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd(g))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newRulesCmd(g))
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newMCPCmd(g))
	return cmd
}

// loadDotEnv reads .env from the working directory when present so
// DOCSYNC_LOG_LEVEL and friends can live next to the project.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load()
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
