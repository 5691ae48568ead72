package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnkit/internal/buildinfo"
	"github.com/cleared-dev/txnkit/internal/config"
	"github.com/cleared-dev/txnkit/internal/logger"
)

// app holds state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	envFile    string
	logLevel   string

	cfg *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "txnkit",
		Short:   "Synthetic bank transactions and CSV category back-fill",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.FileName, "config file (optional)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file with TXNKIT_* overrides (optional)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCommand(),
		newGenerateCommand(a),
		newCategorizeCommand(a),
		newVerifyCommand(),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg, a.envFile); err != nil {
		return fmt.Errorf("applying environment: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	log.Debug().Str("config", a.configPath).Str("command", cmd.Name()).Msg("configuration loaded")

	a.cfg = cfg
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}
