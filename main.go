package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/apoelstra/taskwarrior-hooks/pkg/config"
	"github.com/apoelstra/taskwarrior-hooks/pkg/hook"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", hook.Name, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		quiet      bool
		dumpConfig bool
	)

	cmd := &cobra.Command{
		Use:   hook.Name + " [api:N args:... command:... rc:... data:... version:...]",
		Short: "Taskwarrior hook deriving until and wait from due and relative UDAs",
		// Taskwarrior appends its hook arguments as positional key:value
		// tokens. None of them change what this hook does.
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(cmd.ErrOrStderr(), "", 0)

			cfg, err := loadConfig(configPath)
			if err != nil {
				// Never block "task add" on a broken config file.
				logger.Printf("Warning: %s: %v. Using defaults.", hook.Name, err)
				cfg = config.Default()
			}
			if quiet {
				cfg.Warnings = false
			}

			if dumpConfig {
				return cfg.Write(cmd.OutOrStdout())
			}

			h := hook.New(logger, cfg.UntilAttribute, cfg.WaitAttribute)
			h.Engine.Quiet = !cfg.Warnings
			return h.Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the TOML config file (overrides $"+config.EnvConfigPath+")")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress warnings")
	cmd.Flags().BoolVar(&dumpConfig, "dump-config", false, "Print the effective configuration and exit")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
