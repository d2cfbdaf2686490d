package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/cpg/internal/config"
	"github.com/TimelordUK/cpg/pkg/logformat"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cpg configuration",
	}

	configCmd.AddCommand(newConfigPathCommand(opts))
	configCmd.AddCommand(newConfigInitCommand(opts))

	return configCmd
}

func newConfigPathCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfgFile
			if path == "" {
				path = config.GetConfigPath()
			}
			if path == "" {
				return fmt.Errorf("could not determine the config path")
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigInitCommand(opts *rootOptions) *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default values",
		Example: `  # Create the default config
  cpg config init

  # Overwrite an existing config
  cpg config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfgFile
			if path == "" {
				path = config.GetConfigPath()
			}
			if path == "" {
				return fmt.Errorf("could not determine the config path")
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}

			if err := config.Save(config.DefaultConfig(), path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return initCmd
}

func newFormatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the record formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.cfgFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(logformat.Names(cfg.Formats), "\n"))
			return nil
		},
	}
}
