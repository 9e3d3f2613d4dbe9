package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"viewsync/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the config file",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ConfigExists() && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", config.GetConfigFile())
			}

			if err := config.SaveConfig(config.GetDefaultConfig()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Config written to %s\n", config.GetConfigFile())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			source := config.GetConfigFile()
			if !config.ConfigExists() {
				source += " (not found, using defaults)"
			}

			fmt.Fprintf(out, "config:       %s\n", source)
			fmt.Fprintf(out, "backend:      %s\n", cfg.Backend)
			fmt.Fprintf(out, "namespace:    %s\n", cfg.Namespace)
			fmt.Fprintf(out, "db_path:      %s\n", cfg.DBPath)
			if cfg.RemoteURL != "" {
				fmt.Fprintf(out, "remote_url:   %s\n", cfg.RemoteURL)
			}
			fmt.Fprintf(out, "listen_addr:  %s\n", cfg.ListenAddr)
			views := cfg.ViewsFile
			if views == "" {
				views = "(built-in)"
			}
			fmt.Fprintf(out, "views_file:   %s\n", views)
			fmt.Fprintf(out, "log_level:    %s\n", cfg.LogLevel)
			fmt.Fprintf(out, "theme_name:   %s\n", cfg.ThemeName)
			return nil
		},
	}
}
