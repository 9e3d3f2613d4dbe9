package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"viewsync/internal/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "viewsync",
		Short: "viewsync - persistent collection views",
		Long: `viewsync keeps the layout of collection screens (view type, sort, filters,
column layout) in a preference store and reconciles it with the page and search
state carried in a URL query string.

Each screen is identified by a slug. Its stored view lives under the preference
"<namespace>-dataviews-view-<slug>"; page and search only ever live in the URL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				config.SetConfigFile(opts.configPath)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.viewsync/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newViewCmd(opts),
		newPrefCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newServeCmd(opts),
		newTUICmd(opts),
		newThemeCmd(opts),
		newConfigCmd(opts),
	)

	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
