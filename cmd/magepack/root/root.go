package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flarebyte/magepack/cmd/magepack/bundle"
	"github.com/flarebyte/magepack/cmd/magepack/diagnose"
	"github.com/flarebyte/magepack/cmd/magepack/version"
	"github.com/flarebyte/magepack/internal/config"
)

// NewRootCmd creates the root command for magepack. Settings resolve from
// flags, then MAGEPACK_* environment variables, then defaults.
func NewRootCmd() *cobra.Command {
	v := config.NewViper()
	cmd := &cobra.Command{
		Use:   "magepack",
		Short: "Bundle Magento 2 RequireJS modules into per-locale bundles",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String(config.KeyLogLevel, "info", "Log level: debug, info, warn, error")
	_ = v.BindPFlag(config.KeyLogLevel, cmd.PersistentFlags().Lookup(config.KeyLogLevel))

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(bundle.NewCmd(v))
	cmd.AddCommand(diagnose.NewCmd(v))

	return cmd
}

// Execute runs the root command with provided args.
func Execute(ctx context.Context, args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
