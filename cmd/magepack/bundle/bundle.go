package bundle

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flarebyte/magepack/internal/config"
	"github.com/flarebyte/magepack/internal/logging"
	"github.com/flarebyte/magepack/internal/stage"
)

const flagFailOnMissing = "fail-on-missing"

// NewCmd returns the `magepack bundle` command reading settings from v.
func NewCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bundle",
		Short:         "Generate bundles for every deployed locale",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return config.BindFlags(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			failOnMissing, err := cmd.Flags().GetBool(flagFailOnMissing)
			if err != nil {
				return err
			}
			settings := config.SettingsFrom(v)
			logger, err := logging.New(cmd.ErrOrStderr(), settings.LogLevel)
			if err != nil {
				return err
			}
			deps := stage.Deps{Fs: afero.NewOsFs(), Logger: logger}
			out, err := stage.RunStages(cmd.Context(), stage.NewEnvelope(settings), stage.BundlePipeline, deps)
			if err != nil {
				return err
			}
			for _, e := range out.Errors {
				logger.Warn(e.Message, "locator", e.Locator)
			}
			logger.Info("Bundling finished", "bundles", bundleCount(out), "diagnostics", len(out.Errors))
			return evaluateBundleExit(out, failOnMissing)
		},
	}
	config.RegisterFlags(cmd.Flags())
	cmd.Flags().Bool(flagFailOnMissing, false, "Exit with status 2 when a module could not be bundled")
	return cmd
}

func bundleCount(env stage.Envelope) int {
	if env.Result == nil {
		return 0
	}
	return len(env.Result.Bundles)
}
