package diagnose

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flarebyte/magepack/internal/config"
	"github.com/flarebyte/magepack/internal/logging"
	"github.com/flarebyte/magepack/internal/stage"
)

const (
	flagUntilStage = "until-stage"
	flagDumpDir    = "dump-dir"
	flagPretty     = "pretty"
)

// NewCmd returns `magepack diagnose`, which runs the bundle pipeline up to
// a stage and prints the resulting envelope as JSON.
func NewCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "diagnose",
		Short:         "Run the bundle pipeline up to a stage and print the envelope",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return config.BindFlags(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			until, _ := cmd.Flags().GetString(flagUntilStage)
			dumpDir, _ := cmd.Flags().GetString(flagDumpDir)
			pretty, _ := cmd.Flags().GetBool(flagPretty)
			stages, err := stage.StagesUntil(until)
			if err != nil {
				return err
			}
			settings := config.SettingsFrom(v)
			logger, err := logging.New(cmd.ErrOrStderr(), settings.LogLevel)
			if err != nil {
				return err
			}
			r := runner{
				deps:    stage.Deps{Fs: afero.NewOsFs(), Logger: logger},
				dumpDir: dumpDir,
			}
			out, err := r.runStageSequence(cmd, stage.NewEnvelope(settings), stages)
			if err != nil {
				return err
			}
			return printEnvelope(cmd.OutOrStdout(), out, pretty)
		},
	}
	config.RegisterFlags(cmd.Flags())
	cmd.Flags().String(flagUntilStage, "detect-minify", "Last stage to run (inclusive)")
	cmd.Flags().String(flagDumpDir, "", "Directory to write per-stage dumps (<seq>_<stage>_{in,out}.json)")
	cmd.Flags().Bool(flagPretty, false, "Pretty JSON")
	return cmd
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dump dir: %w", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func printEnvelope(w io.Writer, env stage.Envelope, pretty bool) error {
	stage.SortEnvelopeErrors(&env)
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(env, "", "  ")
	} else {
		b, err = json.Marshal(env)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
