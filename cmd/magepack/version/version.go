package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/flarebyte/magepack/internal/buildinfo"
)

var (
	flagShort bool
	flagJSON  bool
)

// VersionCmd implements `magepack version`.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagShort || !flagJSON {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "magepack %s\n", buildinfo.Summary())
			return err
		}
		out := map[string]any{
			"version":  buildinfo.Version,
			"commit":   buildinfo.Commit,
			"date":     buildinfo.Date,
			"built_by": buildinfo.BuiltBy,
			"go":       runtime.Version(),
			"go_os":    runtime.GOOS,
			"go_arch":  runtime.GOARCH,
		}
		return encodeJSON(cmd.OutOrStdout(), out)
	},
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	VersionCmd.Flags().BoolVar(&flagShort, "short", false, "Print only the version string")
	VersionCmd.Flags().BoolVar(&flagJSON, "json", false, "Print detailed JSON version info")
}
