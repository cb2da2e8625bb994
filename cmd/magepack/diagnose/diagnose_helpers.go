package diagnose

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flarebyte/magepack/internal/stage"
)

type runner struct {
	deps    stage.Deps
	dumpDir string
}

func (r runner) dumpStageBoundary(seq int, stageName string, suffix string, env stage.Envelope) error {
	if r.dumpDir == "" {
		return nil
	}
	base := fmt.Sprintf("%03d_%s_%s.json", seq, stageName, suffix)
	return writeJSONFile(filepath.Join(r.dumpDir, base), env)
}

func (r runner) runStageSequence(cmd *cobra.Command, inEnv stage.Envelope, stages []string) (stage.Envelope, error) {
	out := inEnv
	for i, stageName := range stages {
		seq := i + 1
		if err := r.dumpStageBoundary(seq, stageName, "in", out); err != nil {
			return stage.Envelope{}, err
		}
		next, err := stage.Run(cmd.Context(), stageName, out, r.deps)
		if err != nil {
			return stage.Envelope{}, err
		}
		if err := r.dumpStageBoundary(seq, stageName, "out", next); err != nil {
			return stage.Envelope{}, err
		}
		out = next
	}
	return out, nil
}
