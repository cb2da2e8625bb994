package stage

import (
	"context"
	"fmt"

	"github.com/flarebyte/magepack/internal/report"
)

const writeReportStage = "write-report"

// write-report: optional YAML summary of the run.
func writeReportRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	if in.Meta == nil || in.Meta.ReportPath == "" || in.Result == nil {
		return in, nil
	}
	if err := report.Write(deps.fs(), in.Meta.ReportPath, *in.Result); err != nil {
		return Envelope{}, fmt.Errorf("write-report: %w", err)
	}
	deps.logger().Info("Report written", "path", in.Meta.ReportPath)
	return in, nil
}

func init() { Register(writeReportStage, writeReportRunner) }
