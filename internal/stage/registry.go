package stage

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/flarebyte/magepack/internal/minify"
)

// Deps carries the collaborators stages use instead of globals.
type Deps struct {
	Fs       afero.Fs
	Logger   *log.Logger
	Minifier minify.Minifier
}

func (d Deps) fs() afero.Fs {
	if d.Fs == nil {
		return afero.NewOsFs()
	}
	return d.Fs
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

// Runner executes a stage.
type Runner func(ctx context.Context, in Envelope, deps Deps) (Envelope, error)

var registry = map[string]Runner{}

// Register adds a stage runner.
func Register(name string, r Runner) {
	registry[name] = r
}

// Run executes a registered stage by name.
func Run(ctx context.Context, name string, in Envelope, deps Deps) (Envelope, error) {
	r, ok := registry[name]
	if !ok {
		return Envelope{}, ErrUnknown{name: name}
	}
	return r(ctx, in, deps)
}

// ErrUnknown is returned when a stage is not found.
type ErrUnknown struct{ name string }

func (e ErrUnknown) Error() string { return "unknown stage: " + e.name }

// BundlePipeline is the stage order of `magepack bundle`.
var BundlePipeline = []string{
	loadConfigStage,
	discoverLocalesStage,
	detectMinifyStage,
	buildBundlesStage,
	writeReportStage,
}

// RunStages executes the provided list of stage names in order.
func RunStages(ctx context.Context, in Envelope, stages []string, deps Deps) (Envelope, error) {
	out := in
	var err error
	for _, name := range stages {
		out, err = Run(ctx, name, out, deps)
		if err != nil {
			return Envelope{}, err
		}
	}
	return out, nil
}

// StagesUntil returns the prefix of BundlePipeline ending with name.
func StagesUntil(name string) ([]string, error) {
	for i, s := range BundlePipeline {
		if s == name {
			return append([]string(nil), BundlePipeline[:i+1]...), nil
		}
	}
	return nil, ErrUnknown{name: name}
}
