package stage

import (
	"context"
	"fmt"

	"github.com/flarebyte/magepack/internal/config"
	"github.com/flarebyte/magepack/internal/locale"
)

const discoverLocalesStage = "discover-locales"

// discover-locales: expand the locale glob into deployed locale roots.
func discoverLocalesRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	out := in
	meta := out.meta()
	pattern := meta.LocalesGlob
	if pattern == "" {
		pattern = config.DefaultLocalesGlob
	}
	locales, err := locale.Discover(deps.fs(), pattern, meta.Excludes)
	if err != nil {
		return Envelope{}, fmt.Errorf("discover-locales: %w", err)
	}
	meta.Locales = locales
	deps.logger().Debug("Discovered locales", "count", len(locales))
	return out, nil
}

func init() { Register(discoverLocalesStage, discoverLocalesRunner) }
