package stage

import (
	"context"

	"github.com/flarebyte/magepack/internal/locale"
)

const detectMinifyStage = "detect-minify"

// detect-minify: minified deployments ship requirejs-config.min.js.
func detectMinifyRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	out := in
	meta := out.meta()
	meta.MinifyOn = locale.MinifyEnabled(deps.fs(), meta.Locales)
	if meta.MinifyOn {
		deps.logger().Info("Minified deployment detected")
	}
	return out, nil
}

func init() { Register(detectMinifyStage, detectMinifyRunner) }
