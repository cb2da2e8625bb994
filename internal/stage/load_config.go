package stage

import (
	"context"
	"errors"
	"fmt"

	"github.com/flarebyte/magepack/internal/config"
)

const loadConfigStage = "load-config"

// load-config: parse and validate the bundling configuration into the envelope.
func loadConfigRunner(_ context.Context, in Envelope, deps Deps) (Envelope, error) {
	out := in
	meta := out.meta()
	if meta.ConfigPath == "" {
		return Envelope{}, errors.New("load-config: missing config path")
	}
	b, err := config.LoadBundling(deps.fs(), meta.ConfigPath)
	if err != nil {
		return Envelope{}, fmt.Errorf("load-config: %w", err)
	}
	out.Bundles = b.Bundles
	meta.Config = &ConfigMeta{
		ConfigVersion: b.ConfigVersion,
		Bundles:       len(b.Bundles),
	}
	if b.PathMap.HasInline {
		meta.Config.PathMapInline = b.PathMap.Inline
	}
	deps.logger().Debug("Loaded bundling config", "path", meta.ConfigPath, "bundles", len(b.Bundles))
	return out, nil
}

func init() { Register(loadConfigStage, loadConfigRunner) }
