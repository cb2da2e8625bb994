package stage

import (
	"context"
	"fmt"

	"github.com/flarebyte/magepack/internal/bundler"
	"github.com/flarebyte/magepack/internal/resolve"
)

const buildBundlesStage = "build-bundles"

func resolverFromMeta(meta *Meta) (*resolve.Resolver, error) {
	if meta.Config == nil || meta.Config.PathMapInline == "" {
		return resolve.New(nil), nil
	}
	m, err := resolve.NewLuaMapper(meta.Config.PathMapInline, resolve.TemplateMapper{}, 0)
	if err != nil {
		return nil, err
	}
	return resolve.New(m), nil
}

// build-bundles: write every configured bundle for every locale.
func buildBundlesRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	out := in
	meta := out.meta()
	resolver, err := resolverFromMeta(meta)
	if err != nil {
		return Envelope{}, fmt.Errorf("build-bundles: %w", err)
	}
	b := bundler.New(deps.fs(), resolver, deps.Minifier, deps.logger())
	res, err := b.Run(ctx, bundler.Request{
		Locales:     meta.Locales,
		Bundles:     out.Bundles,
		MinifyOn:    meta.MinifyOn,
		ForceMinify: meta.ForceMinify,
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("build-bundles: %w", err)
	}
	out.Result = &res
	out.Errors = append(out.Errors, missingModuleErrors(res.Bundles)...)
	SortEnvelopeErrors(&out)
	return out, nil
}

func init() { Register(buildBundlesStage, buildBundlesRunner) }
