package stage

import (
	"sort"

	"github.com/flarebyte/magepack/internal/bundler"
)

// SortEnvelopeErrors sorts errors by (stage, locator, message) deterministically.
func SortEnvelopeErrors(env *Envelope) {
	if env == nil || len(env.Errors) == 0 {
		return
	}
	sort.Slice(env.Errors, func(i, j int) bool {
		ei, ej := env.Errors[i], env.Errors[j]
		if ei.Stage != ej.Stage {
			return ei.Stage < ej.Stage
		}
		if ei.Locator != ej.Locator {
			return ei.Locator < ej.Locator
		}
		return ei.Message < ej.Message
	})
}

// missingModuleErrors turns skipped modules into envelope diagnostics.
func missingModuleErrors(bundles []bundler.BundleResult) []Error {
	var out []Error
	for _, br := range bundles {
		for _, m := range br.Missing {
			out = append(out, Error{
				Stage:   buildBundlesStage,
				Locator: br.Locale + "#" + br.Name,
				Message: "module not found: " + m,
			})
		}
		if br.MinifyErr != "" {
			out = append(out, Error{
				Stage:   buildBundlesStage,
				Locator: br.Locale + "#" + br.Name,
				Message: "minify failed: " + br.MinifyErr,
			})
		}
	}
	return out
}
