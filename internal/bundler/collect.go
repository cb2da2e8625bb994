package bundler

import (
	"strings"

	"github.com/flarebyte/magepack/internal/amd"
	"github.com/flarebyte/magepack/internal/config"
)

// collect concatenates the wrapped modules of spec for locale, each followed
// by a newline. It returns the text, the included module names and the
// names that could not be resolved or read, all in declaration order.
func (r *run) collect(locale string, spec config.BundleSpec) (string, []string, []string) {
	var (
		buf     strings.Builder
		modules = make([]string, 0, len(spec.Modules))
		missing []string
	)
	for _, m := range spec.Modules {
		path, err := r.resolver.Resolve(locale, m.Name, m.Source, r.req.MinifyOn)
		if err != nil {
			r.logger.Debug("Module not resolved", "module", m.Name, "err", err)
			missing = append(missing, m.Name)
			continue
		}
		r.logger.Debug("Loading module", "module", m.Name, "path", path)
		src, err := r.reads.read(path)
		if err != nil {
			r.logger.Debug("Module not found", "module", m.Name, "path", path)
			missing = append(missing, m.Name)
			continue
		}
		wrapped, kind := amd.Wrap(m.Name, src, path)
		if kind != amd.KindNamed {
			r.logger.Debug("Module wrapped", "module", m.Name, "kind", kind)
		}
		buf.WriteString(wrapped)
		buf.WriteByte('\n')
		modules = append(modules, m.Name)
	}
	return buf.String(), modules, missing
}
