// Package resolve maps logical module names to files under a locale root
// and computes where bundle artifacts are written.
package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/flarebyte/magepack/internal/amd"
)

// PathMapper maps a module and its declared source to a path relative to a
// locale root. Implementations must not touch the file system.
type PathMapper interface {
	MapModule(name, source string, minifyOn bool) (string, error)
}

// TemplateMapper is the default PathMapper. Text assets keep their declared
// path; scripts get a `.js` or `.min.js` extension depending on minify mode.
type TemplateMapper struct{}

// MapModule implements PathMapper.
func (TemplateMapper) MapModule(name, source string, minifyOn bool) (string, error) {
	if source == "" {
		return "", fmt.Errorf("module %q: empty source path", name)
	}
	if amd.IsText(source) {
		return source, nil
	}
	base := strings.TrimSuffix(source, ".js")
	if minifyOn && !strings.HasSuffix(base, ".min") {
		return base + ".min.js", nil
	}
	return base + ".js", nil
}

// Resolver turns module declarations into candidate file paths under a
// locale root. The returned path may not exist.
type Resolver struct {
	mapper PathMapper
}

// New returns a Resolver delegating to m, or to TemplateMapper when m is nil.
func New(m PathMapper) *Resolver {
	if m == nil {
		m = TemplateMapper{}
	}
	return &Resolver{mapper: m}
}

// Resolve returns the locale-scoped path of a module.
func (r *Resolver) Resolve(localeRoot, name, source string, minifyOn bool) (string, error) {
	rel, err := r.mapper.MapModule(name, source, minifyOn)
	if err != nil {
		return "", err
	}
	return filepath.Join(localeRoot, filepath.FromSlash(rel)), nil
}
