// Package bundler builds RequireJS bundles for every locale root: it
// collects and normalizes modules, minifies through a content cache and
// writes each bundle along with its loader configuration.
package bundler

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/flarebyte/magepack/internal/config"
	"github.com/flarebyte/magepack/internal/minify"
	"github.com/flarebyte/magepack/internal/resolve"
)

// Request describes one bundling run.
type Request struct {
	Locales []string
	Bundles []config.BundleSpec
	// MinifyOn selects .min.js module and output paths.
	MinifyOn bool
	// ForceMinify minifies bundle text even when MinifyOn is false.
	ForceMinify bool
}

func (r Request) minify() bool { return r.MinifyOn || r.ForceMinify }

// BundleResult reports one (locale, bundle) pair.
type BundleResult struct {
	Locale     string   `json:"locale"`
	Name       string   `json:"name"`
	Modules    []string `json:"modules"`
	Missing    []string `json:"missing,omitempty"`
	BundlePath string   `json:"bundlePath"`
	ConfigPath string   `json:"configPath"`
	Size       int      `json:"size"`
	Minified   bool     `json:"minified"`
	MinifyHit  bool     `json:"minifyHit,omitempty"`
	MinifyErr  string   `json:"minifyError,omitempty"`
}

// Result summarizes a run.
type Result struct {
	Bundles       []BundleResult `json:"bundles"`
	MinifyOn      bool           `json:"minifyOn"`
	MinifierCalls int            `json:"minifierCalls"`
	FilesRead     int            `json:"filesRead"`
}

// Bundler runs the bundling pipeline. Caches live for a single Run call;
// a Bundler itself holds no per-run state and may be reused.
type Bundler struct {
	fs       afero.Fs
	resolver *resolve.Resolver
	minifier minify.Minifier
	logger   *log.Logger
}

// New returns a Bundler. A nil resolver selects the default path mapping,
// a nil minifier selects esbuild and a nil logger discards diagnostics.
func New(fsys afero.Fs, resolver *resolve.Resolver, minifier minify.Minifier, logger *log.Logger) *Bundler {
	if resolver == nil {
		resolver = resolve.New(nil)
	}
	if minifier == nil {
		minifier = minify.NewEsbuild()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bundler{fs: fsys, resolver: resolver, minifier: minifier, logger: logger}
}

// run holds the caches of one Run call.
type run struct {
	*Bundler
	req      Request
	reads    *readCache
	minified *minify.Cache
}

// Run processes locales one at a time, bundles in configuration order and
// modules in declaration order. Missing modules are skipped and minifier
// failures degrade to an empty bundle; write failures abort the run.
func (b *Bundler) Run(ctx context.Context, req Request) (Result, error) {
	r := &run{
		Bundler:  b,
		req:      req,
		reads:    newReadCache(b.fs),
		minified: minify.NewCache(b.minifier),
	}
	res := Result{MinifyOn: req.MinifyOn, Bundles: []BundleResult{}}
	for _, locale := range req.Locales {
		b.logger.Info("Creating bundles", "locale", locale)
		for _, spec := range req.Bundles {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			br, err := r.bundle(ctx, locale, spec)
			if err != nil {
				return res, err
			}
			res.Bundles = append(res.Bundles, br)
		}
	}
	res.MinifierCalls = r.minified.Calls()
	res.FilesRead = r.reads.reads
	return res, nil
}

// bundle runs collect, minify and write for one (locale, bundle) pair.
func (r *run) bundle(ctx context.Context, locale string, spec config.BundleSpec) (BundleResult, error) {
	r.logger.Debug("Creating bundle", "bundle", spec.Name)
	br := BundleResult{
		Locale:     locale,
		Name:       spec.Name,
		BundlePath: resolve.BundlePath(locale, spec.Name, r.req.MinifyOn),
		ConfigPath: resolve.BundleConfigPath(locale, spec.Name, r.req.MinifyOn),
	}

	text, modules, missing := r.collect(locale, spec)
	br.Modules = modules
	br.Missing = missing
	r.logger.Debug("Bundle collected", "bundle", spec.Name, "modules", len(modules), "missing", len(missing))

	if r.req.minify() {
		r.logger.Debug("Minifying bundle", "bundle", spec.Name)
		code, hit, err := r.minified.Minify(ctx, text)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return br, ctxErr
			}
			r.logger.Error("Minification failed", "bundle", spec.Name, "locale", locale, "err", err)
			br.MinifyErr = err.Error()
		}
		text = code
		br.Minified = true
		br.MinifyHit = hit
	}

	if err := r.write(br, text); err != nil {
		return br, err
	}
	br.Size = len(text)
	r.logger.Info(fmt.Sprintf("%-30s- %s", fmt.Sprintf("Generated bundle %q", spec.Name), sizeKB(br.Size)))
	return br, nil
}

func sizeKB(n int) string {
	return fmt.Sprintf("%d kB", (n+512)/1024)
}
