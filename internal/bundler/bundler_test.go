package bundler

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/flarebyte/magepack/internal/config"
)

const (
	localeEN = "/site/pub/static/frontend/Vendor/theme/en_US"
	localeFR = "/site/pub/static/frontend/Vendor/theme/fr_FR"
)

type fakeMinifier struct {
	calls int
	fail  bool
}

func (f *fakeMinifier) Minify(_ context.Context, src string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("unexpected token")
	}
	return "/*min*/" + strings.Join(strings.Fields(src), " "), nil
}

func writeFiles(t *testing.T, fsys afero.Fs, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := fsys.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := afero.WriteFile(fsys, p, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func readFile(t *testing.T, fsys afero.Fs, p string) string {
	t.Helper()
	b, err := afero.ReadFile(fsys, p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}
	return string(b)
}

func spec(name string, modules ...string) config.BundleSpec {
	s := config.BundleSpec{Name: name}
	for _, m := range modules {
		s.Modules = append(s.Modules, config.ModuleEntry{Name: m, Source: m})
	}
	return s
}

func TestRun_CheckoutWithMissingModule(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, localeEN, map[string]string{
		"a.js": "define(['jquery'], function ($) { return $; });",
	})
	b := New(fsys, nil, &fakeMinifier{}, nil)
	res, err := b.Run(context.Background(), Request{
		Locales: []string{localeEN},
		Bundles: []config.BundleSpec{spec("checkout", "a", "b")},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	br := res.Bundles[0]
	if !reflect.DeepEqual(br.Modules, []string{"a"}) || !reflect.DeepEqual(br.Missing, []string{"b"}) {
		t.Fatalf("unexpected modules %v missing %v", br.Modules, br.Missing)
	}
	gotBundle := readFile(t, fsys, filepath.Join(localeEN, "magepack", "bundle-checkout.js"))
	wantBundle := "define('a', ['jquery'], function ($) { return $; });\n"
	if gotBundle != wantBundle {
		t.Fatalf("unexpected bundle\nwant: %q\n got: %q", wantBundle, gotBundle)
	}
	gotCfg := readFile(t, fsys, filepath.Join(localeEN, "magepack", "requirejs-config-checkout.js"))
	wantCfg := "requirejs.config({bundles:{'magepack/bundle-checkout':['a']}});"
	if gotCfg != wantCfg {
		t.Fatalf("unexpected config\nwant: %s\n got: %s", wantCfg, gotCfg)
	}
	if br.Size != len(wantBundle) || br.Minified {
		t.Fatalf("unexpected result: %+v", br)
	}
}

func TestRun_IncludesDottedScriptModules(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, localeEN, map[string]string{
		"jquery/jquery.cookie.js":    "define(['jquery'], function ($) { $.cookie = 1; });",
		"jquery/jquery-ui-1.9.2.js":  "window.jQueryUI = 1;",
		"Magento_Ui/templates/a.html": "<p>a</p>",
	})
	b := New(fsys, nil, &fakeMinifier{}, nil)
	res, err := b.Run(context.Background(), Request{
		Locales: []string{localeEN},
		Bundles: []config.BundleSpec{spec("vendor", "jquery/jquery.cookie", "jquery/jquery-ui-1.9.2", "Magento_Ui/templates/a.html")},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	br := res.Bundles[0]
	want := []string{"jquery/jquery.cookie", "jquery/jquery-ui-1.9.2", "Magento_Ui/templates/a.html"}
	if !reflect.DeepEqual(br.Modules, want) || len(br.Missing) != 0 {
		t.Fatalf("unexpected modules %v missing %v", br.Modules, br.Missing)
	}
	text := readFile(t, fsys, br.BundlePath)
	if !strings.Contains(text, "define('jquery/jquery.cookie', ['jquery']") {
		t.Fatalf("dotted module not named: %s", text)
	}
	if !strings.Contains(text, "define('jquery/jquery-ui-1.9.2', [], function () {") {
		t.Fatalf("dotted non-AMD module not wrapped: %s", text)
	}
}

func TestRun_KeepsDeclarationOrder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, localeEN, map[string]string{
		"z.js":        "window.z = 1;",
		"a.js":        "define('a', [], function () {});",
		"tpl/x.html":  "<p>x</p>",
		"mage/url.js": "define(function () {});",
	})
	s := config.BundleSpec{Name: "common", Modules: []config.ModuleEntry{
		{Name: "z", Source: "z"},
		{Name: "gone", Source: "gone"},
		{Name: "text!tpl/x.html", Source: "tpl/x.html"},
		{Name: "a", Source: "a"},
		{Name: "mage/url", Source: "mage/url"},
	}}
	res, err := New(fsys, nil, nil, nil).Run(context.Background(), Request{
		Locales: []string{localeEN},
		Bundles: []config.BundleSpec{s},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"z", "text!tpl/x.html", "a", "mage/url"}
	if !reflect.DeepEqual(res.Bundles[0].Modules, want) {
		t.Fatalf("unexpected order: %v", res.Bundles[0].Modules)
	}
	got := readFile(t, fsys, res.Bundles[0].BundlePath)
	wantText := "define('z', [], function () {\nwindow.z = 1;\n});\n" +
		"define('text!tpl/x.html', function () {\n    return \"<p>x</p>\";\n});\n" +
		"define('a', [], function () {});\n" +
		"define('mage/url', function () {});\n"
	if got != wantText {
		t.Fatalf("unexpected bundle\nwant:\n%s\ngot:\n%s", wantText, got)
	}
}

func TestRun_Idempotent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, localeEN, map[string]string{
		"requirejs-config.min.js": "",
		"a.min.js":                "define(function () { return 1; });",
		"b.min.js":                "var b = 2;",
	})
	req := Request{
		Locales:  []string{localeEN},
		Bundles:  []config.BundleSpec{spec("vendor", "a", "b")},
		MinifyOn: true,
	}
	b := New(fsys, nil, &fakeMinifier{}, nil)
	first, err := b.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	bundle1 := readFile(t, fsys, first.Bundles[0].BundlePath)
	cfg1 := readFile(t, fsys, first.Bundles[0].ConfigPath)

	second, err := b.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if bundle1 != readFile(t, fsys, second.Bundles[0].BundlePath) || cfg1 != readFile(t, fsys, second.Bundles[0].ConfigPath) {
		t.Fatalf("artifacts differ between runs")
	}
	if !strings.HasSuffix(first.Bundles[0].BundlePath, "bundle-vendor.min.js") {
		t.Fatalf("unexpected bundle path: %s", first.Bundles[0].BundlePath)
	}
	if second.MinifierCalls != 1 {
		t.Fatalf("caches must not outlive a run: %d calls", second.MinifierCalls)
	}
}

func TestRun_MinifyCacheSharedAcrossBundles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, localeEN, map[string]string{"a.js": "var a = 1;"})
	m := &fakeMinifier{}
	res, err := New(fsys, nil, m, nil).Run(context.Background(), Request{
		Locales:     []string{localeEN},
		Bundles:     []config.BundleSpec{spec("one", "a"), spec("two", "a")},
		ForceMinify: true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if m.calls != 1 || res.MinifierCalls != 1 {
		t.Fatalf("expected one minifier call, got %d", m.calls)
	}
	if res.Bundles[0].MinifyHit || !res.Bundles[1].MinifyHit {
		t.Fatalf("unexpected cache hits: %+v", res.Bundles)
	}
	if res.FilesRead != 1 {
		t.Fatalf("expected module read once, got %d", res.FilesRead)
	}
	if readFile(t, fsys, res.Bundles[0].BundlePath) != readFile(t, fsys, res.Bundles[1].BundlePath) {
		t.Fatalf("bundles differ")
	}
}

func TestRun_MinifyCacheSharedAcrossLocales(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, l := range []string{localeEN, localeFR} {
		writeFiles(t, fsys, l, map[string]string{"a.min.js": "define(function () {});"})
	}
	m := &fakeMinifier{}
	res, err := New(fsys, nil, m, nil).Run(context.Background(), Request{
		Locales:  []string{localeEN, localeFR},
		Bundles:  []config.BundleSpec{spec("checkout", "a")},
		MinifyOn: true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if m.calls != 1 {
		t.Fatalf("expected one minifier call, got %d", m.calls)
	}
	en := readFile(t, fsys, res.Bundles[0].BundlePath)
	fr := readFile(t, fsys, res.Bundles[1].BundlePath)
	if en != fr || !strings.HasPrefix(en, "/*min*/") {
		t.Fatalf("unexpected bundles %q %q", en, fr)
	}
	if res.FilesRead != 2 {
		t.Fatalf("locale paths must be read separately, got %d reads", res.FilesRead)
	}
}

func TestRun_MinifyFailureContinues(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, localeEN, map[string]string{"bad.js": "var = ;"})
	m := &fakeMinifier{fail: true}
	res, err := New(fsys, nil, m, nil).Run(context.Background(), Request{
		Locales:     []string{localeEN},
		Bundles:     []config.BundleSpec{spec("x", "bad"), spec("y", "bad")},
		ForceMinify: true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if m.calls != 1 {
		t.Fatalf("failed input retried: %d calls", m.calls)
	}
	for _, br := range res.Bundles {
		if br.MinifyErr == "" {
			t.Fatalf("missing minify error on %s", br.Name)
		}
		if got := readFile(t, fsys, br.BundlePath); got != "" {
			t.Fatalf("expected empty bundle, got %q", got)
		}
		if !reflect.DeepEqual(br.Modules, []string{"bad"}) {
			t.Fatalf("unexpected modules %v", br.Modules)
		}
	}
}

func TestRun_WriteFailureAborts(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFiles(t, base, localeEN, map[string]string{"a.js": "var a;"})
	_, err := New(afero.NewReadOnlyFs(base), nil, nil, nil).Run(context.Background(), Request{
		Locales: []string{localeEN},
		Bundles: []config.BundleSpec{spec("x", "a")},
	})
	if err == nil || !strings.Contains(err.Error(), "bundle-x.js") {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(afero.NewMemMapFs(), nil, nil, nil).Run(ctx, Request{
		Locales: []string{localeEN},
		Bundles: []config.BundleSpec{spec("x", "a")},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
