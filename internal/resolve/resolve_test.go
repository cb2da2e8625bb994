package resolve

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTemplateMapper(t *testing.T) {
	cases := []struct {
		source string
		minify bool
		want   string
	}{
		{"jquery", false, "jquery.js"},
		{"jquery", true, "jquery.min.js"},
		{"mage/url.js", true, "mage/url.min.js"},
		{"lib/x.min", true, "lib/x.min.js"},
		{"lib/x.min.js", false, "lib/x.min.js"},
		{"Magento_Ui/templates/a.html", true, "Magento_Ui/templates/a.html"},
		{"Magento_Ui/templates/grid.json", false, "Magento_Ui/templates/grid.json"},
		{"jquery/jquery.cookie", false, "jquery/jquery.cookie.js"},
		{"jquery/jquery.validate", true, "jquery/jquery.validate.min.js"},
		{"jquery/jquery-ui-1.9.2", false, "jquery/jquery-ui-1.9.2.js"},
		{"jquery/jquery.cookie.js", true, "jquery/jquery.cookie.min.js"},
	}
	for _, tc := range cases {
		got, err := TemplateMapper{}.MapModule("m", tc.source, tc.minify)
		if err != nil {
			t.Fatalf("%s: %v", tc.source, err)
		}
		if got != tc.want {
			t.Fatalf("%s (minify=%v): want %s, got %s", tc.source, tc.minify, tc.want, got)
		}
	}
}

func TestTemplateMapper_EmptySource(t *testing.T) {
	if _, err := (TemplateMapper{}).MapModule("m", "", false); err == nil {
		t.Fatalf("expected error")
	}
}

func TestResolver_LocalePrefix(t *testing.T) {
	r := New(nil)
	got, err := r.Resolve("pub/static/frontend/Vendor/theme/en_US", "mage/url", "mage/url", false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := filepath.Join("pub/static/frontend/Vendor/theme/en_US", "mage", "url.js")
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestOutputPaths(t *testing.T) {
	if got := BundlePath("l", "checkout", true); got != filepath.Join("l", "magepack", "bundle-checkout.min.js") {
		t.Fatalf("unexpected bundle path: %s", got)
	}
	if got := BundleConfigPath("l", "checkout", false); got != filepath.Join("l", "magepack", "requirejs-config-checkout.js") {
		t.Fatalf("unexpected config path: %s", got)
	}
}

func TestLuaMapper_Rewrite(t *testing.T) {
	code := `if name == "jquery" then return "lib/" .. path end return nil`
	m, err := NewLuaMapper(code, nil, 0)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := m.MapModule("jquery", "jquery", true)
	if err != nil || got != "lib/jquery.min.js" {
		t.Fatalf("unexpected: %q %v", got, err)
	}
	got, err = m.MapModule("mage/url", "mage/url", false)
	if err != nil || got != "mage/url.js" {
		t.Fatalf("unexpected: %q %v", got, err)
	}
}

func TestLuaMapper_CompileError(t *testing.T) {
	if _, err := NewLuaMapper("return (", nil, 0); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestLuaMapper_WrongReturnType(t *testing.T) {
	m, err := NewLuaMapper("return 42", nil, 0)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := m.MapModule("a", "a", false); err == nil || !strings.Contains(err.Error(), "expected string or nil") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLuaMapper_Timeout(t *testing.T) {
	m, err := NewLuaMapper("while true do end", nil, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	_, err = m.MapModule("a", "a", false)
	if err == nil || err.Error() != "path-map: sandbox timeout" {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestLuaMapper_NoIOLibrary(t *testing.T) {
	m, err := NewLuaMapper(`return io.open("x")`, nil, 0)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := m.MapModule("a", "a", false); err == nil {
		t.Fatalf("expected io to be unavailable")
	}
}
