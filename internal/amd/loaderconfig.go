package amd

import (
	"fmt"
	"strings"
)

// BundlePrefix namespaces the synthetic module id of every generated bundle.
const BundlePrefix = "magepack/bundle-"

// BundleID returns the loader module id for bundleName.
func BundleID(bundleName string) string {
	return BundlePrefix + bundleName
}

// LoaderConfig renders the RequireJS statement that declares which module
// names the bundle satisfies, in inclusion order:
//
//	requirejs.config({bundles:{'magepack/bundle-<name>':['a','b']}});
func LoaderConfig(bundleName string, modules []string) string {
	var b strings.Builder
	b.WriteString("requirejs.config({")
	b.WriteString(propertyKey("bundles"))
	b.WriteString(":{")
	b.WriteString(propertyKey(BundleID(bundleName)))
	b.WriteString(":[")
	for i, m := range modules {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Quote(m))
	}
	b.WriteString("]}});")
	return b.String()
}

// Quote returns s as a single-quoted JavaScript string literal.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// propertyKey leaves valid identifiers bare and quotes everything else.
func propertyKey(k string) string {
	if isIdentifier(k) {
		return k
	}
	return Quote(k)
}

func isIdentifier(s string) bool {
	if s == "" || reservedWords[s] {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 {
			return false
		}
		if i == 0 && !isIdentStart(c) {
			return false
		}
		if !isIdentPart(c) {
			return false
		}
	}
	return true
}

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "false": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "new": true, "null": true, "return": true, "super": true,
	"switch": true, "this": true, "throw": true, "true": true, "try": true,
	"typeof": true, "var": true, "void": true, "while": true, "with": true,
}
