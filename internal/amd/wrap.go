// Package amd normalizes module sources into named AMD declarations and
// renders the RequireJS configuration that maps bundles to module names.
package amd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
)

// Kind is the detected shape of a module source.
type Kind int

const (
	// KindNamed is a `define('name', ...)` module, passed through unchanged.
	KindNamed Kind = iota
	// KindText is a plain text asset (template, markup).
	KindText
	// KindNonAMD is a classic script without a define call.
	KindNonAMD
	// KindAnonymous is a define call lacking its module name.
	KindAnonymous
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNonAMD:
		return "non-amd"
	case KindAnonymous:
		return "anonymous"
	default:
		return "named"
	}
}

// textExtensions are the file extensions served through the RequireJS text
// plugin. Dotted script names such as `jquery/jquery.cookie` are not text.
var textExtensions = map[string]bool{
	".html": true, ".htm": true, ".txt": true, ".json": true,
	".svg": true, ".css": true, ".xml": true, ".tpl": true,
}

// IsText reports whether a resolved module path designates a text asset.
func IsText(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// Classify detects the shape of source read from path. Text detection runs
// first so that text assets are never scanned as code.
func Classify(path, source string) Kind {
	if IsText(path) {
		return KindText
	}
	call, ok := findDefine(source)
	if !ok {
		return KindNonAMD
	}
	if call.named {
		return KindNamed
	}
	return KindAnonymous
}

// Wrap returns source normalized into a named module declaration for name.
func Wrap(name, source, path string) (string, Kind) {
	kind := Classify(path, source)
	switch kind {
	case KindText:
		return wrapText(name, source), kind
	case KindNonAMD:
		return wrapNonAMD(name, source), kind
	case KindAnonymous:
		if out, ok := nameAnonymous(name, source); ok {
			return out, kind
		}
		return source, KindNamed
	default:
		return source, kind
	}
}

func wrapText(name, source string) string {
	var b strings.Builder
	b.WriteString("define(")
	b.WriteString(Quote(name))
	b.WriteString(", function () {\n    return ")
	b.WriteString(jsonString(source))
	b.WriteString(";\n});")
	return b.String()
}

func wrapNonAMD(name, source string) string {
	var b strings.Builder
	b.Grow(len(source) + len(name) + 48)
	b.WriteString("define(")
	b.WriteString(Quote(name))
	b.WriteString(", [], function () {\n")
	b.WriteString(source)
	b.WriteString("\n});")
	return b.String()
}

func nameAnonymous(name, source string) (string, bool) {
	call, ok := findDefine(source)
	if !ok || call.named {
		return "", false
	}
	arg := Quote(name)
	if !call.empty {
		arg += ", "
	}
	return source[:call.open] + arg + source[call.open:], true
}

// jsonString encodes s as a JSON string literal, which is also a valid
// JavaScript string literal.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return Quote(s)
	}
	return strings.TrimRight(buf.String(), "\n")
}
