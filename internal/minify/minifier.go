// Package minify compresses bundle text and remembers results by content.
package minify

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// DefaultReserved lists global names external code references by name and
// that must survive minification untouched.
var DefaultReserved = []string{"$", "jQuery", "define", "require", "exports"}

// Minifier compresses JavaScript source.
type Minifier interface {
	Minify(ctx context.Context, src string) (string, error)
}

// Esbuild minifies with esbuild's in-process transform API. Comments are
// always dropped, including legal comments.
//
// With the default reserved set local identifiers keep their names: output
// is whitespace and syntax minified only, and is larger than a renaming
// minifier would produce. An empty Reserved enables renaming of local
// bindings; globals and properties are never renamed by esbuild.
type Esbuild struct {
	// Reserved names must never be renamed. esbuild cannot exempt single
	// bindings from mangling, so a non-empty set disables identifier
	// mangling altogether and keeps whitespace and syntax minification.
	Reserved []string
}

// NewEsbuild returns an esbuild minifier protecting DefaultReserved.
func NewEsbuild() *Esbuild {
	return &Esbuild{Reserved: append([]string(nil), DefaultReserved...)}
}

// Minify implements Minifier.
func (e *Esbuild) Minify(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	result := api.Transform(src, api.TransformOptions{
		Loader:            api.LoaderJS,
		Charset:           api.CharsetUTF8,
		LegalComments:     api.LegalCommentsNone,
		MinifyWhitespace:  true,
		MinifySyntax:      true,
		MinifyIdentifiers: len(e.Reserved) == 0,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, msg := range result.Errors {
			text := msg.Text
			if msg.Location != nil {
				text = fmt.Sprintf("%d:%d: %s", msg.Location.Line, msg.Location.Column, msg.Text)
			}
			msgs = append(msgs, text)
		}
		return "", fmt.Errorf("esbuild errors:\n%s", strings.Join(msgs, "\n"))
	}
	return string(result.Code), nil
}
