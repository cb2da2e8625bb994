// Package locale finds deployed static locale roots and derives the run-wide
// minification mode from them.
package locale

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitgitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/spf13/afero"
)

// ErrNoLocalesFound is returned when discovery yields no locale roots.
var ErrNoLocalesFound = errors.New("no locales found, make sure magepack runs after static content is deployed")

const (
	requireConfig    = "requirejs-config.js"
	requireConfigMin = "requirejs-config.min.js"
)

// Discover expands pattern (doublestar syntax, `{a,b}` alternation included)
// and returns the sorted locale roots that are directories holding a
// RequireJS configuration and match none of the exclude patterns. Exclude
// patterns use .gitignore syntax.
func Discover(fsys afero.Fs, pattern string, excludes []string) ([]string, error) {
	matches, err := glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("discover locales: %w", err)
	}
	matcher := excludeMatcher(excludes)
	var locales []string
	for _, m := range matches {
		if matcher != nil && matcher.Match(splitPath(m), true) {
			continue
		}
		if !hasRequireConfig(fsys, m) {
			continue
		}
		locales = append(locales, m)
	}
	if len(locales) == 0 {
		return nil, ErrNoLocalesFound
	}
	sort.Strings(locales)
	return locales, nil
}

// MinifyEnabled reports whether the deployment serves minified assets,
// judged from the first locale root.
func MinifyEnabled(fsys afero.Fs, locales []string) bool {
	if len(locales) == 0 {
		return false
	}
	ok, err := afero.Exists(fsys, filepath.Join(locales[0], requireConfigMin))
	return err == nil && ok
}

func glob(fsys afero.Fs, pattern string) ([]string, error) {
	prefix := ""
	if filepath.IsAbs(pattern) {
		if _, isOS := fsys.(*afero.OsFs); isOS {
			return doublestar.FilepathGlob(pattern)
		}
		// io/fs paths are unrooted
		prefix = "/"
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "/")
	}
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	matches, err := doublestar.Glob(afero.NewIOFS(fsys), pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.FromSlash(prefix+m))
	}
	return out, nil
}

func hasRequireConfig(fsys afero.Fs, dir string) bool {
	if isDir, err := afero.IsDir(fsys, dir); err != nil || !isDir {
		return false
	}
	for _, name := range []string{requireConfigMin, requireConfig} {
		if ok, err := afero.Exists(fsys, filepath.Join(dir, name)); err == nil && ok {
			return true
		}
	}
	return false
}

func excludeMatcher(excludes []string) gitgitignore.Matcher {
	var patterns []gitgitignore.Pattern
	for _, line := range excludes {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitgitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return nil
	}
	return gitgitignore.NewMatcher(patterns)
}

func splitPath(p string) []string {
	p = strings.Trim(filepath.ToSlash(filepath.Clean(p)), "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}
