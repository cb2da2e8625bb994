// Package testutil holds fixture helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// WriteTree writes files (slash-separated paths relative to root) to fsys,
// creating parent directories. Files are written in path order.
func WriteTree(fsys afero.Fs, root string, files map[string]string) error {
	rels := make([]string, 0, len(files))
	for rel := range files {
		rels = append(rels, rel)
	}
	sort.Strings(rels)
	for _, rel := range rels {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := fsys.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := afero.WriteFile(fsys, p, []byte(files[rel]), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// CopyTree copies every regular file under src on from to dst on to.
func CopyTree(from afero.Fs, src string, to afero.Fs, dst string) error {
	return afero.Walk(from, src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if info.IsDir() {
			return to.MkdirAll(out, 0o755)
		}
		b, err := afero.ReadFile(from, p)
		if err != nil {
			return err
		}
		return afero.WriteFile(to, out, b, 0o644)
	})
}
