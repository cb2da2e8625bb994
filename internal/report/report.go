// Package report writes a canonical YAML summary of a bundling run.
package report

import (
	"bytes"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/flarebyte/magepack/internal/bundler"
)

// Marshal returns canonical YAML bytes for a run result. Locales and bundles
// keep the order in which they were processed.
func Marshal(res bundler.Result) ([]byte, error) {
	top := &yaml.Node{Kind: yaml.MappingNode}
	top.Content = append(top.Content, scalarNode("minify"), boolNode(res.MinifyOn))
	top.Content = append(top.Content, scalarNode("minifierCalls"), intNode(res.MinifierCalls))
	top.Content = append(top.Content, scalarNode("locales"), localesNode(res.Bundles))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

// Write writes the report to path on fsys, creating parent directories.
func Write(fsys afero.Fs, path string, res bundler.Result) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := Marshal(res)
	if err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, b, 0o644)
}

func localesNode(bundles []bundler.BundleResult) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	var cur *yaml.Node
	curLocale := ""
	for _, br := range bundles {
		if cur == nil || br.Locale != curLocale {
			curLocale = br.Locale
			cur = &yaml.Node{Kind: yaml.SequenceNode}
			loc := &yaml.Node{Kind: yaml.MappingNode}
			loc.Content = append(loc.Content, scalarNode("path"), scalarNode(br.Locale))
			loc.Content = append(loc.Content, scalarNode("bundles"), cur)
			seq.Content = append(seq.Content, loc)
		}
		cur.Content = append(cur.Content, bundleNode(br))
	}
	return seq
}

func bundleNode(br bundler.BundleResult) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content, scalarNode("name"), scalarNode(br.Name))
	n.Content = append(n.Content, scalarNode("file"), scalarNode(filepath.ToSlash(br.BundlePath)))
	n.Content = append(n.Content, scalarNode("size"), intNode(br.Size))
	n.Content = append(n.Content, scalarNode("modules"), stringsNode(br.Modules))
	if len(br.Missing) > 0 {
		n.Content = append(n.Content, scalarNode("missing"), stringsNode(br.Missing))
	}
	if br.MinifyErr != "" {
		n.Content = append(n.Content, scalarNode("minifyError"), scalarNode(br.MinifyErr))
	}
	return n
}

func stringsNode(items []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, it := range items {
		n.Content = append(n.Content, scalarNode(it))
	}
	return n
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}
