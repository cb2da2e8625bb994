package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ModuleEntry is one module of a bundle: the logical name the loader asks
// for and the source descriptor used to locate its file.
type ModuleEntry struct {
	Name   string `json:"name" yaml:"name"`
	Source string `json:"source" yaml:"source"`
}

// BundleSpec names a bundle and lists its modules in concatenation order.
type BundleSpec struct {
	Name    string        `json:"name" yaml:"name"`
	Modules []ModuleEntry `json:"modules" yaml:"modules"`
}

// ModuleNames returns the declared module names in order.
func (b BundleSpec) ModuleNames() []string {
	out := make([]string, 0, len(b.Modules))
	for _, m := range b.Modules {
		out = append(out, m.Name)
	}
	return out
}

// PathMap holds the optional Lua hook rewriting module paths.
type PathMap struct {
	Inline    string
	HasInline bool
}

// Bundling is the parsed bundling configuration.
type Bundling struct {
	ConfigVersion string
	Bundles       []BundleSpec
	PathMap       PathMap
}

// LoadBundling reads a bundling configuration from fsys. The format follows
// the file extension: .cue, or .yaml/.yml/.json.
func LoadBundling(fsys afero.Fs, path string) (Bundling, error) {
	var (
		b   Bundling
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		b, err = parseCUE(fsys, path)
	case ".yaml", ".yml", ".json":
		b, err = parseYAML(fsys, path)
	default:
		return Bundling{}, errors.New("unsupported config format: expected .cue, .yaml, .yml or .json")
	}
	if err != nil {
		return Bundling{}, err
	}
	if err := validateBundling(b); err != nil {
		return Bundling{}, err
	}
	return b, nil
}

func validateBundling(b Bundling) error {
	if b.ConfigVersion != "" && !IsSupportedConfigVersion(b.ConfigVersion) {
		return unsupportedVersionError(b.ConfigVersion)
	}
	seen := map[string]bool{}
	for i, bundle := range b.Bundles {
		if bundle.Name == "" {
			return fmt.Errorf("bundles[%d]: missing required field: name", i)
		}
		if seen[bundle.Name] {
			return fmt.Errorf("bundles[%d]: duplicate bundle name: %s", i, bundle.Name)
		}
		seen[bundle.Name] = true
		names := map[string]bool{}
		for _, m := range bundle.Modules {
			if names[m.Name] {
				return fmt.Errorf("bundle %s: duplicate module: %s", bundle.Name, m.Name)
			}
			names[m.Name] = true
		}
	}
	return nil
}
