package config

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// parseYAML reads bundles from YAML or JSON. The node API is used instead of
// map decoding so that module order is preserved.
func parseYAML(fsys afero.Fs, path string) (Bundling, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Bundling{}, fmt.Errorf("failed to read config: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Bundling{}, fmt.Errorf("invalid config: %v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return Bundling{}, fmt.Errorf("invalid config: empty document")
	}
	root := doc.Content[0]
	var b Bundling
	list := root
	if root.Kind == yaml.MappingNode {
		if n := mappingValue(root, "configVersion"); n != nil {
			if b.ConfigVersion, err = scalarString(n, "configVersion"); err != nil {
				return Bundling{}, err
			}
		}
		if pm := mappingValue(root, "pathMap"); pm != nil {
			if n := mappingValue(pm, "inline"); n != nil {
				if b.PathMap.Inline, err = scalarString(n, "pathMap.inline"); err != nil {
					return Bundling{}, err
				}
				b.PathMap.HasInline = true
			}
		}
		list = mappingValue(root, "bundles")
		if list == nil {
			return Bundling{}, fmt.Errorf("missing required field: bundles")
		}
	}
	if list.Kind != yaml.SequenceNode {
		return Bundling{}, fmt.Errorf("invalid type for field: bundles (expected list)")
	}
	for i, item := range list.Content {
		spec, err := parseYAMLBundle(item)
		if err != nil {
			return Bundling{}, fmt.Errorf("bundles[%d]: %w", i, err)
		}
		b.Bundles = append(b.Bundles, spec)
	}
	return b, nil
}

func parseYAMLBundle(n *yaml.Node) (BundleSpec, error) {
	if n.Kind != yaml.MappingNode {
		return BundleSpec{}, fmt.Errorf("invalid type: expected mapping")
	}
	var spec BundleSpec
	nameNode := mappingValue(n, "name")
	if nameNode == nil {
		return BundleSpec{}, fmt.Errorf("missing required field: name")
	}
	name, err := scalarString(nameNode, "name")
	if err != nil {
		return BundleSpec{}, err
	}
	spec.Name = name
	mods := mappingValue(n, "modules")
	if mods == nil {
		return spec, nil
	}
	if mods.Kind != yaml.MappingNode {
		return BundleSpec{}, fmt.Errorf("invalid type for field: modules (expected mapping)")
	}
	for i := 0; i+1 < len(mods.Content); i += 2 {
		key, val := mods.Content[i], mods.Content[i+1]
		src, err := scalarString(val, "modules."+key.Value)
		if err != nil {
			return BundleSpec{}, err
		}
		spec.Modules = append(spec.Modules, ModuleEntry{Name: key.Value, Source: src})
	}
	return spec, nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func scalarString(n *yaml.Node, field string) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("invalid type for field: %s (expected string)", field)
	}
	return n.Value, nil
}
