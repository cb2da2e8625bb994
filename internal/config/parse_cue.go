package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"github.com/spf13/afero"
)

// parseCUE reads bundles from a CUE file. The file is either a struct with a
// `bundles` list or a bare list of bundles. Module order follows the order
// in which fields are declared.
func parseCUE(fsys afero.Fs, path string) (Bundling, error) {
	v, err := compileCUE(fsys, path)
	if err != nil {
		return Bundling{}, err
	}
	var b Bundling
	list := v
	if v.Kind() != cue.ListKind {
		if b.ConfigVersion, _, err = optionalStringField(v, "configVersion"); err != nil {
			return Bundling{}, err
		}
		pm := v.LookupPath(cue.ParsePath("pathMap"))
		if pm.Exists() {
			if b.PathMap.Inline, b.PathMap.HasInline, err = optionalStringField(pm, "inline"); err != nil {
				return Bundling{}, fmt.Errorf("pathMap: %w", err)
			}
		}
		list = v.LookupPath(cue.ParsePath("bundles"))
		if !list.Exists() {
			return Bundling{}, fmt.Errorf("missing required field: bundles")
		}
	}
	if list.Kind() != cue.ListKind {
		return Bundling{}, fmt.Errorf("invalid type for field: bundles (expected list)")
	}
	iter, err := list.List()
	if err != nil {
		return Bundling{}, fmt.Errorf("invalid value for bundles: %v", err)
	}
	for i := 0; iter.Next(); i++ {
		spec, err := parseCUEBundle(iter.Value())
		if err != nil {
			return Bundling{}, fmt.Errorf("bundles[%d]: %w", i, err)
		}
		b.Bundles = append(b.Bundles, spec)
	}
	return b, nil
}

func parseCUEBundle(v cue.Value) (BundleSpec, error) {
	var spec BundleSpec
	name, err := requireStringField(v, "name")
	if err != nil {
		return BundleSpec{}, err
	}
	spec.Name = name
	mv := v.LookupPath(cue.ParsePath("modules"))
	if !mv.Exists() {
		return spec, nil
	}
	if mv.Kind() != cue.StructKind {
		return BundleSpec{}, fmt.Errorf("invalid type for field: modules (expected struct)")
	}
	it, err := mv.Fields()
	if err != nil {
		return BundleSpec{}, fmt.Errorf("invalid value for modules: %v", err)
	}
	for it.Next() {
		label := it.Selector().Unquoted()
		var src string
		if err := it.Value().Decode(&src); err != nil {
			return BundleSpec{}, fmt.Errorf("modules.%s: expected string source: %v", label, err)
		}
		spec.Modules = append(spec.Modules, ModuleEntry{Name: label, Source: src})
	}
	return spec, nil
}
