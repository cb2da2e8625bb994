package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/afero"
)

// compileCUE loads and compiles a CUE file at the given path on fsys.
func compileCUE(fsys afero.Fs, path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func requireStringField(v cue.Value, name string) (string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return "", fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	var s string
	if err := f.Decode(&s); err != nil {
		return "", fmt.Errorf("invalid value for %s: %v", name, err)
	}
	return s, nil
}

func optionalStringField(v cue.Value, name string) (string, bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", false, nil
	}
	s, err := requireStringField(v, name)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}
