package bundler

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/flarebyte/magepack/internal/amd"
)

// write replaces the bundle file and its loader configuration.
func (r *run) write(br BundleResult, text string) error {
	r.logger.Debug("Writing bundle and configuration", "bundle", br.Name)
	if err := writeFile(r.fs, br.BundlePath, []byte(text)); err != nil {
		return err
	}
	cfg := amd.LoaderConfig(br.Name, br.Modules)
	return writeFile(r.fs, br.ConfigPath, []byte(cfg))
}

func writeFile(fsys afero.Fs, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
