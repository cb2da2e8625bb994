package bundler

import "github.com/spf13/afero"

// readCache keeps module file contents by resolved path for one run. The
// key is the locale-scoped path, so equal module names from different
// locales never share an entry.
type readCache struct {
	fs      afero.Fs
	entries map[string]string
	reads   int
}

func newReadCache(fsys afero.Fs) *readCache {
	return &readCache{fs: fsys, entries: map[string]string{}}
}

func (c *readCache) read(path string) (string, error) {
	if s, ok := c.entries[path]; ok {
		return s, nil
	}
	b, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return "", err
	}
	c.reads++
	s := string(b)
	c.entries[path] = s
	return s, nil
}
