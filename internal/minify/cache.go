package minify

import (
	"context"

	"github.com/cespare/xxhash/v2"
)

type entry struct {
	src  string
	code string
	err  error
}

// Cache memoizes a Minifier by the content of its input. Identical input is
// minified at most once, failures included, for the lifetime of the Cache.
//
// Keys are 64-bit xxhash digests. Each entry keeps its input so that a
// digest collision between different texts is detected and treated as a
// miss instead of returning another bundle's output.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	m       Minifier
	entries map[uint64]entry
	calls   int
}

// NewCache returns an empty cache in front of m.
func NewCache(m Minifier) *Cache {
	return &Cache{m: m, entries: map[uint64]entry{}}
}

// Minify returns the minified form of src and whether it came from the cache.
// A cached failure is returned again with its original error.
func (c *Cache) Minify(ctx context.Context, src string) (code string, hit bool, err error) {
	key := xxhash.Sum64String(src)
	if e, ok := c.entries[key]; ok && e.src == src {
		return e.code, true, e.err
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	c.calls++
	code, err = c.m.Minify(ctx, src)
	if err != nil {
		code = ""
	}
	c.entries[key] = entry{src: src, code: code, err: err}
	return code, false, err
}

// Calls reports how many times the underlying Minifier ran.
func (c *Cache) Calls() int { return c.calls }

// Len reports the number of distinct inputs seen.
func (c *Cache) Len() int { return len(c.entries) }
