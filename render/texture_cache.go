package render

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// TextureLoader performs the expensive backend load.
type TextureLoader interface {
	LoadTexture(path string) (Texture, error)
}

// TextureLoadError reports a failed backend load. It is recoverable: the
// affected sprites are skipped.
type TextureLoadError struct {
	Path string
	Err  error
}

func (e *TextureLoadError) Error() string {
	return fmt.Sprintf("render: load texture %q: %v", e.Path, e.Err)
}

func (e *TextureLoadError) Unwrap() error {
	return e.Err
}

// TextureCache maps resource paths to backend textures. Each path is loaded
// at most once for the lifetime of the cache; failed paths are remembered and
// not retried until ClearFailures.
type TextureCache struct {
	loader  TextureLoader
	log     *zap.Logger
	entries map[string]Texture
	failed  map[string]error
	pending []string
	loads   int
}

// NewTextureCache creates a cache backed by loader.
func NewTextureCache(loader TextureLoader, log *zap.Logger) *TextureCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &TextureCache{
		loader:  loader,
		log:     log,
		entries: make(map[string]Texture),
		failed:  make(map[string]error),
	}
}

// RequestLoad queues path for the next ResolvePending.
func (c *TextureCache) RequestLoad(path string) {
	c.pending = append(c.pending, path)
}

// Pending returns the queued paths.
func (c *TextureCache) Pending() []string {
	return append([]string(nil), c.pending...)
}

// ResolvePending resolves and clears the pending queue. Failures are logged
// and returned; they never abort the remaining loads.
func (c *TextureCache) ResolvePending() []error {
	if len(c.pending) == 0 {
		return nil
	}
	pending := c.pending
	c.pending = nil

	var errs []error
	for _, path := range pending {
		if _, err := c.Resolve(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Resolve returns the cached texture for path, loading it on first use.
func (c *TextureCache) Resolve(path string) (Texture, error) {
	if tex, ok := c.entries[path]; ok {
		return tex, nil
	}
	if err, ok := c.failed[path]; ok {
		return nil, err
	}
	if c.loader == nil {
		return nil, &TextureLoadError{Path: path, Err: errors.New("no texture loader")}
	}

	c.loads++
	tex, err := c.loader.LoadTexture(path)
	if err == nil && tex == nil {
		err = errors.New("loader returned no texture")
	}
	if err != nil {
		loadErr := &TextureLoadError{Path: path, Err: err}
		c.failed[path] = loadErr
		c.log.Warn("texture load failed", zap.String("path", path), zap.Error(err))
		return nil, loadErr
	}
	c.entries[path] = tex
	c.log.Debug("texture loaded", zap.String("path", path))
	return tex, nil
}

// Lookup returns a cached texture without loading.
func (c *TextureCache) Lookup(path string) (Texture, bool) {
	if c == nil {
		return nil, false
	}
	tex, ok := c.entries[path]
	return tex, ok
}

// ClearFailures forgets failed loads so they are attempted again.
func (c *TextureCache) ClearFailures() {
	clear(c.failed)
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int {
	return len(c.entries)
}

// Loads returns how many backend loads have been issued.
func (c *TextureCache) Loads() int {
	return c.loads
}
