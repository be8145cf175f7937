package raster

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/inkfold/imposer/pkg/cache"
	"github.com/inkfold/imposer/pkg/observability"
)

// Cached wraps a Rasterizer with a tile cache keyed by the source
// document's content digest and DPI. On a hit the stored pages are
// materialized into a private directory and the inner rasterizer is
// never invoked; on a miss the rendered tiles are stored for next time.
// Cache failures degrade to rendering, never to job failure.
type Cached struct {
	inner Rasterizer
	cache cache.Cache
	dir   string
}

// NewCached wraps inner with the given cache.
func NewCached(inner Rasterizer, c cache.Cache) (*Cached, error) {
	dir, err := os.MkdirTemp("", "imposer-cached-")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	return &Cached{inner: inner, cache: c, dir: dir}, nil
}

// tileManifest is the cache entry format: every rendered page with its
// pixel dimensions.
type tileManifest struct {
	Pages []tilePage `json:"pages"`
}

type tilePage struct {
	PNG    []byte `json:"png"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Rasterize returns cached tiles when available and delegates to the
// inner rasterizer otherwise.
func (c *Cached) Rasterize(ctx context.Context, path string, dpi int) ([]Tile, error) {
	digest, err := cache.HashFile(path)
	if err != nil {
		// Unreadable source: let the inner rasterizer produce the error.
		return c.inner.Rasterize(ctx, path, dpi)
	}
	key := cache.TileKey(digest, dpi)

	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		tiles, err := c.materialize(data, digest)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "tiles")
			return tiles, nil
		}
		// Corrupt entry: drop it and fall through to rendering.
		_ = c.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "tiles")

	tiles, err := c.inner.Rasterize(ctx, path, dpi)
	if err != nil {
		return nil, err
	}

	if data, err := c.manifest(tiles); err == nil {
		if err := c.cache.Set(ctx, key, data, cache.DefaultTileTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "tiles", len(data))
		}
	}
	return tiles, nil
}

// materialize writes a cached manifest's pages to disk as tiles.
func (c *Cached) materialize(data []byte, digest string) ([]Tile, error) {
	var m tileManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Pages) == 0 {
		return nil, fmt.Errorf("empty tile manifest")
	}

	tiles := make([]Tile, 0, len(m.Pages))
	for i, p := range m.Pages {
		path := filepath.Join(c.dir, fmt.Sprintf("%s-%03d.png", digest[:12], i+1))
		if err := os.WriteFile(path, p.PNG, 0644); err != nil {
			return nil, err
		}
		tiles = append(tiles, Tile{Path: path, WidthPx: p.Width, HeightPx: p.Height})
	}
	return tiles, nil
}

// manifest packs rendered tiles into a cache entry.
func (c *Cached) manifest(tiles []Tile) ([]byte, error) {
	m := tileManifest{Pages: make([]tilePage, 0, len(tiles))}
	for _, t := range tiles {
		png, err := os.ReadFile(t.Path)
		if err != nil {
			return nil, err
		}
		m.Pages = append(m.Pages, tilePage{PNG: png, Width: t.WidthPx, Height: t.HeightPx})
	}
	return json.Marshal(m)
}

// Close releases the materialization directory and the inner rasterizer.
func (c *Cached) Close() error {
	err := c.inner.Close()
	if c.dir != "" {
		if rmErr := os.RemoveAll(c.dir); err == nil {
			err = rmErr
		}
		c.dir = ""
	}
	return err
}

// Ensure Cached implements Rasterizer.
var _ Rasterizer = (*Cached)(nil)
