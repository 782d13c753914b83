// Package imagecache keeps recently viewed studio images in memory so the
// detail screen does not re-download them on every visit.
package imagecache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gravitrone/studio-cli/internal/api"
)

// DefaultSize is the number of images kept when no size is configured.
const DefaultSize = 64

// Fetcher downloads a studio image.
type Fetcher interface {
	FetchStudioImage(ctx context.Context, id string, bypassCache bool) (*api.Image, error)
}

// Cache is an LRU of studio id to image. It is safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	entries *lru.Cache[string, *api.Image]
}

// New creates a cache holding up to size images.
func New(fetcher Fetcher, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, *api.Image](size)
	if err != nil {
		return nil, fmt.Errorf("create image cache: %w", err)
	}
	return &Cache{fetcher: fetcher, entries: entries}, nil
}

// Get returns the cached image, downloading it on a miss.
func (c *Cache) Get(ctx context.Context, id string) (*api.Image, error) {
	if img, ok := c.entries.Get(id); ok {
		return img, nil
	}
	return c.fetch(ctx, id, false)
}

// Refresh drops the cached copy and downloads the image again, asking the
// server side to skip its caches too.
func (c *Cache) Refresh(ctx context.Context, id string) error {
	c.entries.Remove(id)
	_, err := c.fetch(ctx, id, true)
	return err
}

// Peek returns the cached image without touching recency or the network.
func (c *Cache) Peek(id string) (*api.Image, bool) {
	return c.entries.Peek(id)
}

// Forget drops an entry, e.g. after the studio was deleted.
func (c *Cache) Forget(id string) {
	c.entries.Remove(id)
}

func (c *Cache) fetch(ctx context.Context, id string, bypass bool) (*api.Image, error) {
	img, err := c.fetcher.FetchStudioImage(ctx, id, bypass)
	if err != nil {
		return nil, fmt.Errorf("fetch studio %s image: %w", id, err)
	}
	c.entries.Add(id, img)
	return img, nil
}

// Describe renders a one-line summary like "image/png 640x480, 12 kB".
func Describe(img *api.Image) string {
	if img == nil || len(img.Data) == 0 {
		return "no image"
	}
	size := humanize.Bytes(uint64(len(img.Data)))
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Sprintf("%s, %s", img.ContentType, size)
	}
	return fmt.Sprintf("%s %dx%d, %s", img.ContentType, cfg.Width, cfg.Height, size)
}
