package loader

import (
	"runtime"
	"time"
)

// config holds the resolved settings for a Loader, built by applying
// functional Options over sane defaults — the same pattern the root
// package's ContextOption uses for Context construction.
type config struct {
	pbfURLTemplate string
	pngURLTemplate string
	cacheDir       string
	useWeb         bool
	loadRaster     bool
	workerThreads  int
	networkTimeout time.Duration
	maxZoom        int
	source         source
}

func defaultConfig() config {
	return config{
		workerThreads:  runtime.GOMAXPROCS(0),
		networkTimeout: 30 * time.Second,
		maxZoom:        16,
	}
}

// Option configures a Loader during construction.
type Option func(*config)

// WithCacheDir sets the disk cache root. Required for any construction
// variant that touches disk (all of them, except a Dummy loader built
// with an empty cachePath, which then degrades to memory-only).
func WithCacheDir(dir string) Option {
	return func(c *config) { c.cacheDir = dir }
}

// WithWorkerThreads overrides the worker pool size. Zero or negative
// values fall back to the host CPU count.
func WithWorkerThreads(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workerThreads = n
		}
	}
}

// WithNetworkTimeout overrides the per-fetch network timeout.
func WithNetworkTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.networkTimeout = d
		}
	}
}

// WithMaxZoom records the highest tile zoom in the loader's
// configuration. RequestTiles does not check requested coordinates
// against it; coordinates are limited only by tilecoord.MaxZoom.
func WithMaxZoom(z int) Option {
	return func(c *config) {
		if z > 0 {
			c.maxZoom = z
		}
	}
}

// WithLoadRaster forces the raster pipeline on or off, overriding the
// default inferred from the stylesheet's layer types (see deriveLoadRaster).
func WithLoadRaster(on bool) Option {
	return func(c *config) { c.loadRaster = on }
}
