// Package loader implements the three-tier (memory, disk, network) tile
// cache and dispatch subsystem: deduplicating concurrent requests for the
// same tile, arbitrating between storage tiers, and notifying callers
// when a tile becomes ready.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	gg "github.com/bachmap/bach"
	"github.com/bachmap/bach/internal/parallel"
	"github.com/bachmap/bach/mvt"
	"github.com/bachmap/bach/style"
	"github.com/bachmap/bach/tileerr"
	"github.com/bachmap/bach/tilecoord"
	"golang.org/x/sync/singleflight"
)

// Loader is the tile acquisition, caching, and dispatch subsystem. It is
// safe for concurrent use from any number of goroutines.
type Loader struct {
	cfg config

	mu      sync.Mutex
	entries map[string]*Entry

	sf   singleflight.Group
	pool *parallel.WorkerPool
}

// NewWebLoader builds a loader that consults memory, then disk, then the
// network. style is used only to infer whether the raster pipeline should
// run by default (see deriveLoadRaster); the loader does not otherwise
// depend on it.
func NewWebLoader(pbfTemplate, pngTemplate string, sheet *style.StyleSheet, opts ...Option) (*Loader, error) {
	cfg := defaultConfig()
	cfg.pbfURLTemplate = pbfTemplate
	cfg.pngURLTemplate = pngTemplate
	cfg.useWeb = true
	cfg.loadRaster = deriveLoadRaster(sheet)
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.source = newHTTPSource(pbfTemplate, pngTemplate, cfg.networkTimeout)
	return newLoader(cfg), nil
}

// NewLocalLoader builds a loader that consults memory then disk and never
// contacts the network. Useful for offline runs and tests.
func NewLocalLoader(sheet *style.StyleSheet, opts ...Option) (*Loader, error) {
	cfg := defaultConfig()
	cfg.useWeb = false
	cfg.loadRaster = deriveLoadRaster(sheet)
	for _, opt := range opts {
		opt(&cfg)
	}
	return newLoader(cfg), nil
}

// NewDummyLoader builds a loader like NewLocalLoader but with an
// injectable byte source indexed by (coord, type) in place of the
// network, for deterministic tests.
func NewDummyLoader(cachePath string, override OverrideFunc, loadRaster bool, workerThreads int) (*Loader, error) {
	cfg := defaultConfig()
	cfg.cacheDir = cachePath
	cfg.loadRaster = loadRaster
	if workerThreads > 0 {
		cfg.workerThreads = workerThreads
	}
	if override != nil {
		cfg.useWeb = true
		cfg.source = funcSource{fn: override}
	}
	return newLoader(cfg), nil
}

func newLoader(cfg config) *Loader {
	return &Loader{
		cfg:     cfg,
		entries: make(map[string]*Entry),
		pool:    parallel.NewWorkerPool(cfg.workerThreads),
	}
}

// deriveLoadRaster inspects a stylesheet for any raster-typed layer,
// defaulting the raster pipeline on only when the style actually needs
// it. A nil sheet (e.g. a headless test harness) defaults it off.
func deriveLoadRaster(sheet *style.StyleSheet) bool {
	if sheet == nil {
		return false
	}
	for _, l := range sheet.Layers {
		if l.Type == style.Raster {
			return true
		}
	}
	return false
}

// Close shuts down the loader's worker pool, waiting for queued jobs to
// finish. It does not clear the memory cache.
func (l *Loader) Close() {
	l.pool.Close()
}

// RequestTiles returns synchronously with a snapshot of whichever
// requested tiles are currently in the Ok state. For tiles not yet Ok,
// if loadMissing is true and onReady is non-nil, a load is dispatched (or
// joined, if one is already in flight) and onReady fires once that tile
// reaches a terminal state — unless the returned Handle has since been
// released.
func (l *Loader) RequestTiles(requested []tilecoord.Coord, typ tilecoord.TileType, onReady OnReady, loadMissing bool) (*Handle, map[tilecoord.Coord]*Entry) {
	handle := newHandle(onReady)
	snapshot := make(map[tilecoord.Coord]*Entry)

	l.mu.Lock()
	for _, c := range requested {
		if e, ok := l.entries[c.Key(typ)]; ok && e.State == Ok {
			snapshot[c] = e
		}
	}
	l.mu.Unlock()

	if !loadMissing || onReady == nil {
		return handle, snapshot
	}
	for _, c := range requested {
		if _, ok := snapshot[c]; ok {
			continue
		}
		l.dispatch(c, typ, handle)
	}
	return handle, snapshot
}

// dispatch ensures a Pending entry exists for (c, typ), then joins (or
// starts) the single-flight call that actually performs the load. Every
// caller — the first and any that join a load already in flight —
// receives its own notification once the shared result lands.
func (l *Loader) dispatch(c tilecoord.Coord, typ tilecoord.TileType, handle *Handle) {
	key := c.Key(typ)

	l.mu.Lock()
	existing, exists := l.entries[key]
	if !exists || existing.State == UnknownError {
		// UnknownError is the one terminal state a re-request retries:
		// it is replaced by a fresh Pending entry and loaded again.
		l.entries[key] = &Entry{State: Pending}
		exists = false
	}
	l.mu.Unlock()

	// Any other terminal, non-Ok entry (ParsingFailed, Cancelled) is
	// immutable until explicit eviction: notify the caller of the
	// outcome that already happened, but do not re-run the load.
	if exists && existing.State != Pending {
		handle.fire(c)
		return
	}

	ch := l.sf.DoChan(key, func() (any, error) {
		done := make(chan *Entry, 1)
		l.pool.Submit(func() {
			done <- l.runJob(c, typ)
		})
		return <-done, nil
	})

	go func() {
		res := <-ch
		entry, _ := res.Val.(*Entry)
		if entry == nil {
			entry = &Entry{State: UnknownError}
		}
		l.mu.Lock()
		l.entries[key] = entry
		l.mu.Unlock()
		handle.fire(c)
	}()
}

// runJob executes the load pipeline for one tile: memory (re-checked for
// the race between dispatch and this goroutine actually running),
// then disk, then network. It never touches l.entries directly; the
// caller publishes its return value under the cache mutex.
func (l *Loader) runJob(c tilecoord.Coord, typ tilecoord.TileType) *Entry {
	key := c.Key(typ)

	l.mu.Lock()
	if e, ok := l.entries[key]; ok && e.State == Ok {
		l.mu.Unlock()
		return e
	}
	l.mu.Unlock()

	if data, err := l.readDisk(c, typ); err == nil {
		entry, decErr := decodeEntry(typ, data)
		if decErr != nil {
			gg.Logger().Warn("tile bytes on disk failed to decode", slog.String("tile", c.String()), slog.Any("err", decErr))
			return &Entry{State: ParsingFailed}
		}
		return entry
	}

	if !l.cfg.useWeb || l.cfg.source == nil {
		return &Entry{State: UnknownError}
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.cfg.networkTimeout)
	defer cancel()
	data, err := l.cfg.source.fetch(ctx, c, typ)
	if err != nil {
		gg.Logger().Debug("tile fetch failed", slog.String("tile", c.String()), slog.Any("err", err))
		return &Entry{State: UnknownError}
	}

	entry, decErr := decodeEntry(typ, data)
	if decErr != nil {
		gg.Logger().Warn("fetched tile bytes failed to decode", slog.String("tile", c.String()), slog.Any("err", decErr))
		return &Entry{State: ParsingFailed}
	}

	if err := l.writeDiskBestEffort(c, typ, data); err != nil {
		gg.Logger().Warn("tile disk write-through failed", slog.String("tile", c.String()), slog.Any("err", err))
	}
	return entry
}

func decodeEntry(typ tilecoord.TileType, data []byte) (*Entry, error) {
	if typ == tilecoord.Raster {
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: empty raster payload", tileerr.ErrParsingFailed)
		}
		return &Entry{State: Ok, Raster: data}, nil
	}
	tile, err := mvt.Decode(data)
	if err != nil {
		return nil, err
	}
	return &Entry{State: Ok, Vector: tile}, nil
}
