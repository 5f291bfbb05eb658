package loader

import (
	"sync/atomic"

	"github.com/bachmap/bach/tilecoord"
)

// OnReady is invoked once per (coord, type) the handle subscribed to,
// after that tile's cache entry reaches a terminal state.
type OnReady func(tilecoord.Coord)

// Handle is the opaque token returned by RequestTiles. Dropping it (by
// letting it go out of scope, or calling Release explicitly) silences
// any callback it carries; the underlying load is never aborted, since
// its result still populates the shared cache for other subscribers.
//
// Release is safe to call from any goroutine, any number of times.
type Handle struct {
	onReady  OnReady
	silenced atomic.Bool
}

func newHandle(onReady OnReady) *Handle {
	return &Handle{onReady: onReady}
}

// Release silences this handle's callback. It does not cancel in-flight
// work; results already requested still land in the cache.
func (h *Handle) Release() {
	h.silenced.Store(true)
}

func (h *Handle) fire(c tilecoord.Coord) {
	if h == nil || h.onReady == nil || h.silenced.Load() {
		return
	}
	h.onReady(c)
}
