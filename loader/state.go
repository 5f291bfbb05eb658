package loader

import "github.com/bachmap/bach/mvt"

// State is the terminal-or-in-flight status of one cache entry, per the
// monotone state machine Pending -> {Ok | ParsingFailed | Cancelled |
// UnknownError}. Once an entry reaches a terminal state it is immutable
// until explicit eviction (this module never evicts); the exception is
// UnknownError, which a later RequestTiles call replaces with a new
// Pending entry and loads again.
type State int

const (
	// Pending means a load is in flight; the entry carries no payload yet.
	Pending State = iota

	// Ok means the payload decoded successfully and is ready to use.
	Ok

	// ParsingFailed means bytes were retrieved but could not be decoded.
	// The caller should treat the tile as absent and not retry automatically.
	ParsingFailed

	// Cancelled marks a subscription silenced before the entry's job
	// completed. It is reserved for completeness of the enum; nothing in
	// the public API currently transitions a cache entry itself into
	// this state (dropping a RequestHandle silences only that handle's
	// callback, never the underlying cache entry — see Handle).
	Cancelled

	// UnknownError means the network or disk path produced no bytes at
	// all. Manual re-request is valid.
	UnknownError
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ok:
		return "ok"
	case ParsingFailed:
		return "parsing-failed"
	case Cancelled:
		return "cancelled"
	case UnknownError:
		return "unknown-error"
	default:
		return "invalid"
	}
}

// Entry is one cache slot, keyed by (TileCoord, TileType). Payload is
// populated only when State == Ok, and holds exactly one of Vector or
// Raster depending on which construction path created it.
type Entry struct {
	State  State
	Vector *mvt.Tile
	Raster []byte // opaque PNG bytes; decoding is the renderer's concern
}
