// Package tileerr collects the sentinel error values shared across the
// tile coordinate, decoding, stylesheet, and loading packages.
package tileerr

import "errors"

var (
	// ErrInvalidCoord is returned when a TileCoord is constructed or used
	// with out-of-range z, x, or y values.
	ErrInvalidCoord = errors.New("tileerr: invalid tile coordinate")

	// ErrBadStylesheet is returned when a stylesheet document uses an
	// unknown operator or layer type, or omits a required field.
	ErrBadStylesheet = errors.New("tileerr: malformed stylesheet")

	// ErrParsingFailed is returned when tile bytes cannot be decoded.
	ErrParsingFailed = errors.New("tileerr: tile bytes undecodable")

	// ErrNetwork wraps a network-level failure (status code, TLS, timeout).
	ErrNetwork = errors.New("tileerr: network error")

	// ErrDisk wraps a disk read/write failure on the tile cache.
	ErrDisk = errors.New("tileerr: disk cache error")
)
