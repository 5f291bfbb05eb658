// Package render draws the tiles a Loader has made available into a
// gg.Context: one tile-local pass per visible tile (background, fill,
// line, raster) that also lays out and collision-tests that tile's point
// and line labels against one shared collision set, followed by a
// viewport-global pass that paints the accepted labels, so that overlap
// is resolved across tile boundaries rather than per tile.
package render

import "github.com/bachmap/bach/text"

// Viewport is the camera state a Paint call renders: a normalized world
// center and a continuous zoom level. It mirrors the (vpX, vpY, vpZoom)
// triple the original viewport/tile-selection math takes.
type Viewport struct {
	X, Y, Zoom float64
}

// paintConfig holds the resolved settings for one Paint call, built by
// applying functional Options over sane defaults — the same pattern
// loader.config and gg's own ContextOption use.
type paintConfig struct {
	face            text.Face
	debug           bool
	maxTextWidthEms float64
}

func defaultPaintConfig() paintConfig {
	return paintConfig{maxTextWidthEms: 10}
}

// PaintOption configures a Paint call.
type PaintOption func(*paintConfig)

// WithFace sets the font used for symbol-layer labels and the debug
// overlay. A Paint call with no face set silently skips label layout and
// the debug overlay's coordinate label, since there is no glyph source to
// draw.
func WithFace(f text.Face) PaintOption {
	return func(c *paintConfig) { c.face = f }
}

// WithDebugOverlay enables a per-tile border, crosshair, and coordinate
// label, disabled by default. Useful when diagnosing tile placement.
func WithDebugOverlay(on bool) PaintOption {
	return func(c *paintConfig) { c.debug = on }
}

// WithMaxTextWidthEms overrides the default line-wrap width (in ems)
// used when a layer style's own text-max-width layout property is unset.
func WithMaxTextWidthEms(ems float64) PaintOption {
	return func(c *paintConfig) {
		if ems > 0 {
			c.maxTextWidthEms = ems
		}
	}
}
