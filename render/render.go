// Package render paints a set of loaded tiles and a parsed stylesheet
// into a gg.Context, following Bach's two-pass scheme: tile-local
// background, raster, fill and line geometry paint immediately as each
// tile is visited, and symbol-layer labels are laid out and
// collision-tested as their tile is visited, then painted together in a
// single global pass at the end.
package render

import (
	"fmt"
	"sort"

	gg "github.com/bachmap/bach"
	"github.com/bachmap/bach/loader"
	"github.com/bachmap/bach/mvt"
	"github.com/bachmap/bach/style"
	"github.com/bachmap/bach/text"
	"github.com/bachmap/bach/tilecoord"
)

// renderState carries the configuration and shared mutable state (the
// glyph outline extractor, the cross-tile collision set) that every
// drawing helper in this package needs but that would otherwise have to
// be threaded through every call individually.
type renderState struct {
	cfg        paintConfig
	extractor  *text.OutlineExtractor
	collisions *collisionSet
}

// Paint draws every loaded tile in tiles against sheet into ctx, using
// vp and mapZoom to compute each tile's on-screen geometry exactly as
// Bach::paintTiles does. Tiles with no loaded entry (a nil entry or one
// without a payload) still occupy their geometric slot: background
// layers paint it, but no raster, fill, line or symbol layer does; their
// absence is silent, matching the original's "paint what's ready"
// behavior for a cache still warming up.
func Paint(ctx *gg.Context, vp Viewport, mapZoom int, tiles map[tilecoord.Coord]*loader.Entry, sheet *style.StyleSheet, opts ...PaintOption) {
	cfg := defaultPaintConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rs := &renderState{
		cfg:        cfg,
		extractor:  text.NewOutlineExtractor(),
		collisions: &collisionSet{},
	}

	w, h := ctx.Width(), ctx.Height()
	gc := newGeometryCalc(w, h, vp, mapZoom)

	coords := make([]tilecoord.Coord, 0, len(tiles))
	for c := range tiles {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })

	var axisLabels []*axisLabel
	var curvedLabels []*curvedLabel

	for _, c := range coords {
		entry := tiles[c]
		tg := gc.tileGeometry(c)
		paintTile(ctx, sheet, c, entry, tg, mapZoom, vp.Zoom, rs, &axisLabels, &curvedLabels)
	}

	for _, lbl := range axisLabels {
		paintAxisLabel(ctx, rs, lbl)
	}
	for _, lbl := range curvedLabels {
		paintCurvedLabel(ctx, rs, lbl)
	}
}

// paintTile paints one tile's background/raster/fill/line layers
// immediately and queues its symbol-layer labels for the global pass.
func paintTile(ctx *gg.Context, sheet *style.StyleSheet, c tilecoord.Coord, entry *loader.Entry, tg tileGeometry, mapZoom int, vpZoom float64, rs *renderState, axisLabels *[]*axisLabel, curvedLabels *[]*curvedLabel) {
	ctx.Push()
	defer ctx.Pop()

	ctx.Translate(tg.originX, tg.originY)
	// Clip in tile-pixel space, before any per-layer feature-coordinate
	// scale is pushed, since ClipRect transforms its corners by the
	// matrix in effect at call time.
	ctx.ClipRect(0, 0, tg.sizePixels, tg.sizePixels)

	if rs.cfg.debug {
		drawDebugOverlay(ctx, tg, c, rs)
	}

	for _, ls := range sheet.Layers {
		if !ls.VisibleAt(mapZoom) {
			continue
		}

		switch ls.Type {
		case style.Background:
			drawBackground(ctx, ls, tg, mapZoom, vpZoom)

		case style.Raster:
			drawRaster(ctx, ls, entry, tg, mapZoom, vpZoom)

		case style.Fill, style.Line:
			if entry == nil || entry.Vector == nil {
				continue
			}
			layer, ok := entry.Vector.Layer(ls.SourceLayer)
			if !ok {
				continue
			}
			if ls.Type == style.Fill {
				drawFillLayer(ctx, ls, layer, tg, mapZoom, vpZoom)
			} else {
				drawLineLayer(ctx, ls, layer, tg, mapZoom, vpZoom)
			}

		case style.Symbol:
			if entry == nil || entry.Vector == nil {
				continue
			}
			layer, ok := entry.Vector.Layer(ls.SourceLayer)
			if !ok {
				continue
			}
			collectSymbolLabels(ls, layer, tg, mapZoom, vpZoom, rs, axisLabels, curvedLabels)
		}
	}
}

// collectSymbolLabels lays out and collision-tests every feature in a
// symbol layer, queuing the survivors for the global paint pass. Point
// features get axis-aligned labels; line features get curved labels
// that follow the line's own path.
func collectSymbolLabels(ls *style.LayerStyle, layer *mvt.Layer, tg tileGeometry, mapZoom int, vpZoom float64, rs *renderState, axisLabels *[]*axisLabel, curvedLabels *[]*curvedLabel) {
	for i := range layer.Features {
		f := &layer.Features[i]
		if !passesFilter(ls, f, mapZoom, vpZoom) {
			continue
		}

		switch f.Type {
		case mvt.PointFeature:
			if lbl, ok := layoutAxisLabel(f, ls, tg, mapZoom, vpZoom, rs); ok {
				*axisLabels = append(*axisLabels, lbl)
			}
		case mvt.Line:
			if lbl, ok := layoutCurvedLabel(f, ls, tg, mapZoom, vpZoom, rs); ok {
				*curvedLabels = append(*curvedLabels, lbl)
			}
		}
	}
}

// drawDebugOverlay paints a tile's border, a center crosshair, and its
// z/x/y coordinate label, the same quick visual tile grid the original
// debug build overlays on top of the map.
func drawDebugOverlay(ctx *gg.Context, tg tileGeometry, c tilecoord.Coord, rs *renderState) {
	ctx.Push()
	defer ctx.Pop()

	ctx.SetStrokeBrush(gg.Solid(gg.RGB(0, 0.8, 0)))
	ctx.SetLineWidth(1)
	ctx.MoveTo(0, 0)
	ctx.LineTo(tg.sizePixels, 0)
	ctx.LineTo(tg.sizePixels, tg.sizePixels)
	ctx.LineTo(0, tg.sizePixels)
	ctx.ClosePath()
	ctx.Stroke()

	cx, cy := tg.sizePixels/2, tg.sizePixels/2
	ctx.MoveTo(cx-5, cy)
	ctx.LineTo(cx+5, cy)
	ctx.MoveTo(cx, cy-5)
	ctx.LineTo(cx, cy+5)
	ctx.Stroke()

	rs.drawPlainText(ctx, fmt.Sprintf("%d/%d/%d", c.Z, c.X, c.Y), 4, 12, gg.RGB(0, 0.8, 0))
}
