package render

import (
	gg "github.com/bachmap/bach"
	"github.com/bachmap/bach/mvt"
	"github.com/bachmap/bach/style"
	"github.com/bachmap/bach/text"
)

// pointFeatureCoordIndex resolves the open question of which coordinate
// to anchor a point label on when a point feature carries more than one
// point: index 1, per _examples/original_source/lib/Rendering_Text.cpp's
// processSingleTileFeature_Point. A single-point feature always uses
// index 0.
const pointFeatureCoordIndex = 1

// axisLabel is a laid-out, collision-accepted point label queued for
// the global paint pass.
type axisLabel struct {
	tileOriginX, tileOriginY float64
	lines                    []string
	x, y                     float64
	letterSpacing            float64
	face                     text.Face
	color                    gg.RGBA
	haloWidth                float64
	haloColor                gg.RGBA
}

func anchorPoint(f *mvt.Feature) (mvt.Point, bool) {
	if len(f.Points) == 0 {
		return mvt.Point{}, false
	}
	idx := 0
	if len(f.Points) > 1 && pointFeatureCoordIndex < len(f.Points) {
		idx = pointFeatureCoordIndex
	}
	return f.Points[idx], true
}

// runWidth is the on-screen width of one line of text with letter
// spacing applied to every non-space rune, per
// Bach::calctotalTextHorizontalAdvance.
func runWidth(face text.Face, line string, letterSpacing float64) float64 {
	w := face.Advance(line)
	if letterSpacing == 0 {
		return w
	}
	for _, r := range line {
		if r != ' ' {
			w += letterSpacing
		}
	}
	return w
}

// layoutAxisLabel resolves and collision-tests a point feature's label,
// mirroring Bach::processSingleTileFeature_Point. It returns ok=false
// when the label has no content, falls outside the tile, or loses the
// collision test against every label placed so far.
func layoutAxisLabel(f *mvt.Feature, ls *style.LayerStyle, tg tileGeometry, mapZoom int, vpZoom float64, rs *renderState) (*axisLabel, bool) {
	content := resolveTextContent(ls.LayoutProperty("text-field"), f, mapZoom, vpZoom)
	if content == "" || rs.cfg.face == nil {
		return nil, false
	}

	pt, ok := anchorPoint(f)
	if !ok {
		return nil, false
	}
	scale := tg.featureScale()
	px, py := pt.X*scale, pt.Y*scale
	if px < 0 || px > tg.sizePixels || py < 0 || py > tg.sizePixels {
		return nil, false
	}

	size := resolveNumber(ls.LayoutProperty("text-size"), f, mapZoom, vpZoom, 16)
	face := rs.cfg.face.Source().Face(size)

	color := resolveColor(ls.PaintProperty("text-color"), f, mapZoom, vpZoom, gg.Black)
	opacity := resolveNumber(ls.PaintProperty("text-opacity"), f, mapZoom, vpZoom, 1)
	color.A *= opacity

	haloWidth := resolveNumber(ls.PaintProperty("text-halo-width"), f, mapZoom, vpZoom, 0)
	haloColor := resolveColor(ls.PaintProperty("text-halo-color"), f, mapZoom, vpZoom, gg.Transparent)

	letterSpacingEms := resolveNumber(ls.LayoutProperty("text-letter-spacing"), f, mapZoom, vpZoom, 0)
	letterSpacing := letterSpacingEms * size

	maxWidthEms := resolveNumber(ls.LayoutProperty("text-max-width"), f, mapZoom, vpZoom, rs.cfg.maxTextWidthEms)
	maxWidthPixels := maxWidthEms * size

	wrapped := text.WrapText(content, face, maxWidthPixels, text.WrapWordChar)
	lines := make([]string, 0, len(wrapped))
	for _, w := range wrapped {
		lines = append(lines, w.Text)
	}
	if len(lines) == 0 {
		lines = []string{content}
	}

	lineHeight := face.Metrics().LineHeight()
	height := lineHeight * float64(len(lines))
	width := 0.0
	for _, line := range lines {
		if w := runWidth(face, line, letterSpacing); w > width {
			width = w
		}
	}

	local := rect{px - width/2, py - height/2, px + width/2, py + height/2}.inflate(haloWidth)
	global := local.translate(tg.originX, tg.originY)
	if rs.collisions.overlaps(global) {
		return nil, false
	}
	rs.collisions.add(global)

	return &axisLabel{
		tileOriginX:   tg.originX,
		tileOriginY:   tg.originY,
		lines:         lines,
		x:             px,
		y:             py,
		letterSpacing: letterSpacing,
		face:          face,
		color:         color,
		haloWidth:     haloWidth,
		haloColor:     haloColor,
	}, true
}

func paintAxisLabel(ctx *gg.Context, rs *renderState, lbl *axisLabel) {
	ctx.Push()
	defer ctx.Pop()
	ctx.Translate(lbl.tileOriginX, lbl.tileOriginY)

	lineHeight := lbl.face.Metrics().LineHeight()
	n := len(lbl.lines)
	for i, line := range lbl.lines {
		lineY := lbl.y + (float64(i)-float64(n-1)/2)*lineHeight
		width := runWidth(lbl.face, line, lbl.letterSpacing)
		rs.drawRun(ctx, lbl.face, line, lbl.x-width/2, lineY, lbl.letterSpacing, lbl.color, lbl.haloWidth, lbl.haloColor)
	}
}

// drawRun draws one line of glyphs with the baseline at (x, y),
// advancing by each glyph's own advance plus letterSpacing — except
// across a space, which never receives extra spacing.
func (rs *renderState) drawRun(ctx *gg.Context, face text.Face, line string, x, y, letterSpacing float64, color gg.RGBA, haloWidth float64, haloColor gg.RGBA) {
	cursor := x
	for _, r := range line {
		adv := rs.drawGlyph(ctx, face, r, cursor, y, 0, color, haloWidth, haloColor)
		cursor += adv
		if r != ' ' {
			cursor += letterSpacing
		}
	}
}

// drawPlainText is the debug-overlay text helper: no halo, no letter
// spacing, origin at (x, y). It draws nothing when no face is configured.
func (rs *renderState) drawPlainText(ctx *gg.Context, s string, x, y float64, color gg.RGBA) {
	if rs.cfg.face == nil {
		return
	}
	face := rs.cfg.face.Source().Face(10)
	cursor := x
	for _, r := range s {
		cursor += rs.drawGlyph(ctx, face, r, cursor, y, 0, color, 0, gg.RGBA{})
	}
}

// drawGlyph extracts and paints a single glyph outline at (x, y) with
// optional rotation (radians) and halo, returning its advance width so
// callers can walk a run without a second outline lookup.
func (rs *renderState) drawGlyph(ctx *gg.Context, face text.Face, r rune, x, y, rotation float64, color gg.RGBA, haloWidth float64, haloColor gg.RGBA) float64 {
	parsed := face.Source().Parsed()
	gid := parsed.GlyphIndex(r)
	advance := face.Advance(string(r))

	outline, err := rs.extractor.ExtractOutline(parsed, text.GlyphID(gid), face.Size())
	if err != nil || outline == nil || len(outline.Segments) == 0 {
		return advance
	}

	ctx.Push()
	ctx.Translate(x, y)
	if rotation != 0 {
		ctx.Rotate(rotation)
	}
	buildGlyphPath(ctx, outline)
	if haloWidth > 0 {
		ctx.SetStrokeBrush(gg.Solid(haloColor))
		ctx.SetLineWidth(haloWidth * 2)
		ctx.StrokePreserve()
	}
	ctx.SetFillBrush(gg.Solid(color))
	ctx.Fill()
	ctx.Pop()

	return advance
}

// buildGlyphPath appends a glyph outline's segments to the context's
// current path. Outline points are font-space (Y increasing upward from
// the baseline); negating Y converts to this package's screen-space
// convention (Y increasing downward).
func buildGlyphPath(ctx *gg.Context, outline *text.GlyphOutline) {
	for _, seg := range outline.Segments {
		switch seg.Op {
		case text.OutlineOpMoveTo:
			ctx.MoveTo(float64(seg.Points[0].X), -float64(seg.Points[0].Y))
		case text.OutlineOpLineTo:
			ctx.LineTo(float64(seg.Points[0].X), -float64(seg.Points[0].Y))
		case text.OutlineOpQuadTo:
			ctx.QuadraticTo(
				float64(seg.Points[0].X), -float64(seg.Points[0].Y),
				float64(seg.Points[1].X), -float64(seg.Points[1].Y),
			)
		case text.OutlineOpCubicTo:
			ctx.CubicTo(
				float64(seg.Points[0].X), -float64(seg.Points[0].Y),
				float64(seg.Points[1].X), -float64(seg.Points[1].Y),
				float64(seg.Points[2].X), -float64(seg.Points[2].Y),
			)
		}
	}
}
