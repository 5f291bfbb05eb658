package render

import (
	"math"
	"strings"

	gg "github.com/bachmap/bach"
	"github.com/bachmap/bach/mvt"
	"github.com/bachmap/bach/style"
	"github.com/bachmap/bach/text"
)

// polyline is a tile-local line feature already scaled to on-screen
// pixel coordinates, walkable by cumulative arc length for curved-label
// placement.
type polyline struct {
	pts    []gg.Point
	segLen []float64
	total  float64
}

func newPolyline(pts []mvt.Point, scale float64) polyline {
	scaled := make([]gg.Point, len(pts))
	for i, p := range pts {
		scaled[i] = gg.Pt(p.X*scale, p.Y*scale)
	}
	segLen := make([]float64, 0, len(scaled)-1)
	total := 0.0
	for i := 0; i+1 < len(scaled); i++ {
		d := scaled[i].Distance(scaled[i+1])
		segLen = append(segLen, d)
		total += d
	}
	return polyline{pts: scaled, segLen: segLen, total: total}
}

func (pl polyline) length() float64 { return pl.total }

// at returns the point and tangent angle (radians) at arc-length
// distance d along the path, or ok=false once d exceeds the path's
// length.
func (pl polyline) at(d float64) (pt gg.Point, angle float64, ok bool) {
	if len(pl.pts) < 2 || d < 0 || d > pl.total {
		return gg.Point{}, 0, false
	}
	acc := 0.0
	for i, segL := range pl.segLen {
		if d <= acc+segL || i == len(pl.segLen)-1 {
			t := 0.0
			if segL > 0 {
				t = (d - acc) / segL
			}
			a, b := pl.pts[i], pl.pts[i+1]
			return a.Lerp(b, t), math.Atan2(b.Y-a.Y, b.X-a.X), true
		}
		acc += segL
	}
	return gg.Point{}, 0, false
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }

// isTextFlipped reports whether a label whose path starts at this
// tangent angle (degrees) would read upside down if drawn without
// correction, per Bach::isTextFlipped.
func isTextFlipped(angleDeg float64) bool {
	a := math.Mod(angleDeg, 360)
	if a < 0 {
		a += 360
	}
	return a > 90 && a < 270
}

// angleDelta is the signed difference a-b, normalized to [-180, 180).
func angleDelta(a, b float64) float64 {
	d := math.Mod(a-b+540, 360) - 180
	return d
}

// curvedChar is one glyph placed along a line path.
type curvedChar struct {
	r        rune
	x, y     float64
	rotation float64
}

// curvedLabel is a laid-out, collision-accepted line label queued for
// the global paint pass.
type curvedLabel struct {
	tileOriginX, tileOriginY float64
	chars                    []curvedChar
	face                     text.Face
	color                    gg.RGBA
	haloWidth                float64
	haloColor                gg.RGBA
}

// layoutCurvedLabel resolves and collision-tests a line feature's
// curved label, mirroring Bach::processSingleTileFeature_Point_Curved.
// It aborts outright — never a partial render — when the label does not
// fit the path's length or the path bends more sharply than the
// layer's max-angle between any two consecutive characters.
func layoutCurvedLabel(f *mvt.Feature, ls *style.LayerStyle, tg tileGeometry, mapZoom int, vpZoom float64, rs *renderState) (*curvedLabel, bool) {
	if len(f.Lines) == 0 || rs.cfg.face == nil {
		return nil, false
	}
	raw := resolveTextContent(ls.LayoutProperty("text-field"), f, mapZoom, vpZoom)
	if raw == "" {
		return nil, false
	}
	label := strings.ToUpper(raw)

	size := resolveNumber(ls.LayoutProperty("text-size"), f, mapZoom, vpZoom, 16)
	face := rs.cfg.face.Source().Face(size)

	color := resolveColor(ls.PaintProperty("text-color"), f, mapZoom, vpZoom, gg.Black)
	opacity := resolveNumber(ls.PaintProperty("text-opacity"), f, mapZoom, vpZoom, 1)
	color.A *= opacity

	haloWidth := resolveNumber(ls.PaintProperty("text-halo-width"), f, mapZoom, vpZoom, 0)
	haloColor := resolveColor(ls.PaintProperty("text-halo-color"), f, mapZoom, vpZoom, gg.Transparent)

	letterSpacingEms := resolveNumber(ls.LayoutProperty("text-letter-spacing"), f, mapZoom, vpZoom, 0)
	letterSpacing := letterSpacingEms * size
	maxAngleDeg := resolveNumber(ls.LayoutProperty("text-max-angle"), f, mapZoom, vpZoom, 45)

	pl := newPolyline(f.Lines[0], tg.featureScale())
	if pl.length() == 0 || runWidth(face, label, letterSpacing) > pl.length() {
		return nil, false
	}

	order := []rune(label)
	_, startAngleRad, _ := pl.at(0)
	flip := isTextFlipped(deg(startAngleRad))
	if flip {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	height := face.Metrics().LineHeight()
	chars := make([]curvedChar, 0, len(order))
	var total rect
	cursor := 0.0
	prevAngleDeg := deg(startAngleRad)

	for i, r := range order {
		pt, angleRad, ok := pl.at(cursor)
		if !ok {
			return nil, false
		}
		angleDeg := deg(angleRad)
		if i > 0 && math.Abs(angleDelta(angleDeg, prevAngleDeg)) > maxAngleDeg {
			return nil, false
		}
		prevAngleDeg = angleDeg

		rotation := -angleRad
		if flip {
			rotation = -(angleRad + math.Pi)
		}
		chars = append(chars, curvedChar{r: r, x: pt.X, y: pt.Y, rotation: rotation})

		charRect := rect{pt.X - height/2, pt.Y - height/2, pt.X + height/2, pt.Y + height/2}
		if i == 0 {
			total = charRect
		} else {
			total = unionRect(total, charRect)
		}

		adv := face.Advance(string(r))
		if r != ' ' {
			adv += letterSpacing
		}
		cursor += adv
	}

	global := total.inflate(haloWidth).translate(tg.originX, tg.originY)
	if rs.collisions.overlaps(global) {
		return nil, false
	}
	rs.collisions.add(global)

	return &curvedLabel{
		tileOriginX: tg.originX,
		tileOriginY: tg.originY,
		chars:       chars,
		face:        face,
		color:       color,
		haloWidth:   haloWidth,
		haloColor:   haloColor,
	}, true
}

func unionRect(a, b rect) rect {
	return rect{
		minX: math.Min(a.minX, b.minX),
		minY: math.Min(a.minY, b.minY),
		maxX: math.Max(a.maxX, b.maxX),
		maxY: math.Max(a.maxY, b.maxY),
	}
}

func paintCurvedLabel(ctx *gg.Context, rs *renderState, lbl *curvedLabel) {
	ctx.Push()
	defer ctx.Pop()
	ctx.Translate(lbl.tileOriginX, lbl.tileOriginY)

	for _, ch := range lbl.chars {
		rs.drawGlyph(ctx, lbl.face, ch.r, ch.x, ch.y, ch.rotation, lbl.color, lbl.haloWidth, lbl.haloColor)
	}
}
