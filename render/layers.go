package render

import (
	"bytes"
	"image"
	_ "image/png"
	"math"

	gg "github.com/bachmap/bach"
	intImage "github.com/bachmap/bach/internal/image"
	"github.com/bachmap/bach/loader"
	"github.com/bachmap/bach/mvt"
	"github.com/bachmap/bach/style"
	xdraw "golang.org/x/image/draw"
)

func drawBackground(ctx *gg.Context, ls *style.LayerStyle, tg tileGeometry, mapZoom int, vpZoom float64) {
	color := resolveColor(ls.PaintProperty("background-color"), emptyFeature, mapZoom, vpZoom, gg.White)
	opacity := resolveNumber(ls.PaintProperty("background-opacity"), emptyFeature, mapZoom, vpZoom, 1)
	color.A *= opacity

	ctx.SetFillBrush(gg.Solid(color))
	ctx.MoveTo(0, 0)
	ctx.LineTo(tg.sizePixels, 0)
	ctx.LineTo(tg.sizePixels, tg.sizePixels)
	ctx.LineTo(0, tg.sizePixels)
	ctx.ClosePath()
	ctx.Fill()
}

func drawFillLayer(ctx *gg.Context, ls *style.LayerStyle, layer *mvt.Layer, tg tileGeometry, mapZoom int, vpZoom float64) {
	ctx.Push()
	defer ctx.Pop()
	scale := tg.featureScale()
	ctx.Scale(scale, scale)

	for i := range layer.Features {
		f := &layer.Features[i]
		if f.Type != mvt.Polygon || !passesFilter(ls, f, mapZoom, vpZoom) {
			continue
		}

		color := resolveColor(ls.PaintProperty("fill-color"), f, mapZoom, vpZoom, gg.Black)
		opacity := resolveNumber(ls.PaintProperty("fill-opacity"), f, mapZoom, vpZoom, 1)
		color.A *= opacity
		ctx.SetFillBrush(gg.Solid(color))

		for _, ring := range f.Rings {
			if len(ring) == 0 {
				continue
			}
			ctx.MoveTo(ring[0].X, ring[0].Y)
			for _, pt := range ring[1:] {
				ctx.LineTo(pt.X, pt.Y)
			}
			ctx.ClosePath()
		}
		ctx.Fill()
	}
}

func drawLineLayer(ctx *gg.Context, ls *style.LayerStyle, layer *mvt.Layer, tg tileGeometry, mapZoom int, vpZoom float64) {
	ctx.Push()
	defer ctx.Pop()
	scale := tg.featureScale()
	ctx.Scale(scale, scale)

	for i := range layer.Features {
		f := &layer.Features[i]
		if f.Type != mvt.Line || !passesFilter(ls, f, mapZoom, vpZoom) {
			continue
		}

		color := resolveColor(ls.PaintProperty("line-color"), f, mapZoom, vpZoom, gg.Black)
		opacity := resolveNumber(ls.PaintProperty("line-opacity"), f, mapZoom, vpZoom, 1)
		color.A *= opacity
		widthPixels := resolveNumber(ls.PaintProperty("line-width"), f, mapZoom, vpZoom, 1)

		ctx.SetStrokeBrush(gg.Solid(color))
		// line-width is specified in screen pixels; undo the tile-local
		// scale applied above so the stroke stays a constant pixel width
		// regardless of this tile's on-screen size.
		if scale != 0 {
			ctx.SetLineWidth(widthPixels / scale)
		} else {
			ctx.SetLineWidth(widthPixels)
		}

		for _, line := range f.Lines {
			if len(line) == 0 {
				continue
			}
			ctx.MoveTo(line[0].X, line[0].Y)
			for _, pt := range line[1:] {
				ctx.LineTo(pt.X, pt.Y)
			}
			ctx.Stroke()
		}
	}
}

// drawRaster decodes and composites a raster tile's PNG bytes into the
// tile's on-screen rect, scaling with golang.org/x/image/draw the same
// way the text package's emoji bitmap path scales color glyphs.
func drawRaster(ctx *gg.Context, ls *style.LayerStyle, entry *loader.Entry, tg tileGeometry, mapZoom int, vpZoom float64) {
	if entry == nil || entry.State != loader.Ok || len(entry.Raster) == 0 {
		return
	}
	decoded, _, err := image.Decode(bytes.NewReader(entry.Raster))
	if err != nil {
		gg.Logger().Warn("raster tile decode failed", "err", err)
		return
	}

	target := int(math.Round(tg.sizePixels))
	if target <= 0 {
		return
	}
	scaled := image.NewRGBA(image.Rect(0, 0, target, target))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), decoded, decoded.Bounds(), xdraw.Src, nil)

	buf, err := intImage.FromRaw(scaled.Pix, target, target, intImage.FormatRGBA8, scaled.Stride)
	if err != nil {
		gg.Logger().Warn("raster tile buffer construction failed", "err", err)
		return
	}

	opacity := resolveNumber(ls.PaintProperty("raster-opacity"), emptyFeature, mapZoom, vpZoom, 1)
	if opacity <= 0 {
		// DrawImageEx treats a zero Opacity as "unset" and defaults to
		// fully opaque, so an explicit zero must be special-cased here.
		return
	}
	ctx.DrawImageEx(buf, gg.DrawImageOptions{
		DstWidth:  float64(target),
		DstHeight: float64(target),
		Opacity:   opacity,
	})
}
