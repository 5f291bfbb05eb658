package render

import (
	"math"

	"github.com/bachmap/bach/tilecoord"
)

// tileExtent is the coordinate space every decoded MVT geometry is
// expressed in, per the wire format's fixed per-tile extent.
const tileExtent = 4096.0

// tileGeometry is one tile's resolved on-screen placement: the pixel
// position of its top-left corner and its (square) on-screen size.
type tileGeometry struct {
	originX, originY float64
	sizePixels       float64
}

// featureScale is the factor that maps a decoded feature's tile-local
// [0, tileExtent] coordinates onto this tile's on-screen pixel rect.
func (g tileGeometry) featureScale() float64 {
	return g.sizePixels / tileExtent
}

// geometryCalc resolves every visible tile's on-screen placement for one
// Paint call, grounded directly on the original renderer's paintTiles:
// a single viewport-wide center and scale, applied per tile coordinate.
type geometryCalc struct {
	largestDim               float64
	scale                    float64
	centerNormX, centerNormY float64
}

func newGeometryCalc(viewportWidth, viewportHeight int, vp Viewport, mapZoom int) geometryCalc {
	vw, vh := float64(viewportWidth), float64(viewportHeight)
	aspect := vw / vh
	largest := math.Max(vw, vh)
	scale := math.Pow(2, vp.Zoom-float64(mapZoom))
	totalTiles := math.Exp2(float64(mapZoom))

	centerX := vp.X*totalTiles*scale - 0.5
	centerY := vp.Y*totalTiles*scale - 0.5
	if vh >= vw {
		centerX += -0.5*aspect + 0.5
	} else {
		centerY += -0.5*(1/aspect) + 0.5
	}

	return geometryCalc{largestDim: largest, scale: scale, centerNormX: centerX, centerNormY: centerY}
}

func (g geometryCalc) tileGeometry(c tilecoord.Coord) tileGeometry {
	posNormX := float64(c.X)*g.scale - g.centerNormX
	posNormY := float64(c.Y)*g.scale - g.centerNormY
	return tileGeometry{
		originX:    math.Round(posNormX * g.largestDim),
		originY:    math.Round(posNormY * g.largestDim),
		sizePixels: math.Round(g.scale * g.largestDim),
	}
}
