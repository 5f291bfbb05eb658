package render

import (
	"math"
	"testing"

	"github.com/bachmap/bach/tilecoord"
)

func TestNewGeometryCalc_CenteredWorldTile(t *testing.T) {
	vp := Viewport{X: 0.5, Y: 0.5, Zoom: 0}
	gc := newGeometryCalc(512, 512, vp, 0)

	c, err := tilecoord.New(0, 0, 0)
	if err != nil {
		t.Fatalf("tilecoord.New: %v", err)
	}
	tg := gc.tileGeometry(c)

	if tg.sizePixels != 512 {
		t.Errorf("sizePixels = %v, want 512", tg.sizePixels)
	}
	if tg.originX != 0 || tg.originY != 0 {
		t.Errorf("origin = (%v, %v), want (0, 0)", tg.originX, tg.originY)
	}
}

func TestGeometryCalc_TallViewportAspect(t *testing.T) {
	vp := Viewport{X: 0.5, Y: 0.5, Zoom: 0}
	gc := newGeometryCalc(400, 800, vp, 0)

	c, _ := tilecoord.New(0, 0, 0)
	tg := gc.tileGeometry(c)

	if tg.sizePixels != 800 {
		t.Errorf("sizePixels = %v, want 800 (largest viewport dimension)", tg.sizePixels)
	}
	if tg.originX == 0 {
		t.Errorf("expected a non-zero horizontal origin to center a narrower-than-tall viewport")
	}
}

func TestTileGeometry_FeatureScale(t *testing.T) {
	tg := tileGeometry{sizePixels: 4096}
	if got := tg.featureScale(); got != 1 {
		t.Errorf("featureScale() = %v, want 1 when sizePixels == tileExtent", got)
	}

	tg2 := tileGeometry{sizePixels: 2048}
	if got := tg2.featureScale(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("featureScale() = %v, want 0.5", got)
	}
}

func TestGeometryCalc_ZoomDoublesTileSize(t *testing.T) {
	vp0 := Viewport{X: 0.5, Y: 0.5, Zoom: 0}
	vp1 := Viewport{X: 0.5, Y: 0.5, Zoom: 1}

	c, _ := tilecoord.New(0, 0, 0)
	g0 := newGeometryCalc(512, 512, vp0, 0).tileGeometry(c)
	g1 := newGeometryCalc(512, 512, vp1, 0).tileGeometry(c)

	if g1.sizePixels != g0.sizePixels*2 {
		t.Errorf("sizePixels at zoom+1 = %v, want double %v", g1.sizePixels, g0.sizePixels)
	}
}
