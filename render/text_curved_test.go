package render

import (
	"math"
	"testing"

	gg "github.com/bachmap/bach"
	"github.com/bachmap/bach/mvt"
)

func TestPolyline_AtWalksSegments(t *testing.T) {
	pl := newPolyline([]mvt.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, 1)
	if got := pl.length(); got != 20 {
		t.Fatalf("length() = %v, want 20", got)
	}

	pt, angle, ok := pl.at(5)
	if !ok {
		t.Fatalf("at(5) should succeed within path length")
	}
	if pt.X != 5 || pt.Y != 0 {
		t.Errorf("at(5) = %+v, want (5, 0)", pt)
	}
	if angle != 0 {
		t.Errorf("angle on the first (horizontal) segment = %v, want 0", angle)
	}

	pt2, angle2, ok := pl.at(15)
	if !ok {
		t.Fatalf("at(15) should succeed within path length")
	}
	if pt2.X != 10 || pt2.Y != 5 {
		t.Errorf("at(15) = %+v, want (10, 5)", pt2)
	}
	if math.Abs(angle2-math.Pi/2) > 1e-9 {
		t.Errorf("angle on the second (vertical) segment = %v, want pi/2", angle2)
	}
}

func TestPolyline_AtPastEndFails(t *testing.T) {
	pl := newPolyline([]mvt.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, 1)
	if _, _, ok := pl.at(11); ok {
		t.Errorf("at() past the path length should fail")
	}
}

func TestPolyline_FeatureScaleAppliesToPoints(t *testing.T) {
	pl := newPolyline([]mvt.Point{{X: 0, Y: 0}, {X: 4096, Y: 0}}, 0.5)
	if got := pl.length(); got != 2048 {
		t.Errorf("length() with scale 0.5 = %v, want 2048", got)
	}
}

func TestIsTextFlipped(t *testing.T) {
	tests := []struct {
		angle float64
		want  bool
	}{
		{0, false},
		{45, false},
		{90, false},
		{91, true},
		{180, true},
		{269, true},
		{270, false},
		{350, false},
		{-10, false}, // normalizes to 350
		{-100, true}, // normalizes to 260
	}
	for _, tt := range tests {
		if got := isTextFlipped(tt.angle); got != tt.want {
			t.Errorf("isTextFlipped(%v) = %v, want %v", tt.angle, got, tt.want)
		}
	}
}

func TestAngleDelta(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{10, 5, 5},
		{5, 10, -5},
		{350, 10, -20},
		{10, 350, 20},
		{0, 180, -180},
	}
	for _, tt := range tests {
		if got := angleDelta(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("angleDelta(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLayoutCurvedLabel_RejectsPathShorterThanLabel(t *testing.T) {
	rs := newTestRenderState(t)
	ls := symbolLayer(t, "A Very Long Road Name")
	tg := tileGeometry{sizePixels: 4096}

	f := &mvt.Feature{
		Type:  mvt.Line,
		Lines: [][]mvt.Point{{{X: 0, Y: 0}, {X: 5, Y: 0}}},
	}
	if _, ok := layoutCurvedLabel(f, ls, tg, 10, 10, rs); ok {
		t.Errorf("expected a short path to reject a long label")
	}
}

func TestLayoutCurvedLabel_RejectsSharpAngle(t *testing.T) {
	rs := newTestRenderState(t)
	sheet := parseTestSheet(t, `{"layers":[
		{"id":"road","type":"symbol","source-layer":"roads","layout":{
			"text-field":"ROAD","text-size":16,"text-max-angle":5
		}}
	]}`)
	ls := sheet.Layers[0]
	tg := tileGeometry{sizePixels: 4096}

	// A sharp right-angle turn a short distance into the path should be
	// crossed partway through the label and exceed a 5-degree max-angle
	// tolerance between consecutive characters.
	f := &mvt.Feature{
		Type: mvt.Line,
		Lines: [][]mvt.Point{{
			{X: 0, Y: 2000}, {X: 20, Y: 2000}, {X: 20, Y: 1800},
		}},
	}
	if _, ok := layoutCurvedLabel(f, ls, tg, 10, 10, rs); ok {
		t.Errorf("expected a sharp-angled path to reject the label")
	}
}

func TestLayoutCurvedLabel_AcceptsStraightPath(t *testing.T) {
	rs := newTestRenderState(t)
	ls := symbolLayer(t, "ROAD")
	tg := tileGeometry{originX: 500, originY: 500, sizePixels: 4096}

	f := &mvt.Feature{
		Type:  mvt.Line,
		Lines: [][]mvt.Point{{{X: 0, Y: 2000}, {X: 4000, Y: 2000}}},
	}
	lbl, ok := layoutCurvedLabel(f, ls, tg, 10, 10, rs)
	if !ok {
		t.Fatalf("expected a straight, sufficiently long path to accept the label")
	}
	if len(lbl.chars) != len("ROAD") {
		t.Errorf("len(chars) = %d, want %d", len(lbl.chars), len("ROAD"))
	}
	if lbl.tileOriginX != 500 || lbl.tileOriginY != 500 {
		t.Errorf("tile origin = (%v, %v), want (500, 500)", lbl.tileOriginX, lbl.tileOriginY)
	}
}

func TestLayoutCurvedLabel_UppercasesContent(t *testing.T) {
	rs := newTestRenderState(t)
	ls := symbolLayer(t, "road")
	tg := tileGeometry{sizePixels: 4096}

	f := &mvt.Feature{
		Type:  mvt.Line,
		Lines: [][]mvt.Point{{{X: 0, Y: 2000}, {X: 4000, Y: 2000}}},
	}
	lbl, ok := layoutCurvedLabel(f, ls, tg, 10, 10, rs)
	if !ok {
		t.Fatalf("expected the label to be accepted")
	}
	for _, ch := range lbl.chars {
		if ch.r != 'R' && ch.r != 'O' && ch.r != 'A' && ch.r != 'D' {
			t.Errorf("char %q was not uppercased", ch.r)
		}
	}
}

func TestUnionRect(t *testing.T) {
	a := rect{0, 0, 10, 10}
	b := rect{5, -5, 20, 5}
	got := unionRect(a, b)
	want := rect{0, -5, 20, 10}
	if got != want {
		t.Errorf("unionRect = %+v, want %+v", got, want)
	}
}

func TestPaintCurvedLabel_DrawsEveryChar(t *testing.T) {
	rs := newTestRenderState(t)
	ls := symbolLayer(t, "ROAD")
	tg := tileGeometry{sizePixels: 4096}

	f := &mvt.Feature{
		Type:  mvt.Line,
		Lines: [][]mvt.Point{{{X: 0, Y: 2000}, {X: 4000, Y: 2000}}},
	}
	lbl, ok := layoutCurvedLabel(f, ls, tg, 10, 10, rs)
	if !ok {
		t.Fatalf("expected the label to be accepted")
	}

	ctx := gg.NewContext(200, 200)
	paintCurvedLabel(ctx, rs, lbl)
}
