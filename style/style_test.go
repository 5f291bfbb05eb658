package style

import "testing"

func TestParseBasicFillLayer(t *testing.T) {
	doc := []byte(`{
		"layers": [
			{
				"id": "water",
				"type": "fill",
				"source-layer": "water",
				"minzoom": 0,
				"maxzoom": 14,
				"paint": {"fill-color": "#0000ff", "fill-opacity": 0.8}
			}
		]
	}`)

	sheet, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sheet.Layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(sheet.Layers))
	}
	l := sheet.Layers[0]
	if l.Type != Fill || l.SourceLayer != "water" || l.MaxZoom != 14 {
		t.Fatalf("unexpected layer: %+v", l)
	}
	fillColor := l.PaintProperty("fill-color")
	if fillColor == nil || fillColor.IsExpression() {
		t.Fatalf("expected constant fill-color property")
	}
	c, ok := fillColor.GetAtZoom(10).Color()
	if !ok || c.B != 1 {
		t.Fatalf("GetAtZoom() = %v, want opaque blue", c)
	}
}

func TestParseUnknownLayerTypeFails(t *testing.T) {
	doc := []byte(`{"layers": [{"id": "x", "type": "hexbin", "source-layer": "x"}]}`)
	if _, err := Parse(doc); err == nil {
		t.Fatal("expected error for unknown layer type")
	}
}

func TestParseMissingSourceLayerFails(t *testing.T) {
	doc := []byte(`{"layers": [{"id": "x", "type": "fill"}]}`)
	if _, err := Parse(doc); err == nil {
		t.Fatal("expected error for missing source-layer")
	}
}

func TestParseUnknownOperatorFails(t *testing.T) {
	doc := []byte(`{
		"layers": [{
			"id": "x", "type": "fill", "source-layer": "x",
			"paint": {"fill-color": ["totally-bogus-op", 1]}
		}]
	}`)
	if _, err := Parse(doc); err == nil {
		t.Fatal("expected error for unknown expression operator")
	}
}

func TestParseExpressionValuedProperty(t *testing.T) {
	doc := []byte(`{
		"layers": [{
			"id": "roads", "type": "line", "source-layer": "roads",
			"paint": {
				"line-color": ["match", ["get", "class"], "motorway", "#f00", "#000"]
			}
		}]
	}`)
	sheet, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	prop := sheet.Layers[0].PaintProperty("line-color")
	if prop == nil || !prop.IsExpression() {
		t.Fatal("expected expression-valued line-color property")
	}
}

func TestParseInExpressionHaystackIsLiteral(t *testing.T) {
	doc := []byte(`{
		"layers": [{
			"id": "roads", "type": "line", "source-layer": "roads",
			"filter": ["in", ["get", "class"], ["motorway", "trunk"]]
		}]
	}`)
	if _, err := Parse(doc); err != nil {
		t.Fatalf("Parse() error = %v, want \"in\" haystack treated as literal data", err)
	}
}

func TestParseZoomStopFunction(t *testing.T) {
	doc := []byte(`{
		"layers": [{
			"id": "roads", "type": "line", "source-layer": "roads",
			"paint": {
				"line-width": {"stops": [[5, 1], [10, 3]]}
			}
		}]
	}`)
	sheet, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	width := sheet.Layers[0].PaintProperty("line-width")
	if width == nil {
		t.Fatal("expected line-width property")
	}
	mid, ok := width.GetAtZoom(7.5).Number()
	if !ok || mid != 2 {
		t.Fatalf("GetAtZoom(7.5) = %v, want 2", mid)
	}
	below, _ := width.GetAtZoom(0).Number()
	if below != 1 {
		t.Fatalf("GetAtZoom(0) = %v, want clamp to first stop", below)
	}
	above, _ := width.GetAtZoom(20).Number()
	if above != 3 {
		t.Fatalf("GetAtZoom(20) = %v, want clamp to last stop", above)
	}
}

func TestLayerVisibleAt(t *testing.T) {
	l := &LayerStyle{MinZoom: 4, MaxZoom: 10}
	if l.VisibleAt(3) || l.VisibleAt(11) {
		t.Fatal("VisibleAt() should exclude zooms outside the window")
	}
	if !l.VisibleAt(4) || !l.VisibleAt(10) {
		t.Fatal("VisibleAt() should include window boundaries")
	}
}
