package render

import (
	"strconv"

	gg "github.com/bachmap/bach"
	"github.com/bachmap/bach/expr"
	"github.com/bachmap/bach/mvt"
	"github.com/bachmap/bach/style"
	"github.com/bachmap/bach/value"
)

// emptyFeature stands in for properties evaluated outside any feature
// context (background and raster layers are camera-only in the Style
// Specification and never carry data-driven expressions, but a
// zoom-stop or constant property still resolves the same way either
// way). Its meta map is nil, which mvt.Feature.Get/Has already handle.
var emptyFeature = &mvt.Feature{}

// resolve evaluates a paint/layout property at the given feature and
// zoom context, dispatching to the expression evaluator for
// expression-valued properties and to GetAtZoom otherwise.
func resolve(p *style.Property, f *mvt.Feature, mapZoom int, vpZoom float64) value.Value {
	if p == nil {
		return value.NullValue()
	}
	if p.IsExpression() {
		return expr.Resolve(p.Expression(), f, mapZoom, vpZoom)
	}
	return p.GetAtZoom(float64(mapZoom))
}

func resolveColor(p *style.Property, f *mvt.Feature, mapZoom int, vpZoom float64, def gg.RGBA) gg.RGBA {
	v := resolve(p, f, mapZoom, vpZoom)
	if c, ok := v.Color(); ok {
		return c
	}
	if s, ok := v.String(); ok {
		if c, ok := value.ParseColor(s); ok {
			return c
		}
	}
	return def
}

func resolveNumber(p *style.Property, f *mvt.Feature, mapZoom int, vpZoom float64, def float64) float64 {
	v := resolve(p, f, mapZoom, vpZoom)
	if n, ok := v.Number(); ok {
		return n
	}
	return def
}

func resolveString(p *style.Property, f *mvt.Feature, mapZoom int, vpZoom float64, def string) string {
	v := resolve(p, f, mapZoom, vpZoom)
	if s, ok := v.String(); ok {
		return s
	}
	return def
}

// resolveTextContent mirrors Bach::getTextContent: a literal "{key}"
// template reads the feature's own metadata directly; anything else,
// including an expression result, is used verbatim as label text.
func resolveTextContent(p *style.Property, f *mvt.Feature, mapZoom int, vpZoom float64) string {
	s := resolveString(p, f, mapZoom, vpZoom, "")
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return s
	}
	mv := f.Get(s[1 : len(s)-1])
	switch mv.Kind() {
	case value.String:
		str, _ := mv.String()
		return str
	case value.Number:
		n, _ := mv.Number()
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return ""
	}
}

// passesFilter reports whether a feature survives a layer style's filter
// expression. A layer with no filter accepts every feature.
func passesFilter(ls *style.LayerStyle, f *mvt.Feature, mapZoom int, vpZoom float64) bool {
	if ls.Filter == nil {
		return true
	}
	b, ok := expr.Resolve(ls.Filter, f, mapZoom, vpZoom).Bool()
	return ok && b
}
