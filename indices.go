package main

import (
	"strings"

	"cropsight/earthengine"
)

// Index is one of the supported vegetation/moisture products, derived from a
// Sentinel-2 composite by band math.
type Index string

const (
	IndexNDVI  Index = "NDVI"
	IndexRECI  Index = "RECI"
	IndexNDMI  Index = "NDMI"
	IndexMSAVI Index = "MSAVI"
)

// ParseIndex matches the user-supplied name case-insensitively.
func ParseIndex(s string) (Index, bool) {
	switch ix := Index(strings.ToUpper(s)); ix {
	case IndexNDVI, IndexRECI, IndexNDMI, IndexMSAVI:
		return ix, true
	default:
		return "", false
	}
}

// VisParams is the fixed visualization for an index: the value range mapped onto
// an ordered color ramp.
type VisParams struct {
	Min     float64
	Max     float64
	Palette []string
}

// Vis returns the visualization spec for the index. One fixed spec per index; the
// low ends are clamped to avoid dark/black rendering of bare soil.
func (ix Index) Vis() VisParams {
	switch ix {
	case IndexNDVI:
		return VisParams{Min: 0, Max: 1, Palette: []string{
			"#8B4513", "#FF0000", "#FFFF00", "#008000", // brown, red, yellow, green
		}}
	case IndexRECI:
		return VisParams{Min: 0, Max: 5, Palette: []string{
			"#8B0000", "#FFA500", "#FFFF00", "#90EE90", "#006400",
		}}
	case IndexNDMI:
		return VisParams{Min: -1, Max: 1, Palette: []string{
			"#3B2C1C", "#FF0000", "#FFFF00", "#90EE90", "#00008B",
		}}
	case IndexMSAVI:
		return VisParams{Min: 0, Max: 1, Palette: []string{
			"#3B2C1C", "#FF0000", "#FFA500", "#90EE90", "#006400",
		}}
	}
	return VisParams{}
}

// band derives the index band from a composite image node.
//
// NDVI, RECI and NDMI are normalized differences over NIR (B8) and red (B4),
// red-edge (B5) and shortwave-infrared (B11) respectively. MSAVI is the
// soil-adjusted form: (2·NIR + 1 − sqrt((2·NIR + 1)² − 8·(NIR − Red))) / 2.
func (ix Index) band(composite earthengine.Node) earthengine.Node {
	switch ix {
	case IndexNDVI:
		return composite.NormalizedDifference("B8", "B4").Rename("NDVI")
	case IndexRECI:
		return composite.NormalizedDifference("B8", "B5").Rename("RECI")
	case IndexNDMI:
		return composite.NormalizedDifference("B8", "B11").Rename("NDMI")
	case IndexMSAVI:
		nir := composite.Select("B8")
		red := composite.Select("B4")
		lead := nir.Multiply(2).Add(1)
		return lead.
			Subtract(lead.Pow(2).Subtract(nir.Subtract(red).Multiply(8)).Sqrt()).
			Divide(2).
			Rename("MSAVI")
	}
	return composite
}

// buildIndexExpression assembles the whole server-side pipeline: cloud-filtered,
// date-bounded median composite, index band, clip to the polygon, fixed
// visualization.
func buildIndexExpression(cfg Config, rings [][][]float64, ix Index) earthengine.Expression {
	g := earthengine.NewGraph()

	composite := g.LoadCollection(cfg.Collection).
		FilterDate(cfg.DateStart, cfg.DateEnd).
		FilterLt("CLOUDY_PIXEL_PERCENTAGE", cfg.MaxCloudPct).
		Median()

	geom := g.Polygon(rings)
	vis := ix.Vis()
	rendered := ix.band(composite).Clip(geom).Visualize(vis.Min, vis.Max, vis.Palette)
	return g.Expression(rendered)
}
