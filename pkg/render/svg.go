// Package render produces preview and interchange artifacts from a computed
// layout and construction plan. The SVG output is a top view of the part for
// quick sanity checks before committing to CAD or a printer; the JSON output
// is the data interchange format for external tooling.
package render

import (
	"bytes"
	"fmt"

	"github.com/wemcdonald/boxr/pkg/layout"
	"github.com/wemcdonald/boxr/pkg/plan"
	"github.com/wemcdonald/boxr/pkg/tool"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale      float64
	showLabels bool
	showBands  bool
	handles    map[layout.GridPos]float64
}

// WithSVGScale sets the pixels-per-millimeter scale. Default is 4.
func WithSVGScale(pxPerMM float64) SVGOption {
	return func(r *svgRenderer) { r.scale = pxPerMM }
}

// WithSVGTools attaches the active tool set so the preview can draw true
// handle clearance circles. Without this, clearance is approximated from the
// bored hole diameter.
func WithSVGTools(active []tool.Tool) SVGOption {
	return func(r *svgRenderer) {
		r.handles = make(map[layout.GridPos]float64, len(active))
		for _, t := range active {
			r.handles[layout.GridPos{Row: t.Row, Col: t.Col}] = t.HandleDiameter
		}
	}
}

// WithSVGLabels draws the embossed tool names on the preview.
func WithSVGLabels() SVGOption { return func(r *svgRenderer) { r.showLabels = true } }

// WithSVGBands draws the column and row band boundaries as guide lines.
func WithSVGBands() SVGOption { return func(r *svgRenderer) { r.showBands = true } }

// RenderSVG draws a top view of the holder: part outline, row platforms,
// tool holes with handle clearance circles, mount holes, and optionally
// labels and band guides. Y grows toward the back of the part, matching the
// layout's coordinate system.
func RenderSVG(l layout.Layout, pl plan.Plan, opts ...SVGOption) []byte {
	r := svgRenderer{scale: 4}
	for _, opt := range opts {
		opt(&r)
	}
	s := r.scale

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		pl.PartWidth*s, pl.PartDepth*s, pl.PartWidth*s, pl.PartDepth*s)

	// Part outline.
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#f5f0e6" stroke="#333" stroke-width="1.5"/>`+"\n",
		pl.PartWidth*s, pl.PartDepth*s)

	// Stepped platforms, back rows darker.
	for _, st := range pl.Steps {
		shade := 0xe8 - 0x10*st.Row
		if shade < 0xa0 {
			shade = 0xa0
		}
		fmt.Fprintf(&buf, `  <rect x="0" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02xd0" stroke="none"/>`+"\n",
			st.YStart*s, pl.PartWidth*s, (st.YEnd-st.YStart)*s, shade, shade)
	}

	// Wing boundary.
	wingY := pl.PartDepth - pl.WingDepth
	if pl.WingDepth > 0 {
		fmt.Fprintf(&buf, `  <line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#999" stroke-dasharray="6 3"/>`+"\n",
			wingY*s, pl.PartWidth*s, wingY*s)
	}

	if r.showBands {
		renderBandGuides(&buf, l, pl, s)
	}

	for _, h := range pl.Holes {
		// Handle clearance circle, then the bored hole.
		cr := clearanceRadius(h)
		if d, ok := r.handles[layout.GridPos{Row: h.Row, Col: h.Col}]; ok {
			cr = d / 2
		}
		fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#bbb" stroke-dasharray="3 3"/>`+"\n",
			h.X*s, h.Y*s, cr*s)
		fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="#fff" stroke="#333"/>`+"\n",
			h.X*s, h.Y*s, h.Diameter/2*s)
	}

	for _, m := range pl.MountHoles {
		if m.CboreD > 0 {
			fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#666"/>`+"\n",
				m.X*s, m.Y*s, m.CboreD/2*s)
		}
		if m.CskD > 0 {
			fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#666"/>`+"\n",
				m.X*s, m.Y*s, m.CskD/2*s)
		}
		fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="#fff" stroke="#666"/>`+"\n",
			m.X*s, m.Y*s, m.Diameter/2*s)
	}

	if r.showLabels {
		for _, lb := range pl.Labels {
			fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" font-family="%s" text-anchor="middle">%s</text>`+"\n",
				lb.X*s, lb.Y*s, lb.Height*s, lb.Font, escapeText(lb.Text))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// clearanceRadius approximates the handle clearance circle around a hole.
// The handle diameter is not part of the plan, so the preview scales off the
// bored hole instead.
func clearanceRadius(h plan.Hole) float64 {
	r := h.Diameter * 1.5
	if r < 4 {
		r = 4
	}
	return r
}

func renderBandGuides(buf *bytes.Buffer, l layout.Layout, pl plan.Plan, s float64) {
	for col := 0; col <= l.MaxCol; col++ {
		x := l.ColumnStart(col)
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="0" x2="%.1f" y2="%.1f" stroke="#ddd"/>`+"\n",
			x*s, x*s, pl.PartDepth*s)
	}
	for row := 0; row <= l.MaxRow; row++ {
		y := l.RowStart(row)
		fmt.Fprintf(buf, `  <line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ddd"/>`+"\n",
			y*s, pl.PartWidth*s, y*s)
	}
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
