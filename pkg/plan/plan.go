// Package plan builds the construction plan a CAD backend consumes.
//
// A Plan is pure data: the base slab, stepped row platforms, tool holes with
// chamfers, embossed labels, and mounting holes, all positioned from a
// computed layout. No solid geometry is produced here; the plan is the
// handoff contract between the layout engine and whatever constructs the
// actual part (Fusion add-in, OpenSCAD script, CAM pipeline).
package plan

import (
	"fmt"
	"sort"

	"github.com/wemcdonald/boxr/pkg/config"
	"github.com/wemcdonald/boxr/pkg/layout"
	"github.com/wemcdonald/boxr/pkg/tool"
)

// Plan describes every feature of the holder. Lengths are millimeters,
// positions are measured from the part's front-left corner.
type Plan struct {
	PartWidth     float64 `json:"part_width_mm"`
	PartDepth     float64 `json:"part_depth_mm"`
	BaseThickness float64 `json:"base_thickness_mm"`

	// WingDepth is the flat un-holed zone behind the last row, reserved
	// for mounting hardware.
	WingDepth float64 `json:"wing_depth_mm"`

	Steps      []Step      `json:"steps,omitempty"`
	Holes      []Hole      `json:"holes"`
	Labels     []Label     `json:"labels"`
	MountHoles []MountHole `json:"mount_holes"`

	// Warnings are non-fatal placement adjustments (e.g. clamped labels).
	Warnings []string `json:"warnings,omitempty"`
}

// Step is one raised platform. Rows behind row 0 step up so longer tools in
// the back stay visible; each step spans from its row's band start to the
// back of the grid region (the wing stays at base height).
type Step struct {
	Row    int     `json:"row"`
	Z      float64 `json:"z_mm"`      // bottom of the step, from part bottom
	Height float64 `json:"height_mm"` // extrusion height
	YStart float64 `json:"y_start_mm"`
	YEnd   float64 `json:"y_end_mm"`
}

// Hole is one through-all tool hole with an entry chamfer.
type Hole struct {
	Label        string  `json:"label"`
	Row          int     `json:"row"`
	Col          int     `json:"col"`
	X            float64 `json:"x_mm"`
	Y            float64 `json:"y_mm"`
	Diameter     float64 `json:"d_mm"` // shaft diameter plus clearance buffer
	TopZ         float64 `json:"top_z_mm"`
	ChamferWidth float64 `json:"chamfer_w_mm"`
	ChamferDepth float64 `json:"chamfer_depth_mm"`
}

// Label is one embossed tool name on the platform surface.
type Label struct {
	Text         string  `json:"text"`
	X            float64 `json:"x_mm"`
	Y            float64 `json:"y_mm"`
	Z            float64 `json:"z_mm"`
	Height       float64 `json:"height_mm"`
	EmbossHeight float64 `json:"emboss_height_mm"`
	Font         string  `json:"font"`
	Clamped      bool    `json:"clamped,omitempty"`
}

// MountHole is one corner mounting hole, including the recess the chosen
// mount style needs. Unused recess fields are zero.
type MountHole struct {
	X        float64 `json:"x_mm"`
	Y        float64 `json:"y_mm"`
	Diameter float64 `json:"d_mm"`
	Style    string  `json:"style"`

	CboreD     float64 `json:"cbore_d_mm,omitempty"`
	CboreDepth float64 `json:"cbore_depth_mm,omitempty"`
	CskD       float64 `json:"csk_d_mm,omitempty"`
	CskAngle   float64 `json:"csk_angle_deg,omitempty"`
}

// Build assembles the construction plan from a validated layout. Tools are
// emitted in row-major order regardless of input order so the plan is
// deterministic.
func Build(active []tool.Tool, l layout.Layout, p config.Params) Plan {
	ordered := make([]tool.Tool, len(active))
	copy(ordered, active)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Row != ordered[j].Row {
			return ordered[i].Row < ordered[j].Row
		}
		return ordered[i].Col < ordered[j].Col
	})

	pl := Plan{
		PartWidth:     l.PartWidth,
		PartDepth:     l.PartDepth,
		BaseThickness: p.BaseThickness,
		WingDepth:     p.MountingWingDepth,
	}

	pl.Steps = buildSteps(l, p)
	pl.Holes = buildHoles(ordered, l, p)
	pl.Labels, pl.Warnings = buildLabels(ordered, l, p)
	pl.MountHoles = buildMountHoles(l, p)

	return pl
}

// buildSteps raises one platform per row behind the front row. Row r sits
// row_z_step higher than row r-1; each platform runs from its own band start
// to the back of the grid so the rows behind it ride on top of it.
func buildSteps(l layout.Layout, p config.Params) []Step {
	var steps []Step
	for row := 1; row <= l.MaxRow; row++ {
		steps = append(steps, Step{
			Row:    row,
			Z:      p.BaseThickness + float64(row-1)*p.RowZStep,
			Height: p.RowZStep,
			YStart: l.RowStart(row),
			YEnd:   l.GridBack(),
		})
	}
	return steps
}

func buildHoles(ordered []tool.Tool, l layout.Layout, p config.Params) []Hole {
	holes := make([]Hole, 0, len(ordered))
	for _, t := range ordered {
		c := l.Centers[layout.GridPos{Row: t.Row, Col: t.Col}]
		holes = append(holes, Hole{
			Label:        t.Label,
			Row:          t.Row,
			Col:          t.Col,
			X:            c.X,
			Y:            c.Y,
			Diameter:     t.ShaftDiameter + p.HoleBuffer,
			TopZ:         rowTopZ(t.Row, p),
			ChamferWidth: p.HoleChamferD / 2,
			ChamferDepth: p.HoleChamferDepth,
		})
	}
	return holes
}

// buildLabels places each tool's name in front of its hole, clamped into the
// row band with min_web slack. Clamping is a warning, not an error: the
// holder is still buildable, the label just sits tighter than asked.
func buildLabels(ordered []tool.Tool, l layout.Layout, p config.Params) ([]Label, []string) {
	labels := make([]Label, 0, len(ordered))
	var warnings []string

	for _, t := range ordered {
		c := l.Centers[layout.GridPos{Row: t.Row, Col: t.Col}]
		rowStart := l.RowStart(t.Row)
		rowEnd := rowStart + l.RowDepths[t.Row]

		y := c.Y - (t.HandleDiameter/2 + p.TextYDist)
		clamped := false
		if y < rowStart+p.MinWeb {
			y = rowStart + p.MinWeb
			clamped = true
		}
		if y > rowEnd-p.MinWeb {
			y = rowEnd - p.MinWeb
			clamped = true
		}
		if clamped {
			warnings = append(warnings, fmt.Sprintf("label for %s clamped to row boundary", t.Label))
		}

		labels = append(labels, Label{
			Text:         t.Label,
			X:            c.X,
			Y:            y,
			Z:            rowTopZ(t.Row, p),
			Height:       p.TextHeight,
			EmbossHeight: p.EmbossHeight,
			Font:         p.FontName,
			Clamped:      clamped,
		})
	}
	return labels, warnings
}

// buildMountHoles places the four corner holes. Offsets are measured from
// the part edges, so the back pair lands inside the mounting wing.
func buildMountHoles(l layout.Layout, p config.Params) []MountHole {
	corners := [4][2]float64{
		{p.MountHoleEdgeOffsetX, p.MountHoleEdgeOffsetY},
		{l.PartWidth - p.MountHoleEdgeOffsetX, p.MountHoleEdgeOffsetY},
		{p.MountHoleEdgeOffsetX, l.PartDepth - p.MountHoleEdgeOffsetY},
		{l.PartWidth - p.MountHoleEdgeOffsetX, l.PartDepth - p.MountHoleEdgeOffsetY},
	}

	holes := make([]MountHole, 0, len(corners))
	for _, corner := range corners {
		h := MountHole{
			X:        corner[0],
			Y:        corner[1],
			Diameter: p.MountHoleD,
			Style:    p.MountStyle,
		}
		switch p.MountStyle {
		case config.MountStyleCounterbore:
			h.CboreD = p.CboreD
			h.CboreDepth = p.CboreDepth
		case config.MountStyleCountersink:
			h.CskD = p.CskD
			h.CskAngle = p.CskAngle
		}
		holes = append(holes, h)
	}
	return holes
}

// rowTopZ returns the top surface height of a row's platform.
func rowTopZ(row int, p config.Params) float64 {
	return p.BaseThickness + float64(row)*p.RowZStep
}
