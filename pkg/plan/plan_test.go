package plan

import (
	"math"
	"strings"
	"testing"

	"github.com/wemcdonald/boxr/pkg/config"
	"github.com/wemcdonald/boxr/pkg/layout"
	"github.com/wemcdonald/boxr/pkg/tool"
)

const tolerance = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < tolerance }

func activeTool(label string, row, col int, handle, shaft float64) tool.Tool {
	return tool.Tool{Label: label, Row: row, Col: col, HandleDiameter: handle, ShaftDiameter: shaft, Active: true}
}

func buildFixture(t *testing.T) (Plan, config.Params) {
	t.Helper()
	p := config.Default()
	tools := []tool.Tool{
		activeTool("T10", 1, 0, 18, 4),
		activeTool("PH1", 0, 0, 20, 6),
	}
	l := layout.Compute(tools, p)
	return Build(tools, l, p), p
}

func TestBuildFootprint(t *testing.T) {
	pl, p := buildFixture(t)

	// col 0 width 26, rows 26 and 24, plus margins and the wing.
	if !approx(pl.PartWidth, 46) {
		t.Errorf("PartWidth = %g, want 46", pl.PartWidth)
	}
	if !approx(pl.PartDepth, 85) {
		t.Errorf("PartDepth = %g, want 85", pl.PartDepth)
	}
	if !approx(pl.BaseThickness, p.BaseThickness) || !approx(pl.WingDepth, p.MountingWingDepth) {
		t.Errorf("base/wing = %g/%g", pl.BaseThickness, pl.WingDepth)
	}
}

func TestBuildStepsPerBackRow(t *testing.T) {
	pl, p := buildFixture(t)

	if len(pl.Steps) != 1 {
		t.Fatalf("steps = %d, want 1 (front row has none)", len(pl.Steps))
	}
	s := pl.Steps[0]
	if s.Row != 1 {
		t.Errorf("step row = %d", s.Row)
	}
	if !approx(s.Z, p.BaseThickness) {
		t.Errorf("step Z = %g, want base thickness %g", s.Z, p.BaseThickness)
	}
	if !approx(s.Height, p.RowZStep) {
		t.Errorf("step height = %g, want %g", s.Height, p.RowZStep)
	}
	if !approx(s.YStart, 36) || !approx(s.YEnd, 60) {
		t.Errorf("step span = [%g, %g], want [36, 60]", s.YStart, s.YEnd)
	}
}

func TestStepsStopBeforeWing(t *testing.T) {
	pl, p := buildFixture(t)

	wingStart := pl.PartDepth - p.EdgeMarginY - p.MountingWingDepth
	for _, s := range pl.Steps {
		if s.YEnd > wingStart+tolerance {
			t.Errorf("step for row %d reaches %g, past wing start %g", s.Row, s.YEnd, wingStart)
		}
	}
}

func TestBuildHolesRowMajorOrder(t *testing.T) {
	pl, p := buildFixture(t)

	if len(pl.Holes) != 2 {
		t.Fatalf("holes = %d, want 2", len(pl.Holes))
	}
	// Input order was T10 first; the plan reorders row-major.
	if pl.Holes[0].Label != "PH1" || pl.Holes[1].Label != "T10" {
		t.Fatalf("hole order = %s, %s; want PH1, T10", pl.Holes[0].Label, pl.Holes[1].Label)
	}

	ph1 := pl.Holes[0]
	if !approx(ph1.X, 23) || !approx(ph1.Y, 23) {
		t.Errorf("PH1 at (%g, %g), want (23, 23)", ph1.X, ph1.Y)
	}
	if !approx(ph1.Diameter, 6+p.HoleBuffer) {
		t.Errorf("PH1 diameter = %g, want shaft + buffer", ph1.Diameter)
	}
	if !approx(ph1.TopZ, p.BaseThickness) {
		t.Errorf("PH1 top = %g, want %g", ph1.TopZ, p.BaseThickness)
	}
	if !approx(ph1.ChamferWidth, p.HoleChamferD/2) || !approx(ph1.ChamferDepth, p.HoleChamferDepth) {
		t.Errorf("PH1 chamfer = %g/%g", ph1.ChamferWidth, ph1.ChamferDepth)
	}

	t10 := pl.Holes[1]
	if !approx(t10.TopZ, p.BaseThickness+p.RowZStep) {
		t.Errorf("T10 top = %g, want stepped surface", t10.TopZ)
	}
}

func TestLabelsClampedIntoRowBand(t *testing.T) {
	pl, p := buildFixture(t)

	if len(pl.Labels) != 2 {
		t.Fatalf("labels = %d, want 2", len(pl.Labels))
	}

	// With stock spacing the text lands just ahead of the band and clamps.
	ph1 := pl.Labels[0]
	if ph1.Text != "PH1" {
		t.Fatalf("label order: got %s first", ph1.Text)
	}
	if !ph1.Clamped {
		t.Error("PH1 label should clamp with stock spacing")
	}
	if !approx(ph1.Y, p.EdgeMarginY+p.MinWeb) {
		t.Errorf("PH1 label Y = %g, want clamped to %g", ph1.Y, p.EdgeMarginY+p.MinWeb)
	}
	if len(pl.Warnings) != 2 {
		t.Errorf("warnings = %v, want one per clamped label", pl.Warnings)
	}
	for _, w := range pl.Warnings {
		if !strings.Contains(w, "clamped") {
			t.Errorf("warning should mention clamping: %q", w)
		}
	}
	if ph1.Font != p.FontName || !approx(ph1.Height, p.TextHeight) || !approx(ph1.EmbossHeight, p.EmbossHeight) {
		t.Errorf("label styling = %+v", ph1)
	}
}

func TestLabelsUnclampedWithRoom(t *testing.T) {
	p := config.Default()
	p.HandleYPad = 16 // generous row bands leave room in front of the handle
	tools := []tool.Tool{activeTool("PH1", 0, 0, 20, 6)}
	l := layout.Compute(tools, p)

	pl := Build(tools, l, p)
	if len(pl.Labels) != 1 {
		t.Fatal("want one label")
	}
	lb := pl.Labels[0]
	if lb.Clamped {
		t.Error("label should not clamp with generous padding")
	}
	// center Y minus half handle minus text distance
	wantY := (p.EdgeMarginY + 18) - 10 - p.TextYDist
	if !approx(lb.Y, wantY) {
		t.Errorf("label Y = %g, want %g", lb.Y, wantY)
	}
	if len(pl.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", pl.Warnings)
	}
}

func TestMountHolesAtCorners(t *testing.T) {
	pl, p := buildFixture(t)

	if len(pl.MountHoles) != 4 {
		t.Fatalf("mount holes = %d, want 4", len(pl.MountHoles))
	}

	type corner struct{ x, y float64 }
	want := map[corner]bool{
		{p.MountHoleEdgeOffsetX, p.MountHoleEdgeOffsetY}:                               true,
		{pl.PartWidth - p.MountHoleEdgeOffsetX, p.MountHoleEdgeOffsetY}:                true,
		{p.MountHoleEdgeOffsetX, pl.PartDepth - p.MountHoleEdgeOffsetY}:                true,
		{pl.PartWidth - p.MountHoleEdgeOffsetX, pl.PartDepth - p.MountHoleEdgeOffsetY}: true,
	}
	for _, h := range pl.MountHoles {
		if !want[corner{h.X, h.Y}] {
			t.Errorf("unexpected mount hole at (%g, %g)", h.X, h.Y)
		}
		if !approx(h.Diameter, p.MountHoleD) {
			t.Errorf("mount hole diameter = %g", h.Diameter)
		}
	}
}

func TestMountHoleStyles(t *testing.T) {
	p := config.Default()
	tools := []tool.Tool{activeTool("A", 0, 0, 20, 6)}
	l := layout.Compute(tools, p)

	t.Run("Counterbore", func(t *testing.T) {
		pp := p
		pp.MountStyle = config.MountStyleCounterbore
		h := Build(tools, l, pp).MountHoles[0]
		if !approx(h.CboreD, pp.CboreD) || !approx(h.CboreDepth, pp.CboreDepth) {
			t.Errorf("counterbore dims = %g/%g", h.CboreD, h.CboreDepth)
		}
		if h.CskD != 0 {
			t.Error("countersink dims should be zero for counterbore style")
		}
	})

	t.Run("Countersink", func(t *testing.T) {
		pp := p
		pp.MountStyle = config.MountStyleCountersink
		h := Build(tools, l, pp).MountHoles[0]
		if !approx(h.CskD, pp.CskD) || !approx(h.CskAngle, pp.CskAngle) {
			t.Errorf("countersink dims = %g/%g", h.CskD, h.CskAngle)
		}
		if h.CboreD != 0 {
			t.Error("counterbore dims should be zero for countersink style")
		}
	})

	t.Run("None", func(t *testing.T) {
		pp := p
		pp.MountStyle = config.MountStyleNone
		h := Build(tools, l, pp).MountHoles[0]
		if h.CboreD != 0 || h.CskD != 0 {
			t.Errorf("plain style should carry no recess dims: %+v", h)
		}
	})
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	p := config.Default()
	tools := []tool.Tool{
		activeTool("B", 0, 1, 20, 6),
		activeTool("A", 0, 0, 20, 6),
	}
	l := layout.Compute(tools, p)

	Build(tools, l, p)
	if tools[0].Label != "B" || tools[1].Label != "A" {
		t.Error("Build must not reorder the caller's slice")
	}
}
