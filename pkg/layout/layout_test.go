package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/wemcdonald/boxr/pkg/config"
	"github.com/wemcdonald/boxr/pkg/tool"
)

const tolerance = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < tolerance }

func activeTool(label string, row, col int, handle, shaft float64) tool.Tool {
	return tool.Tool{Label: label, Row: row, Col: col, HandleDiameter: handle, ShaftDiameter: shaft, Active: true}
}

func TestComputeSingleTool(t *testing.T) {
	p := config.Default()
	tools := []tool.Tool{activeTool("PH1", 0, 0, 20, 6)}

	l := Compute(tools, p)

	if l.MaxRow != 0 || l.MaxCol != 0 {
		t.Errorf("MaxRow/MaxCol = %d/%d, want 0/0", l.MaxRow, l.MaxCol)
	}
	if len(l.ColumnWidths) != 1 || len(l.RowDepths) != 1 {
		t.Fatalf("bands = %d cols, %d rows, want 1/1", len(l.ColumnWidths), len(l.RowDepths))
	}

	wantWidth := 20 + p.HandleXPad // pad exceeds min web
	if !approx(l.ColumnWidths[0], wantWidth) {
		t.Errorf("ColumnWidths[0] = %g, want %g", l.ColumnWidths[0], wantWidth)
	}

	center := l.Centers[GridPos{0, 0}]
	if !approx(center.X, p.EdgeMarginX+l.ColumnWidths[0]/2) {
		t.Errorf("center X = %g, want %g", center.X, p.EdgeMarginX+l.ColumnWidths[0]/2)
	}
	if !approx(center.Y, p.EdgeMarginY+l.RowDepths[0]/2) {
		t.Errorf("center Y = %g, want %g", center.Y, p.EdgeMarginY+l.RowDepths[0]/2)
	}

	assertFootprintInvariant(t, l, p)
}

func TestComputeIsDeterministic(t *testing.T) {
	p := config.Default()
	tools := []tool.Tool{
		activeTool("A", 0, 0, 20, 6),
		activeTool("B", 0, 2, 28, 8),
		activeTool("C", 1, 1, 35, 10),
		activeTool("D", 2, 0, 18, 5),
	}

	a := Compute(tools, p)
	b := Compute(tools, p)
	if !reflect.DeepEqual(a, b) {
		t.Error("Compute should be deterministic for identical inputs")
	}
}

func TestColumnWidthUsesMaxHandleInColumn(t *testing.T) {
	p := config.Default()
	tools := []tool.Tool{
		activeTool("small", 0, 0, 18, 5),
		activeTool("large", 1, 0, 32, 8),
	}

	l := Compute(tools, p)
	want := 32 + p.HandleXPad
	if !approx(l.ColumnWidths[0], want) {
		t.Errorf("ColumnWidths[0] = %g, want %g (driven by largest handle)", l.ColumnWidths[0], want)
	}
}

func TestMinWebDominatesSmallPad(t *testing.T) {
	p := config.Default()
	p.HandleXPad = 1
	p.MinWeb = 3
	tools := []tool.Tool{activeTool("A", 0, 0, 20, 6)}

	l := Compute(tools, p)
	if !approx(l.ColumnWidths[0], 20+3) {
		t.Errorf("ColumnWidths[0] = %g, want 23 (min web dominates)", l.ColumnWidths[0])
	}
}

func TestGapFilling(t *testing.T) {
	p := config.Default()
	tools := []tool.Tool{
		activeTool("A", 0, 0, 20, 6),
		activeTool("B", 0, 2, 20, 6),
		activeTool("C", 0, 3, 20, 6),
	}

	l := Compute(tools, p)

	if l.MaxCol != 3 {
		t.Fatalf("MaxCol = %d, want 3", l.MaxCol)
	}
	if !approx(l.ColumnWidths[1], p.MinWeb) {
		t.Errorf("ColumnWidths[1] = %g, want min web %g", l.ColumnWidths[1], p.MinWeb)
	}
	if len(l.ColumnWidths) != 4 {
		t.Errorf("columns = %d, want exactly 4 (no synthesized columns beyond MaxCol)", len(l.ColumnWidths))
	}
}

func TestGapFillingStartsAtZero(t *testing.T) {
	// Tools only at columns 1 and 3: indices 0 and 2 still exist as spacers.
	p := config.Default()
	tools := []tool.Tool{
		activeTool("A", 0, 1, 20, 6),
		activeTool("B", 0, 3, 20, 6),
	}

	l := Compute(tools, p)

	for _, col := range []int{0, 2} {
		if !approx(l.ColumnWidths[col], p.MinWeb) {
			t.Errorf("ColumnWidths[%d] = %g, want min web %g", col, l.ColumnWidths[col], p.MinWeb)
		}
	}
	if len(l.ColumnWidths) != 4 {
		t.Errorf("columns = %d, want 4", len(l.ColumnWidths))
	}
}

func TestBandContainment(t *testing.T) {
	p := config.Default()
	tools := []tool.Tool{
		activeTool("A", 0, 0, 20, 6),
		activeTool("B", 0, 1, 34, 8),
		activeTool("C", 2, 1, 16, 4),
		activeTool("D", 1, 3, 25, 6),
	}

	l := Compute(tools, p)

	for pos, c := range l.Centers {
		colStart := l.ColumnStart(pos.Col)
		rowStart := l.RowStart(pos.Row)
		if c.X < colStart || c.X > colStart+l.ColumnWidths[pos.Col] {
			t.Errorf("center X for %v = %g outside band [%g, %g]",
				pos, c.X, colStart, colStart+l.ColumnWidths[pos.Col])
		}
		if c.Y < rowStart || c.Y > rowStart+l.RowDepths[pos.Row] {
			t.Errorf("center Y for %v = %g outside band [%g, %g]",
				pos, c.Y, rowStart, rowStart+l.RowDepths[pos.Row])
		}
		// A center is always half a band from its own band start.
		if !approx(c.X-colStart, l.ColumnWidths[pos.Col]/2) {
			t.Errorf("center X for %v not centered in band", pos)
		}
	}
}

func TestFootprintIncludesMountingWing(t *testing.T) {
	p := config.Default()
	tools := []tool.Tool{activeTool("A", 0, 0, 20, 6)}

	with := Compute(tools, p)
	p.MountingWingDepth = 0
	without := Compute(tools, p)

	if !approx(with.PartDepth-without.PartDepth, config.Default().MountingWingDepth) {
		t.Errorf("wing depth delta = %g, want %g",
			with.PartDepth-without.PartDepth, config.Default().MountingWingDepth)
	}
	if !approx(with.PartWidth, without.PartWidth) {
		t.Error("mounting wing must not change part width")
	}
}

func TestComputeEmptyInput(t *testing.T) {
	l := Compute(nil, config.Default())
	if l.PartWidth != 0 || l.PartDepth != 0 || len(l.Centers) != 0 {
		t.Errorf("empty input should yield zero layout, got %+v", l)
	}
}

func TestCentersOnlyForActiveTools(t *testing.T) {
	p := config.Default()
	tools := []tool.Tool{
		activeTool("A", 0, 0, 20, 6),
		activeTool("B", 1, 1, 20, 6),
	}

	l := Compute(tools, p)
	if len(l.Centers) != 2 {
		t.Fatalf("centers = %d, want 2", len(l.Centers))
	}
	if _, ok := l.Centers[GridPos{0, 1}]; ok {
		t.Error("no center should exist for an empty cell")
	}
}

func TestSparseGridFootprint(t *testing.T) {
	p := config.Default()
	tools := []tool.Tool{
		activeTool("A", 0, 0, 20, 6),
		activeTool("B", 3, 2, 30, 8),
	}

	l := Compute(tools, p)

	if l.MaxRow != 3 || l.MaxCol != 2 {
		t.Fatalf("MaxRow/MaxCol = %d/%d, want 3/2", l.MaxRow, l.MaxCol)
	}
	assertFootprintInvariant(t, l, p)

	// Rows 1 and 2 are spacers.
	for _, row := range []int{1, 2} {
		if !approx(l.RowDepths[row], p.MinWeb) {
			t.Errorf("RowDepths[%d] = %g, want min web", row, l.RowDepths[row])
		}
	}
}

// assertFootprintInvariant checks the part dimensions against the band sums.
func assertFootprintInvariant(t *testing.T, l Layout, p config.Params) {
	t.Helper()

	var sumW, sumD float64
	for _, w := range l.ColumnWidths {
		sumW += w
	}
	for _, d := range l.RowDepths {
		sumD += d
	}

	if !approx(l.PartWidth, 2*p.EdgeMarginX+sumW) {
		t.Errorf("PartWidth = %g, want %g", l.PartWidth, 2*p.EdgeMarginX+sumW)
	}
	if !approx(l.PartDepth, 2*p.EdgeMarginY+sumD+p.MountingWingDepth) {
		t.Errorf("PartDepth = %g, want %g", l.PartDepth, 2*p.EdgeMarginY+sumD+p.MountingWingDepth)
	}
}
