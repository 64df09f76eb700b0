// Package layout implements the grid spacing engine for holder generation.
//
// Compute derives per-column widths and per-row depths from the active tool
// placements, fills unoccupied grid indices with minimum-web spacers, places
// every tool center inside its band, and sizes the overall part footprint.
// The computation is a pure function of its inputs: the same tool set and
// parameters always produce an identical Layout.
package layout

import (
	"fmt"

	"github.com/wemcdonald/boxr/pkg/config"
	"github.com/wemcdonald/boxr/pkg/tool"
)

// GridPos identifies a cell in the holder grid.
type GridPos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MarshalText encodes the position as "row,col" so a GridPos can key a JSON
// map when layouts are cached.
func (g GridPos) MarshalText() ([]byte, error) {
	return fmt.Appendf(nil, "%d,%d", g.Row, g.Col), nil
}

// UnmarshalText decodes the "row,col" form.
func (g *GridPos) UnmarshalText(text []byte) error {
	_, err := fmt.Sscanf(string(text), "%d,%d", &g.Row, &g.Col)
	return err
}

// Point is a position on the part's top face, millimeters from the
// front-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout is the fully dimensioned grid produced by Compute. All lengths are
// millimeters. A Layout is immutable once returned; consumers must not
// modify its maps.
type Layout struct {
	// ColumnWidths and RowDepths cover every index in [0, MaxCol] and
	// [0, MaxRow]. Indices with no tool carry the minimum web width.
	ColumnWidths map[int]float64
	RowDepths    map[int]float64

	// Centers holds the hole center for every active tool.
	Centers map[GridPos]Point

	// Part footprint. PartDepth includes the mounting wing behind the
	// last row.
	PartWidth float64
	PartDepth float64

	// OriginX and OriginY are the edge margins the grid starts at.
	OriginX float64
	OriginY float64

	MaxRow int
	MaxCol int
}

// Compute produces the dimensioned grid for the active tools. It assumes
// structural validation has already passed: no duplicate active positions,
// no non-positive diameters, rows and columns non-negative.
func Compute(active []tool.Tool, p config.Params) Layout {
	if len(active) == 0 {
		return Layout{}
	}

	colMax := make(map[int]float64)
	rowMax := make(map[int]float64)
	for _, t := range active {
		colMax[t.Col] = max(colMax[t.Col], t.HandleDiameter)
		rowMax[t.Row] = max(rowMax[t.Row], t.HandleDiameter)
	}

	l := Layout{
		ColumnWidths: make(map[int]float64),
		RowDepths:    make(map[int]float64),
		Centers:      make(map[GridPos]Point, len(active)),
		OriginX:      p.EdgeMarginX,
		OriginY:      p.EdgeMarginY,
	}

	// A band must clear both the ergonomic padding and the structural web,
	// whichever demands more room.
	for col, handle := range colMax {
		l.ColumnWidths[col] = handle + max(p.HandleXPad, p.MinWeb)
		l.MaxCol = max(l.MaxCol, col)
	}
	for row, handle := range rowMax {
		l.RowDepths[row] = handle + max(p.HandleYPad, p.MinWeb)
		l.MaxRow = max(l.MaxRow, row)
	}

	// Gap filling is range-based: every index from 0 through the highest
	// occupied index exists in the grid, occupied or not. An empty index
	// contributes only the minimum spacer thickness.
	for col := 0; col <= l.MaxCol; col++ {
		if _, ok := l.ColumnWidths[col]; !ok {
			l.ColumnWidths[col] = p.MinWeb
		}
	}
	for row := 0; row <= l.MaxRow; row++ {
		if _, ok := l.RowDepths[row]; !ok {
			l.RowDepths[row] = p.MinWeb
		}
	}

	for _, t := range active {
		l.Centers[GridPos{Row: t.Row, Col: t.Col}] = Point{
			X: l.ColumnStart(t.Col) + l.ColumnWidths[t.Col]/2,
			Y: l.RowStart(t.Row) + l.RowDepths[t.Row]/2,
		}
	}

	l.PartWidth = 2*p.EdgeMarginX + l.GridWidth()
	l.PartDepth = 2*p.EdgeMarginY + l.GridDepth() + p.MountingWingDepth

	return l
}

// ColumnStart returns the X where column col's band begins.
func (l Layout) ColumnStart(col int) float64 {
	x := l.OriginX
	for c := 0; c < col; c++ {
		x += l.ColumnWidths[c]
	}
	return x
}

// RowStart returns the Y where row's band begins.
func (l Layout) RowStart(row int) float64 {
	y := l.OriginY
	for r := 0; r < row; r++ {
		y += l.RowDepths[r]
	}
	return y
}

// GridWidth returns the summed width of all column bands.
func (l Layout) GridWidth() float64 {
	var sum float64
	for _, w := range l.ColumnWidths {
		sum += w
	}
	return sum
}

// GridDepth returns the summed depth of all row bands.
func (l Layout) GridDepth() float64 {
	var sum float64
	for _, d := range l.RowDepths {
		sum += d
	}
	return sum
}

// GridBack returns the Y where the row bands end and the back margin (and
// mounting wing) begins.
func (l Layout) GridBack() float64 {
	return l.OriginY + l.GridDepth()
}
