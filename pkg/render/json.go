package render

import (
	"encoding/json"

	"github.com/wemcdonald/boxr/pkg/config"
	"github.com/wemcdonald/boxr/pkg/layout"
	"github.com/wemcdonald/boxr/pkg/plan"
)

// JSONOption configures JSON export via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	params *config.Params
	runID  string
}

// WithJSONParams records the parameter set in the output so a document fully
// describes its own generation and can be re-rendered identically.
func WithJSONParams(p config.Params) JSONOption {
	return func(r *jsonRenderer) { r.params = &p }
}

// WithJSONRunID stamps the document with the pipeline run identifier.
func WithJSONRunID(id string) JSONOption {
	return func(r *jsonRenderer) { r.runID = id }
}

type jsonOutput struct {
	RunID  string         `json:"run_id,omitempty"`
	Params *config.Params `json:"params,omitempty"`
	Layout jsonLayout     `json:"layout"`
	Plan   plan.Plan      `json:"plan"`
}

// jsonLayout flattens the layout's maps into ordered slices; JSON objects
// with integer-like keys are awkward for downstream consumers.
type jsonLayout struct {
	PartWidth    float64      `json:"part_width_mm"`
	PartDepth    float64      `json:"part_depth_mm"`
	ColumnWidths []float64    `json:"column_widths_mm"`
	RowDepths    []float64    `json:"row_depths_mm"`
	Centers      []jsonCenter `json:"centers"`
}

type jsonCenter struct {
	Row int     `json:"row"`
	Col int     `json:"col"`
	X   float64 `json:"x_mm"`
	Y   float64 `json:"y_mm"`
}

// RenderJSON exports the layout and construction plan as a pretty-printed
// JSON document, the primary interchange format for downstream CAD tooling.
// Output is deterministic: bands are index-ordered and centers row-major.
func RenderJSON(l layout.Layout, pl plan.Plan, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		RunID:  r.runID,
		Params: r.params,
		Layout: buildJSONLayout(l),
		Plan:   pl,
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONLayout(l layout.Layout) jsonLayout {
	jl := jsonLayout{
		PartWidth: l.PartWidth,
		PartDepth: l.PartDepth,
		Centers:   []jsonCenter{},
	}
	if len(l.ColumnWidths) == 0 {
		jl.ColumnWidths = []float64{}
		jl.RowDepths = []float64{}
		return jl
	}

	jl.ColumnWidths = make([]float64, l.MaxCol+1)
	for col := 0; col <= l.MaxCol; col++ {
		jl.ColumnWidths[col] = l.ColumnWidths[col]
	}
	jl.RowDepths = make([]float64, l.MaxRow+1)
	for row := 0; row <= l.MaxRow; row++ {
		jl.RowDepths[row] = l.RowDepths[row]
	}

	for row := 0; row <= l.MaxRow; row++ {
		for col := 0; col <= l.MaxCol; col++ {
			if c, ok := l.Centers[layout.GridPos{Row: row, Col: col}]; ok {
				jl.Centers = append(jl.Centers, jsonCenter{Row: row, Col: col, X: c.X, Y: c.Y})
			}
		}
	}
	return jl
}
