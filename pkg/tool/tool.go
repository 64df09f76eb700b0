// Package tool defines the placed-tool records that drive holder generation.
//
// A [Set] is constructed once from an external table (CSV or XLSX) and is
// immutable for the duration of a generation run. Only the active subset ever
// reaches the layout engine; inactive records stay in the set so a disabled
// tool can keep its slot documented while an active replacement reuses the
// same grid coordinate.
package tool

// Tool is one placed-tool record. Diameters are millimeters.
type Tool struct {
	Label          string  `json:"label"`
	Row            int     `json:"row"`
	Col            int     `json:"col"`
	HandleDiameter float64 `json:"handle_d_mm"` // drives column/row sizing
	ShaftDiameter  float64 `json:"shaft_d_mm"`  // drives hole and collision sizing
	Active         bool    `json:"active"`
}

// Set is an immutable collection of placed tools.
type Set struct {
	tools []Tool
}

// NewSet copies tools into a new immutable Set.
func NewSet(tools []Tool) *Set {
	s := &Set{tools: make([]Tool, len(tools))}
	copy(s.tools, tools)
	return s
}

// Tools returns a copy of all records, active and inactive.
func (s *Set) Tools() []Tool {
	out := make([]Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// Active returns the active subset in input order. The filter runs fresh on
// every call; callers must not assume the result is cached.
func (s *Set) Active() []Tool {
	var out []Tool
	for _, t := range s.tools {
		if t.Active {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the total number of records, including inactive ones.
func (s *Set) Len() int { return len(s.tools) }
