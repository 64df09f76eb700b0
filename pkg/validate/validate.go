// Package validate gates holder generation with structural and geometric
// feasibility checks.
//
// Structural checks run against the tool set before layout; a failure there
// means the layout engine's preconditions do not hold and it must not run.
// Geometric checks run against a computed layout and the parameters. Every
// check collects all detected violations instead of stopping at the first,
// so a user can fix a whole CSV in one editing pass.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wemcdonald/boxr/pkg/config"
	"github.com/wemcdonald/boxr/pkg/errors"
	"github.com/wemcdonald/boxr/pkg/layout"
	"github.com/wemcdonald/boxr/pkg/tool"
)

// Violation is one detected feasibility problem. Violations are values, not
// control flow: callers decide whether and how to abort.
type Violation struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Labels  []string    `json:"labels,omitempty"` // tools involved, if any
}

// Error aggregates violations into a single error for pipeline callers.
type Error struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Violations) == 1 {
		return e.Violations[0].Message
	}
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("%d validation failures: %s", len(e.Violations), strings.Join(msgs, "; "))
}

// AsError wraps violations in an *Error, or returns nil if there are none.
func AsError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &Error{Violations: violations}
}

// Tools checks the active tool set for internal consistency. It returns every
// failing condition; an empty result means the layout engine may run.
func Tools(active []tool.Tool) []Violation {
	if len(active) == 0 {
		return []Violation{{
			Code:    errors.ErrCodeEmptyInput,
			Message: "no enabled tools in the input",
		}}
	}

	var out []Violation
	type pos struct{ row, col int }
	seen := make(map[pos]string, len(active))

	for i, t := range active {
		name := t.Label
		if name == "" {
			name = fmt.Sprintf("tool #%d", i+1)
			out = append(out, Violation{
				Code:    errors.ErrCodeInvalidLabel,
				Message: fmt.Sprintf("%s at (%d,%d) has an empty label", name, t.Row, t.Col),
			})
		}
		if t.Row < 0 || t.Col < 0 {
			out = append(out, Violation{
				Code:    errors.ErrCodeInvalidPosition,
				Message: fmt.Sprintf("%s has negative grid position (%d,%d)", name, t.Row, t.Col),
				Labels:  []string{t.Label},
			})
			continue // a negative position cannot collide meaningfully
		}
		if t.HandleDiameter <= 0 || t.ShaftDiameter <= 0 {
			out = append(out, Violation{
				Code: errors.ErrCodeInvalidDimension,
				Message: fmt.Sprintf("%s has non-positive diameters (handle %g mm, shaft %g mm)",
					name, t.HandleDiameter, t.ShaftDiameter),
				Labels: []string{t.Label},
			})
		}

		at := pos{row: t.Row, col: t.Col}
		if prev, dup := seen[at]; dup {
			out = append(out, Violation{
				Code: errors.ErrCodeDuplicatePosition,
				Message: fmt.Sprintf("tools %q and %q both occupy (%d,%d)",
					prev, name, t.Row, t.Col),
				Labels: []string{prev, t.Label},
			})
		} else {
			seen[at] = name
		}
	}
	return out
}

// Spacing verifies that no two active tools in a shared row or column sit
// closer than their shaft radii plus the minimum web allow. It uses the
// centers the layout engine produced, and reports every violating pair.
func Spacing(active []tool.Tool, l layout.Layout, p config.Params) []Violation {
	var out []Violation
	for i, a := range active {
		for _, b := range active[i+1:] {
			required := (a.ShaftDiameter+b.ShaftDiameter)/2 + p.MinWeb
			ca := l.Centers[layout.GridPos{Row: a.Row, Col: a.Col}]
			cb := l.Centers[layout.GridPos{Row: b.Row, Col: b.Col}]

			if a.Row == b.Row {
				if gap := abs(ca.X - cb.X); gap < required {
					out = append(out, spacingViolation(a, b, "row", gap, required))
				}
			}
			if a.Col == b.Col {
				if gap := abs(ca.Y - cb.Y); gap < required {
					out = append(out, spacingViolation(a, b, "column", gap, required))
				}
			}
		}
	}
	return out
}

func spacingViolation(a, b tool.Tool, axis string, gap, required float64) Violation {
	return Violation{
		Code: errors.ErrCodeSpacingViolation,
		Message: fmt.Sprintf("holes for %q and %q in the same %s are %.2f mm apart, need %.2f mm",
			a.Label, b.Label, axis, gap, required),
		Labels: []string{a.Label, b.Label},
	}
}

// MountOffsets verifies that the four corner mounting holes stay clear of
// both the near and far edges of the part. The near bound is inclusive
// (an offset exactly equal to hole radius plus minimum web passes); the far
// bound is strict.
func MountOffsets(l layout.Layout, p config.Params) []Violation {
	holeRadius := p.MountHoleD / 2
	clearance := holeRadius + p.MinWeb

	var out []Violation
	check := func(axis string, offset, partDim float64) {
		if offset < clearance {
			out = append(out, Violation{
				Code: errors.ErrCodeMountOffsetViolation,
				Message: fmt.Sprintf("mount hole %s offset %.2f mm is under the edge clearance %.2f mm",
					axis, offset, clearance),
			})
		}
		if offset >= partDim-clearance {
			out = append(out, Violation{
				Code: errors.ErrCodeMountOffsetViolation,
				Message: fmt.Sprintf("mount hole %s offset %.2f mm places holes outside the part (%.2f mm limit)",
					axis, offset, partDim-clearance),
			})
		}
	}
	check("X", p.MountHoleEdgeOffsetX, l.PartWidth)
	check("Y", p.MountHoleEdgeOffsetY, l.PartDepth)
	return out
}

// Params runs the static configuration checks that hold regardless of tool
// set contents.
func Params(p config.Params) []Violation {
	var out []Violation
	if p.BaseThickness < p.MinFloorThickness {
		out = append(out, Violation{
			Code: errors.ErrCodeFloorThicknessViolation,
			Message: fmt.Sprintf("base_thickness %.2f mm is below min_floor_thickness %.2f mm",
				p.BaseThickness, p.MinFloorThickness),
		})
	}
	return out
}

// Geometry runs every check that needs a computed layout: pairwise spacing,
// mount-hole offsets, and the static parameter checks. Results are collected
// across all checks.
func Geometry(active []tool.Tool, l layout.Layout, p config.Params) []Violation {
	var out []Violation
	out = append(out, Params(p)...)
	out = append(out, Spacing(active, l, p)...)
	out = append(out, MountOffsets(l, p)...)
	return out
}

// Codes returns the distinct violation codes present, sorted. Useful for
// summarizing a failed run.
func Codes(violations []Violation) []errors.Code {
	set := make(map[errors.Code]bool, len(violations))
	for _, v := range violations {
		set[v.Code] = true
	}
	out := make([]errors.Code, 0, len(set))
	for code := range set {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
