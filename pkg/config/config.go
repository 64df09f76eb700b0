// Package config holds the spacing and construction parameters for holder
// generation.
//
// All lengths are millimeters. Parameters ship with workshop-tested defaults
// and can be overridden from a TOML file, so a holder definition is fully
// described by a tool table plus an optional boxr.toml next to it.
package config

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wemcdonald/boxr/pkg/errors"
)

// Mount styles for the four corner mounting holes.
const (
	MountStyleNone        = "none"
	MountStyleCountersink = "countersink"
	MountStyleCounterbore = "counterbore"
)

// validMountStyles is the set of accepted mount_style values.
var validMountStyles = map[string]bool{
	MountStyleNone:        true,
	MountStyleCountersink: true,
	MountStyleCounterbore: true,
}

// Params is the full parameter set consumed by layout, validation, and plan
// construction. Treated as read-only for the duration of one generation run.
type Params struct {
	// Grid spacing
	HandleXPad  float64 `toml:"handle_x_pad"`  // extra X spacing per column beyond handle diameter
	HandleYPad  float64 `toml:"handle_y_pad"`  // extra Y spacing per row beyond handle diameter
	EdgeMarginX float64 `toml:"edge_margin_x"` // left/right margin from outermost tools
	EdgeMarginY float64 `toml:"edge_margin_y"` // front/back margin from outermost tools
	MinWeb      float64 `toml:"min_web"`       // minimum web thickness between holes

	// Body construction
	RowZStep          float64 `toml:"row_z_step"`          // height step between row platforms
	BaseThickness     float64 `toml:"base_thickness"`      // base slab thickness
	MinFloorThickness float64 `toml:"min_floor_thickness"` // minimum platform thickness
	MountingWingDepth float64 `toml:"mounting_wing_depth"` // flat un-holed zone behind the last row

	// Tool holes
	HoleBuffer       float64 `toml:"hole_buffer"`        // clearance added to shaft diameter
	HoleChamferD     float64 `toml:"hole_chamfer_d"`     // chamfer top width
	HoleChamferDepth float64 `toml:"hole_chamfer_depth"` // chamfer depth

	// Labels
	TextYDist    float64 `toml:"text_y_dist"`   // distance in front of hole center
	TextHeight   float64 `toml:"text_height"`   // sketch text height
	EmbossHeight float64 `toml:"emboss_height"` // emboss extrusion height
	FontName     string  `toml:"font_name"`     // font for labels

	// Mounting holes
	MountHoleD           float64 `toml:"mount_hole_d"`             // mounting hole diameter
	MountHoleEdgeOffsetX float64 `toml:"mount_hole_edge_offset_x"` // offset from left/right edges
	MountHoleEdgeOffsetY float64 `toml:"mount_hole_edge_offset_y"` // offset from front/back edges
	MountStyle           string  `toml:"mount_style"`              // none, countersink, counterbore
	CboreD               float64 `toml:"cbore_d"`                  // counterbore diameter
	CboreDepth           float64 `toml:"cbore_depth"`              // counterbore depth
	CskD                 float64 `toml:"csk_d"`                    // countersink diameter
	CskAngle             float64 `toml:"csk_angle"`                // countersink included angle (degrees)
}

// Default returns the stock parameter set.
func Default() Params {
	return Params{
		HandleXPad:  6,
		HandleYPad:  6,
		EdgeMarginX: 10,
		EdgeMarginY: 10,
		MinWeb:      3,

		RowZStep:          8,
		BaseThickness:     12,
		MinFloorThickness: 8,
		MountingWingDepth: 15,

		HoleBuffer:       0.6,
		HoleChamferD:     2.0,
		HoleChamferDepth: 1.5,

		TextYDist:    4,
		TextHeight:   5,
		EmbossHeight: 0.8,
		FontName:     "Arial",

		MountHoleD:           5.2,
		MountHoleEdgeOffsetX: 12,
		MountHoleEdgeOffsetY: 12,
		MountStyle:           MountStyleCounterbore,
		CboreD:               9.5,
		CboreDepth:           3.0,
		CskD:                 10,
		CskAngle:             90,
	}
}

// Load reads a TOML parameter file and overlays it on the defaults.
// Keys absent from the file keep their default values. Unknown keys are
// rejected so typos don't silently fall back to defaults.
func Load(path string) (Params, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidParams, err, "read params file %s", path)
	}
	meta, err := toml.Decode(string(data), &p)
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidParams, err, "parse params file %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return p, errors.New(errors.ErrCodeInvalidParams, "unknown parameter %q in %s", undecoded[0].String(), path)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate checks static parameter consistency that does not depend on any
// tool set: mount style membership and positivity of the lengths every
// downstream computation divides by or accumulates.
//
// The floor-thickness rule (base_thickness >= min_floor_thickness) is part of
// the validation layer in pkg/validate, not here, so callers get it reported
// alongside the geometric violations.
func (p Params) Validate() error {
	if !validMountStyles[p.MountStyle] {
		return errors.New(errors.ErrCodeInvalidParams,
			"mount_style %q must be one of none, countersink, counterbore", p.MountStyle)
	}
	for name, v := range map[string]float64{
		"edge_margin_x":  p.EdgeMarginX,
		"edge_margin_y":  p.EdgeMarginY,
		"min_web":        p.MinWeb,
		"base_thickness": p.BaseThickness,
		"mount_hole_d":   p.MountHoleD,
	} {
		if v <= 0 {
			return errors.New(errors.ErrCodeInvalidParams, "%s must be positive, got %g", name, v)
		}
	}
	if p.MountingWingDepth < 0 {
		return errors.New(errors.ErrCodeInvalidParams,
			"mounting_wing_depth must be non-negative, got %g", p.MountingWingDepth)
	}
	return nil
}

// WriteDefault writes the default parameter set as a commented TOML scaffold.
func WriteDefault(w io.Writer) error {
	return toml.NewEncoder(w).Encode(Default())
}
