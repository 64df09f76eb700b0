// Package pipeline provides the core generation pipeline for boxr.
//
// This package implements the complete ingest → validate → layout → plan →
// render pipeline used by every CLI command. Centralizing it keeps caching
// and validation behavior identical regardless of the entry point.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Ingest: Read the tool table (CSV or XLSX) and check it structurally
//  2. Layout: Compute the dimensioned grid and validate its geometry
//  3. Plan: Assemble the construction plan (steps, holes, labels, mounts)
//  4. Render: Generate output artifacts (SVG preview, JSON document)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "tools.csv",
//	    Formats: []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Validation failures are returned as a *validate.Error whose violations are
// also recorded on the Result, so callers can report every problem at once.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wemcdonald/boxr/pkg/cache"
	"github.com/wemcdonald/boxr/pkg/config"
	"github.com/wemcdonald/boxr/pkg/layout"
	"github.com/wemcdonald/boxr/pkg/plan"
	"github.com/wemcdonald/boxr/pkg/tool"
	"github.com/wemcdonald/boxr/pkg/validate"
)

// Format constants for output artifacts.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// DefaultScale is the default SVG preview scale in pixels per millimeter.
const DefaultScale = 4.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for recording runs.
type Options struct {
	// Ingest options
	Input      string `json:"input"`                 // tool table path (CSV or XLSX)
	ParamsFile string `json:"params_file,omitempty"` // optional TOML parameter file

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // SVG pixels per millimeter
	Labels  bool     `json:"labels,omitempty"`
	Bands   bool     `json:"bands,omitempty"` // draw band guides in the SVG

	// Refresh bypasses the cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Params *config.Params `json:"-"` // overrides ParamsFile when set
	Logger *log.Logger    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// Params is the resolved parameter set the run used.
	Params config.Params

	// Tools is the full ingested set, disabled rows included.
	Tools *tool.Set

	// Layout and Plan are the computed geometry. Zero-valued when
	// validation failed before layout.
	Layout layout.Layout
	Plan   plan.Plan

	// Violations holds every validation failure, structural or geometric.
	// Empty on success.
	Violations []validate.Violation

	// InputHash is the content hash of the input file.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ToolCount   int // rows ingested, disabled included
	ActiveCount int
	IngestTime  time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ResultHit bool // layout and plan came from cache
	RenderHit bool // all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return fmt.Errorf("input is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResolveParams returns the parameter set for this run: the explicit Params
// override, the ParamsFile, or the stock defaults, in that order.
func (o *Options) ResolveParams() (config.Params, error) {
	if o.Params != nil {
		p := *o.Params
		return p, p.Validate()
	}
	if o.ParamsFile != "" {
		return config.Load(o.ParamsFile)
	}
	return config.Default(), nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
		Labels: o.Labels,
	}
}
