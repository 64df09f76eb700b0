package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/wemcdonald/boxr/pkg/cache"
	"github.com/wemcdonald/boxr/pkg/config"
	"github.com/wemcdonald/boxr/pkg/layout"
	"github.com/wemcdonald/boxr/pkg/observability"
	"github.com/wemcdonald/boxr/pkg/plan"
	"github.com/wemcdonald/boxr/pkg/render"
	"github.com/wemcdonald/boxr/pkg/tool"
	"github.com/wemcdonald/boxr/pkg/validate"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedResult is the serialized form of a computed layout and plan.
type cachedResult struct {
	Layout layout.Layout `json:"layout"`
	Plan   plan.Plan     `json:"plan"`
}

// Execute runs the complete ingest → validate → layout → plan → render
// pipeline with caching. Validation failures return a *validate.Error; the
// returned Result still carries the violations and whatever stages completed.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	params, err := opts.ResolveParams()
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.New().String(),
		Params:    params,
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Ingest
	ingestStart := time.Now()
	observability.Pipeline().OnIngestStart(ctx, opts.Input)
	set, err := tool.Load(opts.Input)
	if err != nil {
		observability.Pipeline().OnIngestComplete(ctx, opts.Input, 0, time.Since(ingestStart), err)
		return nil, fmt.Errorf("ingest: %w", err)
	}
	result.Tools = set
	active := set.Active()
	result.Stats.IngestTime = time.Since(ingestStart)
	observability.Pipeline().OnIngestComplete(ctx, opts.Input, set.Len(), result.Stats.IngestTime, nil)
	result.Stats.ToolCount = set.Len()
	result.Stats.ActiveCount = len(active)

	if result.InputHash, err = cache.HashFile(opts.Input); err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}

	r.Logger.Info("ingested tools",
		"total", set.Len(),
		"active", len(active),
		"duration", result.Stats.IngestTime)

	if violations := validate.Tools(active); len(violations) > 0 {
		result.Violations = violations
		return result, validate.AsError(violations)
	}

	// Stage 2+3: Layout and plan, cached together.
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(active))
	resultKey := r.resultKey(result.InputHash, params)
	hit := false
	if !opts.Refresh {
		hit = r.loadCachedResult(ctx, resultKey, result)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "result")
	} else {
		observability.Cache().OnCacheMiss(ctx, "result")
		result.Layout = layout.Compute(active, params)
		if violations := validate.Geometry(active, result.Layout, params); len(violations) > 0 {
			result.Violations = violations
			err := validate.AsError(violations)
			observability.Pipeline().OnLayoutComplete(ctx, time.Since(layoutStart), err)
			return result, err
		}
		result.Plan = plan.Build(active, result.Layout, params)
		r.storeCachedResult(ctx, resultKey, result)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.ResultHit = hit
	observability.Pipeline().OnLayoutComplete(ctx, result.Stats.LayoutTime, nil)

	r.Logger.Info("computed layout",
		"part_width", result.Layout.PartWidth,
		"part_depth", result.Layout.PartDepth,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.renderWithCacheInfo(ctx, active, result, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Check runs ingest and both validation phases without building a plan or
// rendering artifacts. The returned violations are empty for a valid input.
func (r *Runner) Check(ctx context.Context, opts Options) ([]validate.Violation, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	params, err := opts.ResolveParams()
	if err != nil {
		return nil, err
	}

	set, err := tool.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	active := set.Active()

	if violations := validate.Tools(active); len(violations) > 0 {
		return violations, nil
	}
	l := layout.Compute(active, params)
	return validate.Geometry(active, l, params), nil
}

func (r *Runner) resultKey(inputHash string, params config.Params) string {
	paramsData, _ := json.Marshal(params)
	return r.Keyer.ResultKey(inputHash, cache.ResultKeyOpts{
		ParamsHash: cache.Hash(paramsData),
	})
}

func (r *Runner) loadCachedResult(ctx context.Context, key string, result *Result) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return false
	}
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		return false
	}
	result.Layout = cached.Layout
	result.Plan = cached.Plan
	return true
}

func (r *Runner) storeCachedResult(ctx context.Context, key string, result *Result) {
	data, err := json.Marshal(cachedResult{Layout: result.Layout, Plan: result.Plan})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err == nil {
		observability.Cache().OnCacheSet(ctx, "result", len(data))
	}
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, active []tool.Tool, result *Result, opts Options) (map[string][]byte, bool, error) {
	planData, err := json.Marshal(cachedResult{Layout: result.Layout, Plan: result.Plan})
	if err != nil {
		return nil, false, fmt.Errorf("serialize result for cache key: %w", err)
	}
	resultHash := cache.Hash(planData)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatSVG:
			svgOpts := []render.SVGOption{
				render.WithSVGScale(opts.Scale),
				render.WithSVGTools(active),
			}
			if opts.Labels {
				svgOpts = append(svgOpts, render.WithSVGLabels())
			}
			if opts.Bands {
				svgOpts = append(svgOpts, render.WithSVGBands())
			}
			data = render.RenderSVG(result.Layout, result.Plan, svgOpts...)
		case FormatJSON:
			data, err = render.RenderJSON(result.Layout, result.Plan,
				render.WithJSONParams(result.Params),
				render.WithJSONRunID(result.RunID))
			if err != nil {
				return nil, false, fmt.Errorf("render json: %w", err)
			}
		}
		rendered[format] = data
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
