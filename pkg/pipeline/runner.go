package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dirgraph/pkg/cache"
	"github.com/matzehuels/dirgraph/pkg/depgraph"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/fileset"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/imports"
	"github.com/matzehuels/dirgraph/pkg/layout"
	"github.com/matzehuels/dirgraph/pkg/observability"
)

// Runner executes pipeline stages with caching.
//
// The Runner holds no pipeline results. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Resolver *imports.Resolver
	Logger   *log.Logger

	// Workers bounds concurrent file scans during analysis; 0 means GOMAXPROCS.
	Workers int
}

// NewRunner creates a runner. Nil arguments get defaults: a NullCache,
// a DefaultKeyer, a resolver with the default configuration and the
// default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, resolver *imports.Resolver, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if resolver == nil {
		resolver = imports.New(imports.DefaultConfig())
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Resolver: resolver,
		Logger:   logger,
	}
}

// Execute runs the complete analyze → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, fs fileset.FileSet, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	result := &Result{}
	result.Stats.FileCount = len(fs)

	// Stage 1: Analyze
	start := time.Now()
	data, hit, err := r.AnalyzeWithCacheInfo(ctx, fs, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Graph = data
	result.Stats.AnalyzeTime = time.Since(start)
	result.Stats.NodeCount = len(data.Nodes)
	result.Stats.EdgeCount = len(data.Edges)
	result.CacheInfo.AnalyzeHit = hit
	if b, err := graph.MarshalGraph(data); err == nil {
		result.GraphHash = cache.Hash(b)
	}

	r.Logger.Info("analyzed imports",
		"files", len(fs),
		"nodes", len(data.Nodes),
		"edges", len(data.Edges),
		"cached", hit,
		"duration", result.Stats.AnalyzeTime)

	// Stage 2: Layout
	start = time.Now()
	l, hit, err := r.ComputeLayoutWithCacheInfo(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(start)
	result.Stats.DirCount = len(l.Directories)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"directories", len(l.Directories),
		"width", l.Width,
		"height", l.Height,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, data, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"viz", opts.VizType,
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AnalyzeWithCacheInfo builds the dependency graph of fs and reports
// whether it came from the cache.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, fs fileset.FileSet, opts Options) (depgraph.Data, bool, error) {
	for _, p := range fs.Paths() {
		if err := errs.ValidatePath(p); err != nil {
			return depgraph.Data{}, false, err
		}
	}

	key := r.Keyer.GraphKey(fs.Hash(), r.Resolver.Fingerprint())
	if !opts.Refresh {
		if b, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if data, err := graph.UnmarshalGraph(b); err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				return data, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, len(fs))
	start := time.Now()

	var bopts []depgraph.Option
	if r.Workers > 0 {
		bopts = append(bopts, depgraph.WithWorkers(r.Workers))
	}
	data, stats, err := depgraph.NewBuilder(r.Resolver, bopts...).BuildWithStats(ctx, fs)
	hooks.OnAnalyzeComplete(ctx, len(data.Nodes), len(data.Edges), time.Since(start), err)
	if err != nil {
		return depgraph.Data{}, false, err
	}
	r.Logger.Debug("resolved specifiers",
		"specifiers", stats.Specifiers,
		"unresolved", stats.Unresolved,
		"self_loops", stats.SelfLoops,
		"duplicates", stats.Duplicates)

	r.store(ctx, "graph", key, cache.TTLGraph, func() ([]byte, error) { return graph.MarshalGraph(data) })
	return data, false, nil
}

// Analyze is AnalyzeWithCacheInfo without the cache hit info.
func (r *Runner) Analyze(ctx context.Context, fs fileset.FileSet, opts Options) (depgraph.Data, error) {
	data, _, err := r.AnalyzeWithCacheInfo(ctx, fs, opts)
	return data, err
}

// ComputeLayoutWithCacheInfo lays out data and reports whether the layout
// came from the cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, data depgraph.Data, opts Options) (graph.Layout, bool, error) {
	graphData, err := graph.MarshalGraph(data)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	key := r.Keyer.LayoutKey(cache.Hash(graphData), LayoutVersion)

	if !opts.Refresh {
		if b, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := graph.UnmarshalLayout(b); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return l, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(data.Nodes))
	start := time.Now()

	res, err := layout.Build(data.Nodes)
	hooks.OnLayoutComplete(ctx, len(res.Directories), time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}
	l := graph.FromLayout(res, data.Edges)

	r.store(ctx, "layout", key, cache.TTLLayout, func() ([]byte, error) { return graph.MarshalLayout(l) })
	return l, false, nil
}

// ComputeLayout is ComputeLayoutWithCacheInfo without the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, data depgraph.Data, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, data, opts)
	return l, err
}

// RenderWithCacheInfo renders every requested format and reports whether
// all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, data depgraph.Data, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			b, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = b
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.VizType, opts.Formats)
	start := time.Now()

	rendered, err := RenderFromLayout(ctx, data, l, opts)
	hooks.OnRenderComplete(ctx, opts.VizType, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, b := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, "artifact", key, cache.TTLArtifact, func() ([]byte, error) { return b, nil })
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, data depgraph.Data, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, data, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes a cache entry. Cache failures are logged and never fail the
// pipeline.
func (r *Runner) store(ctx context.Context, keyType, key string, ttl time.Duration, encode func() ([]byte, error)) {
	b, err := encode()
	if err != nil {
		r.Logger.Warn("encode cache entry", "type", keyType, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, b, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(b))
}
