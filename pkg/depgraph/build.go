package depgraph

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dirgraph/pkg/fileset"
	"github.com/matzehuels/dirgraph/pkg/imports"
)

// Stats counts what a build saw beyond the graph itself.
type Stats struct {
	Specifiers int // specifiers matched across all files
	Unresolved int // specifiers with no matching file
	SelfLoops  int // specifiers resolving to the importing file
	Duplicates int // repeated (source, target) pairs
}

// Builder builds graphs with a bounded pool of scanning goroutines.
type Builder struct {
	resolver *imports.Resolver
	workers  int
}

// Option configures a Builder.
type Option func(*Builder)

// WithWorkers limits concurrent file scans. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewBuilder returns a Builder using r. Workers default to GOMAXPROCS.
func NewBuilder(r *imports.Resolver, opts ...Option) *Builder {
	b := &Builder{resolver: r, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives the graph of fs with a default Builder.
func Build(fs fileset.FileSet, r *imports.Resolver) Data {
	data, _, _ := NewBuilder(r).BuildWithStats(context.Background(), fs)
	return data
}

// Build derives the graph of fs. It fails only if ctx is cancelled.
func (b *Builder) Build(ctx context.Context, fs fileset.FileSet) (Data, error) {
	data, _, err := b.BuildWithStats(ctx, fs)
	return data, err
}

// scan is the per-file result of resolving its specifiers.
type scan struct {
	targets    []string
	unresolved int
	selfLoops  int
	matched    int
}

// BuildWithStats is Build plus resolution counters.
func (b *Builder) BuildWithStats(ctx context.Context, fs fileset.FileSet) (Data, Stats, error) {
	paths := fs.Paths()
	scans := make([]scan, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scans[i] = b.scanFile(p, fs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Data{}, Stats{}, err
	}

	var stats Stats
	data := Data{Nodes: make([]Node, 0, len(paths))}
	seen := make(map[Edge]struct{})
	for i, p := range paths {
		data.Nodes = append(data.Nodes, Node{ID: p, Category: Categorize(p)})

		s := scans[i]
		stats.Specifiers += s.matched
		stats.Unresolved += s.unresolved
		stats.SelfLoops += s.selfLoops
		for _, target := range s.targets {
			e := Edge{Source: p, Target: target}
			if _, dup := seen[e]; dup {
				stats.Duplicates++
				continue
			}
			seen[e] = struct{}{}
			data.Edges = append(data.Edges, e)
		}
	}
	return data, stats, nil
}

func (b *Builder) scanFile(p string, fs fileset.FileSet) scan {
	var s scan
	for _, spec := range b.resolver.Specifiers(fs[p]) {
		s.matched++
		target, ok := b.resolver.Resolve(p, spec, fs)
		switch {
		case !ok:
			s.unresolved++
		case target == p:
			s.selfLoops++
		default:
			s.targets = append(s.targets, target)
		}
	}
	return s
}
