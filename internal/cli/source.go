package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/dirgraph/pkg/cache"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/fileset"
)

// githubPrefix marks a source argument as a GitHub repository.
const githubPrefix = "github:"

// loadSource reads a FileSet from a directory, a .zip archive or a GitHub
// repository given as "github:owner/repo[@ref]" or a github.com URL.
// GitHub responses are kept in ch when it is non-nil.
func (c *CLI) loadSource(ctx context.Context, arg string, limits fileset.Limits, ch cache.Cache) (fileset.FileSet, fileset.Stats, error) {
	if isGitHubSource(arg) {
		repo, err := fileset.ParseRepo(strings.TrimPrefix(arg, githubPrefix))
		if err != nil {
			return nil, fileset.Stats{}, err
		}
		c.Logger.Debug("fetching repository", "repo", repo.String(), "auth", c.Config.GitHubToken != "")
		var opts []fileset.GitHubOption
		if ch != nil {
			opts = append(opts, fileset.WithCache(ch, nil))
		}
		return fileset.NewGitHubClient(c.Config.GitHubToken, opts...).Fetch(ctx, repo, limits)
	}

	info, err := os.Stat(arg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fileset.Stats{}, errs.New(errs.ErrCodeFileNotFound, "source not found: %s", arg)
		}
		return nil, fileset.Stats{}, err
	}
	if info.IsDir() {
		return fileset.LoadDir(ctx, arg, limits)
	}
	if !strings.EqualFold(filepath.Ext(arg), ".zip") {
		return nil, fileset.Stats{}, errs.New(errs.ErrCodeInvalidInput, "unsupported source %s: expected a directory, a .zip archive or github:owner/repo", arg)
	}

	f, err := os.Open(arg)
	if err != nil {
		return nil, fileset.Stats{}, err
	}
	defer f.Close()
	return fileset.LoadZip(f, info.Size(), limits)
}

func isGitHubSource(arg string) bool {
	return strings.HasPrefix(arg, githubPrefix) ||
		strings.HasPrefix(arg, "https://github.com/") ||
		strings.HasPrefix(arg, "http://github.com/") ||
		strings.HasPrefix(arg, "github.com/")
}

// sourceName derives a default output base name from a source argument.
func sourceName(arg string) string {
	if isGitHubSource(arg) {
		if repo, err := fileset.ParseRepo(strings.TrimPrefix(arg, githubPrefix)); err == nil {
			return repo.Name
		}
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		abs = arg
	}
	name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "graph"
	}
	return name
}

// limitFlags holds the per-command overrides of the configured limits.
type limitFlags struct {
	maxFiles     int
	maxFileBytes int64
}

// apply returns base with any non-zero overrides.
func (f limitFlags) apply(base fileset.Limits) fileset.Limits {
	if f.maxFiles > 0 {
		base.MaxFiles = f.maxFiles
	}
	if f.maxFileBytes > 0 {
		base.MaxFileBytes = f.maxFileBytes
	}
	return base
}

// loadWithSpinner wraps loadSource in a spinner and reports loader stats.
func (c *CLI) loadWithSpinner(ctx context.Context, arg string, lf limitFlags, ch cache.Cache) (fileset.FileSet, error) {
	limits := lf.apply(c.Config.Limits)
	p := newProgress(c.Logger)

	s := startSpinner(ctx, fmt.Sprintf("Loading %s...", arg))
	fs, stats, err := c.loadSource(ctx, arg, limits, ch)
	if err != nil {
		s.fail("Could not load %s", arg)
		return nil, err
	}
	s.stop()

	p.done("loaded source", "files", stats.Files, "source", arg)
	printLoadStats(stats)
	if len(fs) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no source files found in %s", arg)
	}
	return fs, nil
}
