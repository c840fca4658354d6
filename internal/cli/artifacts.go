package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

// basePath strips the extension and any ".layout" marker from p, so
// "out/app.layout.json" and "out/app.json" both give "out/app".
func basePath(p string) string {
	p = strings.TrimSuffix(p, filepath.Ext(p))
	return strings.TrimSuffix(p, ".layout")
}

// artifactPath names the file a format is written to.
func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}

// writeArtifacts writes each artifact next to base and returns the paths
// in format order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		p := artifactPath(base, f)
		if err := os.WriteFile(p, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// renderFlags holds the flags shared by render and visualize.
type renderFlags struct {
	vizType string
	formats string
	focus   string
	output  string
	noCache bool
	refresh bool
}

// options converts the flags to validated pipeline options.
func (f renderFlags) options(c *CLI) (pipeline.Options, error) {
	opts := pipeline.Options{
		VizType: f.vizType,
		Formats: pipeline.ParseFormats(f.formats),
		Focus:   f.focus,
		Refresh: f.refresh,
		Logger:  c.Logger,
	}
	if err := opts.ValidateForRender(); err != nil {
		return opts, err
	}
	return opts, nil
}
