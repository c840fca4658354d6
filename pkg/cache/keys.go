package cache

import "strings"

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// HTTPKey keys a raw HTTP response under a namespace.
	HTTPKey(namespace, key string) string

	// GraphKey keys a dependency graph by FileSet hash and resolver fingerprint.
	GraphKey(fileSetHash, fingerprint string) string

	// LayoutKey keys a layout by graph hash and layout algorithm version.
	LayoutKey(graphHash string, version int) string

	// ArtifactKey keys a rendered artifact by layout hash and render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	VizType string `json:"viz_type"`
	Focus   string `json:"focus,omitempty"`
}

// DefaultKeyer produces "<type>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>" unhashed, so entries stay readable.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) GraphKey(fileSetHash, fingerprint string) string {
	return hashKey("graph", fileSetHash, fingerprint)
}

func (DefaultKeyer) LayoutKey(graphHash string, version int) string {
	return hashKey("layout", graphHash, version)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	opts.Format = strings.ToLower(opts.Format)
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
