// Package imports extracts relative and aliased import specifiers from
// source text and resolves them to paths in a known file set.
//
// Recognition is deliberately shallow: only the `import ... from '<path>'`
// shape is matched, and only when the path starts with the configured alias
// (default "@/"), "./" or "../". The clause between import and from may not
// contain a semicolon or quote, so a match never spans two statements. Bare package names, dynamic imports and
// re-exports never produce a specifier.
//
// Resolution mirrors the common bundler convention: the specifier is joined
// with the importer's directory (or the alias root), then tried as-is, with
// each extension suffix, and finally as a directory index.
package imports

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"regexp"
	"strings"
)

// PathSet is the set of known project paths a specifier may resolve to.
// fileset.FileSet satisfies it.
type PathSet interface {
	Has(path string) bool
}

// Config describes the path-alias scheme and extension probing order.
type Config struct {
	// Alias is the specifier prefix substituted by AliasRoot, e.g. "@/".
	Alias string `toml:"alias"`

	// AliasRoot is the project-relative directory the alias maps to, e.g. "src/".
	AliasRoot string `toml:"alias_root"`

	// Suffixes are appended to the joined path in order. The empty suffix
	// tries the exact path.
	Suffixes []string `toml:"suffixes"`
}

// DefaultConfig returns the "@/" → "src/" scheme with TypeScript and
// JavaScript suffixes.
func DefaultConfig() Config {
	return Config{
		Alias:     "@/",
		AliasRoot: "src/",
		Suffixes:  []string{"", ".ts", ".tsx", ".js", ".jsx", ".json"},
	}
}

// Resolver extracts and resolves specifiers. It is immutable and safe for
// concurrent use.
type Resolver struct {
	cfg     Config
	pattern *regexp.Regexp
}

// New compiles a Resolver for cfg. An empty Alias disables alias handling.
func New(cfg Config) *Resolver {
	prefixes := `\./|\.\./`
	if cfg.Alias != "" {
		prefixes = regexp.QuoteMeta(cfg.Alias) + "|" + prefixes
	}
	if len(cfg.Suffixes) == 0 {
		cfg.Suffixes = []string{""}
	}
	cfg.Suffixes = append([]string(nil), cfg.Suffixes...)
	return &Resolver{
		cfg:     cfg,
		pattern: regexp.MustCompile(`\bimport\s+(?:type\s+)?[^;'"]*?\bfrom\s*['"]((?:` + prefixes + `)[^'"]+)['"]`),
	}
}

// Config returns the configuration the resolver was built with.
func (r *Resolver) Config() Config { return r.cfg }

// Specifiers returns every matched specifier in source order.
func (r *Resolver) Specifiers(content string) []string {
	matches := r.pattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	specs := make([]string, 0, len(matches))
	for _, m := range matches {
		specs = append(specs, m[1])
	}
	return specs
}

// Resolve maps specifier, as written in importer, to the first candidate
// path present in known. It returns ("", false) when nothing matches.
func (r *Resolver) Resolve(importer, specifier string, known PathSet) (string, bool) {
	base := r.join(importer, specifier)
	if base == "" {
		return "", false
	}
	for _, c := range r.candidates(base) {
		if known.Has(c) {
			return c, true
		}
	}
	return "", false
}

// Candidates lists the paths Resolve would probe, in order.
func (r *Resolver) Candidates(importer, specifier string) []string {
	base := r.join(importer, specifier)
	if base == "" {
		return nil
	}
	return r.candidates(base)
}

func (r *Resolver) candidates(base string) []string {
	out := make([]string, 0, 2*len(r.cfg.Suffixes))
	for _, s := range r.cfg.Suffixes {
		out = append(out, base+s)
	}
	for _, s := range r.cfg.Suffixes {
		out = append(out, base+"/index"+s)
	}
	return out
}

// join produces the normalized project-relative path a specifier points at.
func (r *Resolver) join(importer, specifier string) string {
	var joined string
	if r.cfg.Alias != "" && strings.HasPrefix(specifier, r.cfg.Alias) {
		joined = r.cfg.AliasRoot + "/" + strings.TrimPrefix(specifier, r.cfg.Alias)
	} else {
		joined = path.Dir(importer) + "/" + specifier
	}
	return normalize(joined)
}

// normalize collapses "." and ".." segments. ".." at the project root is
// dropped, so the result never escapes the root.
func normalize(p string) string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/")
}

// Fingerprint returns a stable digest of the configuration. Two resolvers
// with equal fingerprints resolve identically.
func (r *Resolver) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(r.cfg.Alias))
	h.Write([]byte{0})
	h.Write([]byte(r.cfg.AliasRoot))
	for _, s := range r.cfg.Suffixes {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
