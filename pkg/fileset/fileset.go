// Package fileset holds the in-memory source snapshot that dirgraph analyzes.
//
// A [FileSet] maps project-relative, slash-separated paths to file contents.
// Loaders build one from a local directory ([LoadDir]), a zip archive
// ([LoadZip]) or a GitHub repository ([FetchGitHub]). Every loader applies
// the same [Limits] and text-file filter, so the three entry points produce
// comparable snapshots.
package fileset

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"sort"
	"strings"
)

// FileSet maps a project-relative path to its text content.
type FileSet map[string]string

// Paths returns all keys in lexical order. This is the iteration order used
// by every downstream step.
func (fs FileSet) Paths() []string {
	paths := make([]string, 0, len(fs))
	for p := range fs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Has reports whether path is a key of the set.
func (fs FileSet) Has(path string) bool {
	_, ok := fs[path]
	return ok
}

// Hash returns a hex SHA-256 digest over the sorted (path, content) pairs.
// Two sets with the same entries always hash equally.
func (fs FileSet) Hash() string {
	h := sha256.New()
	for _, p := range fs.Paths() {
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write([]byte(fs[p]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Limits bounds how much a loader reads.
type Limits struct {
	// MaxFiles caps the number of files kept. Files past the cap (in sorted
	// path order) are dropped and counted in [Stats.Truncated].
	MaxFiles int `toml:"max_files"`

	// MaxFileBytes caps the size of a single file. Larger files are kept as
	// nodes with empty content.
	MaxFileBytes int64 `toml:"max_file_bytes"`
}

// DefaultLimits returns the limits used by the hosted analyzer.
func DefaultLimits() Limits {
	return Limits{MaxFiles: 100, MaxFileBytes: 200_000}
}

// Stats summarizes what a loader kept and skipped.
type Stats struct {
	Files     int // files in the resulting set
	Oversized int // files kept with empty content
	Skipped   int // non-text files and ignored directories
	Truncated int // files dropped by MaxFiles
}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	".next":        true,
}

var textExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".java": true, ".c": true, ".cpp": true, ".h": true, ".hpp": true,
	".cs": true, ".go": true, ".rs": true, ".swift": true, ".kt": true, ".kts": true,
	".html": true, ".css": true, ".json": true, ".md": true, ".txt": true,
	".yml": true, ".yaml": true, ".sh": true,
	".gitignore": true, ".npmrc": true,
}

var textNames = map[string]bool{
	"Dockerfile":   true,
	"LICENSE":      true,
	"README":       true,
	".env.example": true,
}

// IsTextFile reports whether p looks like a text source file worth loading.
func IsTextFile(p string) bool {
	base := path.Base(p)
	if textNames[base] {
		return true
	}
	return textExtensions[strings.ToLower(path.Ext(base))]
}

// IsSkipped reports whether any directory segment of p is on the skip list.
func IsSkipped(p string) bool {
	segs := strings.Split(p, "/")
	for _, s := range segs[:len(segs)-1] {
		if skipDirs[s] {
			return true
		}
	}
	return false
}

// entry is a file a loader found before reading it.
type entry struct {
	path string
	size int64
}

// selectEntries filters found files down to what the limits allow. The
// result is in sorted path order. Skipped and truncated counts are recorded
// in stats.
func selectEntries(found []entry, l Limits, stats *Stats) []entry {
	kept := make([]entry, 0, len(found))
	for _, e := range found {
		if IsSkipped(e.path) || !IsTextFile(e.path) {
			stats.Skipped++
			continue
		}
		kept = append(kept, e)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].path < kept[j].path })
	if l.MaxFiles > 0 && len(kept) > l.MaxFiles {
		stats.Truncated = len(kept) - l.MaxFiles
		kept = kept[:l.MaxFiles]
	}
	return kept
}

// oversized reports whether a file of the given size exceeds the per-file limit.
func (l Limits) oversized(size int64) bool {
	return l.MaxFileBytes > 0 && size > l.MaxFileBytes
}
