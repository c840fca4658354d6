package fileset

import (
	"reflect"
	"testing"
)

func TestPathsSorted(t *testing.T) {
	fs := FileSet{"src/b.ts": "", "README.md": "", "src/a.ts": ""}
	want := []string{"README.md", "src/a.ts", "src/b.ts"}
	if got := fs.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
}

func TestHas(t *testing.T) {
	fs := FileSet{"src/a.ts": "x"}
	if !fs.Has("src/a.ts") {
		t.Error("Has(src/a.ts) = false")
	}
	if fs.Has("src/a") {
		t.Error("Has(src/a) = true")
	}
}

func TestHash(t *testing.T) {
	a := FileSet{"x.ts": "1", "y.ts": "2"}
	b := FileSet{"y.ts": "2", "x.ts": "1"}
	if a.Hash() != b.Hash() {
		t.Error("equal sets should hash equally")
	}
	c := FileSet{"x.ts": "12", "y.ts": ""}
	if a.Hash() == c.Hash() {
		t.Error("content boundaries must affect the hash")
	}
	if len(a.Hash()) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(a.Hash()))
	}
}

func TestIsTextFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/app/page.tsx", true},
		{"lib/util.JS", true},
		{"Dockerfile", true},
		{"docs/LICENSE", true},
		{".env.example", true},
		{".gitignore", true},
		{"public/logo.png", false},
		{"bin/tool", false},
		{".env", false},
	}
	for _, tt := range tests {
		if got := IsTextFile(tt.path); got != tt.want {
			t.Errorf("IsTextFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsSkipped(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/react/index.js", true},
		{"web/.next/server.js", true},
		{"src/build.ts", false},
		{"src/dist/x.ts", true},
		{"src/a.ts", false},
	}
	for _, tt := range tests {
		if got := IsSkipped(tt.path); got != tt.want {
			t.Errorf("IsSkipped(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSelectEntries(t *testing.T) {
	found := []entry{
		{"src/c.ts", 1},
		{"logo.png", 1},
		{"src/a.ts", 1},
		{"node_modules/x/index.js", 1},
		{"src/b.ts", 1},
	}
	var stats Stats
	got := selectEntries(found, Limits{MaxFiles: 2}, &stats)

	if len(got) != 2 || got[0].path != "src/a.ts" || got[1].path != "src/b.ts" {
		t.Errorf("selectEntries() = %v, want src/a.ts and src/b.ts", got)
	}
	if stats.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", stats.Skipped)
	}
	if stats.Truncated != 1 {
		t.Errorf("Truncated = %d, want 1", stats.Truncated)
	}
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	if l.MaxFiles != 100 || l.MaxFileBytes != 200_000 {
		t.Errorf("DefaultLimits() = %+v", l)
	}
}
