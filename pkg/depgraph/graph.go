package depgraph

import (
	"path"
	"strings"
)

// Category is a coarse role inferred from a file's location.
type Category string

const (
	CategoryComponent Category = "component"
	CategoryHook      Category = "hook"
	CategoryRoute     Category = "route"
	CategoryUtility   Category = "utility"
	CategoryOther     Category = "other"
)

// Node is a single file in the graph. ID is the FileSet path.
type Node struct {
	ID       string
	Category Category
}

// Edge records that Source imports Target.
type Edge struct {
	Source string
	Target string
}

// Key returns the edge's stable string key.
func (e Edge) Key() string { return EdgeKey(e.Source, e.Target) }

// Data is a built dependency graph. It is never modified after Build returns.
type Data struct {
	Nodes []Node
	Edges []Edge
}

// Node returns the node with the given id.
func (d Data) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// EdgeKey joins an edge's endpoints into the key used by highlight sets.
func EdgeKey(source, target string) string {
	return source + "->" + target
}

// categoryRules are checked in order; the first rule with a matching
// directory segment wins.
var categoryRules = []struct {
	category Category
	segments []string
}{
	{CategoryComponent, []string{"components"}},
	{CategoryHook, []string{"hooks", "queries"}},
	{CategoryRoute, []string{"pages", "app", "routes"}},
	{CategoryUtility, []string{"lib", "utils", "helpers"}},
}

// Categorize infers a Category from the directory segments of p, ignoring case.
// The top-level segment never counts: a keyword must sit below another
// directory, as in src/components/.
func Categorize(p string) Category {
	dir := strings.ToLower(path.Dir(p))
	if dir == "." {
		return CategoryOther
	}
	segs := strings.Split(dir, "/")[1:]
	for _, rule := range categoryRules {
		for _, want := range rule.segments {
			for _, s := range segs {
				if s == want {
					return rule.category
				}
			}
		}
	}
	return CategoryOther
}
