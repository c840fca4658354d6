package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	"github.com/matzehuels/dirgraph/pkg/fileset"
)

// stdout receives all human-facing output; tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorPurple = lipgloss.Color("141") // Lavender - hooks
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// categoryColors tints category names in tables and summaries.
var categoryColors = map[depgraph.Category]lipgloss.Color{
	depgraph.CategoryComponent: colorBlue,
	depgraph.CategoryHook:      colorPurple,
	depgraph.CategoryRoute:     colorGreen,
	depgraph.CategoryUtility:   colorYellow,
	depgraph.CategoryOther:     colorGray,
}

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed detail line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints graph statistics on a single line, e.g.
// "12 files · 18 edges · cached".
func printStats(nodeCount, edgeCount int, cached bool) {
	var parts []string
	parts = append(parts, plural(nodeCount, "file"))
	parts = append(parts, plural(edgeCount, "edge"))

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(stdout, line)
}

// printLoadStats reports files a loader skipped or trimmed.
func printLoadStats(s fileset.Stats) {
	if s.Truncated > 0 {
		printWarning("%s dropped by the file limit", plural(s.Truncated, "file"))
	}
	if s.Oversized > 0 {
		printWarning("%s over the size limit kept without content", plural(s.Oversized, "file"))
	}
	if s.Skipped > 0 {
		printDetail("%s skipped (binary or ignored)", plural(s.Skipped, "file"))
	}
}

// printCategories prints node counts per category in a fixed order.
func printCategories(data depgraph.Data) {
	counts := make(map[depgraph.Category]int)
	for _, n := range data.Nodes {
		counts[n.Category]++
	}
	var parts []string
	for _, cat := range []depgraph.Category{
		depgraph.CategoryComponent, depgraph.CategoryHook, depgraph.CategoryRoute,
		depgraph.CategoryUtility, depgraph.CategoryOther,
	} {
		if counts[cat] == 0 {
			continue
		}
		style := lipgloss.NewStyle().Foreground(categoryColors[cat])
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", counts[cat], cat)))
	}
	if len(parts) > 0 {
		fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
	}
}

// printCycles warns about import cycles, listing at most a few back edges.
func printCycles(data depgraph.Data) {
	back := depgraph.CycleEdges(data)
	if len(back) == 0 {
		return
	}
	printWarning("%s", plural(len(back), "import cycle"))
	for i, e := range back {
		if i == 3 {
			printDetail("and %d more", len(back)-i)
			break
		}
		printDetail("%s %s %s", e.Source, iconArrow, e.Target)
	}
}

// neighborTable renders the direct importers and importees of focus.
func neighborTable(data depgraph.Data, focus string) string {
	var rows [][]string
	cats := make(map[string]depgraph.Category, len(data.Nodes))
	for _, n := range data.Nodes {
		cats[n.ID] = n.Category
	}
	var in, out []string
	for _, e := range data.Edges {
		switch focus {
		case e.Target:
			in = append(in, e.Source)
		case e.Source:
			out = append(out, e.Target)
		}
	}
	sort.Strings(in)
	sort.Strings(out)
	for _, id := range in {
		rows = append(rows, []string{"imported by", id, string(cats[id])})
	}
	for _, id := range out {
		rows = append(rows, []string{"imports", id, string(cats[id])})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Direction", "File", "Category").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || row >= len(rows) {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorGray)
			case 2:
				return base.Foreground(categoryColors[depgraph.Category(rows[row][2])])
			}
			return base.Foreground(colorWhite)
		})
	return t.Render()
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
