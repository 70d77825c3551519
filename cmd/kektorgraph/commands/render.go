package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sanonone/kektorgraph/pkg/client"
	"github.com/sanonone/kektorgraph/pkg/graph"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorMuted  = lipgloss.Color("#5C7A84")
	colorWarn   = lipgloss.Color("#F4D03F")
	colorError  = lipgloss.Color("#E74C3C")
)

// Styles provides the lipgloss styles used by client commands.
var Styles = struct {
	Title    lipgloss.Style
	Entity   lipgloss.Style
	Relation lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Box      lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Entity:   lipgloss.NewStyle().Bold(true),
	Relation: lipgloss.NewStyle().Foreground(colorAccent),
	Muted:    lipgloss.NewStyle().Foreground(colorMuted),
	Warning:  lipgloss.NewStyle().Foreground(colorWarn),
	Error:    lipgloss.NewStyle().Foreground(colorError),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
}

func edge(from, label, to string) string {
	return fmt.Sprintf("%s --[%s]--> %s",
		Styles.Entity.Render(from), Styles.Relation.Render(label), Styles.Entity.Render(to))
}

func renderPath(p graph.Path) string {
	var sb strings.Builder
	for _, step := range p {
		sb.WriteString(Styles.Entity.Render(step.Entity))
		if step.Relationship != "" {
			sb.WriteString(" --[" + Styles.Relation.Render(step.Relationship) + "]--> ")
		}
	}
	return sb.String()
}

func renderStats(w io.Writer, s *graph.Stats) {
	lines := []string{
		Styles.Title.Render("Graph statistics"),
		fmt.Sprintf("Entities:      %d", s.TotalEntities),
		fmt.Sprintf("Relationships: %d", s.TotalRelationships),
	}

	labels := make([]string, 0, len(s.RelationshipTypes))
	for label := range s.RelationshipTypes {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	if len(labels) > 0 {
		lines = append(lines, "", Styles.Muted.Render("Relationship types"))
	}
	for _, label := range labels {
		lines = append(lines, fmt.Sprintf("  %s %d", Styles.Relation.Render(label), s.RelationshipTypes[label]))
	}

	fmt.Fprintln(w, Styles.Box.Render(strings.Join(lines, "\n")))
}

func renderNeighbors(w io.Writer, res *graph.NeighborsResult) {
	fmt.Fprintln(w, Styles.Title.Render(fmt.Sprintf("Neighbors of %s (%s)", res.Resolved, res.Direction)))
	for _, n := range res.Neighbors.Outgoing {
		fmt.Fprintln(w, "  "+edge(res.Resolved, n.Relationship, n.Target))
	}
	for _, n := range res.Neighbors.Incoming {
		fmt.Fprintln(w, "  "+edge(n.Source, n.Relationship, res.Resolved))
	}
	if len(res.Neighbors.Outgoing)+len(res.Neighbors.Incoming) == 0 {
		fmt.Fprintln(w, Styles.Muted.Render("  (no connections)"))
	}
}

func renderPaths(w io.Writer, res *graph.PathsResult) {
	fmt.Fprintln(w, Styles.Title.Render(fmt.Sprintf("Paths from %s to %s", res.Source, res.Target)))
	if res.PathsFound == 0 {
		fmt.Fprintln(w, Styles.Muted.Render("  "+res.Message))
		return
	}
	for i, p := range res.Paths {
		fmt.Fprintf(w, "  %d. %s\n", i+1, renderPath(p))
	}
	if res.PathsFound > len(res.Paths) {
		fmt.Fprintln(w, Styles.Muted.Render(fmt.Sprintf("  showing %d of %d paths", len(res.Paths), res.PathsFound)))
	}
	if res.Truncated {
		fmt.Fprintln(w, Styles.Warning.Render("  search stopped early, more paths may exist"))
	}
}

func renderShortestPath(w io.Writer, res *graph.ShortestPathResult) {
	fmt.Fprintln(w, Styles.Title.Render(fmt.Sprintf("Shortest path from %s to %s", res.Source, res.Target)))
	if !res.Found {
		fmt.Fprintln(w, Styles.Muted.Render("  "+res.Message))
		return
	}
	fmt.Fprintf(w, "  %s\n", renderPath(res.Path))
	fmt.Fprintln(w, Styles.Muted.Render(fmt.Sprintf("  %d hops", res.Hops)))
}

func renderSearch(w io.Writer, res *graph.SearchResult) {
	fmt.Fprintln(w, Styles.Title.Render(fmt.Sprintf("Relationships labeled %q: %d", res.Relationship, res.Count)))
	for _, e := range res.Results {
		fmt.Fprintln(w, "  "+edge(e.Source, e.Relationship, e.Target))
	}
}

func renderBatch(w io.Writer, res *graph.BatchResult, skipped []client.SkippedLine) {
	fmt.Fprintln(w, Styles.Title.Render(fmt.Sprintf("Imported %d of %d relationships", res.AddedCount, res.TotalCount)))
	for _, e := range res.Errors {
		fmt.Fprintln(w, Styles.Error.Render(fmt.Sprintf("  row %d: %s", e.Row, e.Error)))
	}
	for _, s := range skipped {
		fmt.Fprintln(w, Styles.Warning.Render(fmt.Sprintf("  line %d skipped: %s", s.Line, s.Error)))
	}
	fmt.Fprintln(w, Styles.Muted.Render(fmt.Sprintf("  graph now has %d entities and %d relationships",
		res.GraphStats.TotalEntities, res.GraphStats.TotalRelationships)))
}
