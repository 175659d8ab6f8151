package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteTable writes one row per table, in creation order, as a text table.
// Tables caught in cycles are listed last.
func WriteTable(w io.Writer, g *Graph) error {
	topo := TopoSortAll(g)
	order := append(append([]string(nil), topo.Order...), topo.CycleTables...)

	cycle := make(map[string]bool, len(topo.CycleTables))
	for _, t := range topo.CycleTables {
		cycle[t] = true
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Table", "Columns", "Primary Key", "References", "Referenced By"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	for i, name := range order {
		stmt := g.Tables[name]

		label := name
		if cycle[name] {
			label += " (cycle)"
		}

		refs := make([]string, 0, len(stmt.ForeignKeys))
		for _, fk := range stmt.ForeignKeys {
			refs = append(refs, fmt.Sprintf("%s -> %s(%s)", fk.FieldName, fk.ReferencedTable, fk.ReferencedColumn))
		}

		t.AppendRow(table.Row{
			i + 1,
			label,
			len(stmt.Columns),
			strings.Join(stmt.PrimaryKey, ", "),
			strings.Join(refs, "\n"),
			strings.Join(dedupe(g.Children[name]), ", "),
		})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tables", len(order)), "", "", fmt.Sprintf("%d edges", len(g.Edges)), ""})
	t.Render()
	return nil
}

// dedupe drops repeated names while keeping first-seen order.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
