package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hurou927/db-ddl-gen/internal/schema"
)

// sortedComponents returns components with their tables sorted, ordered by first table.
func sortedComponents(g *Graph) []Component {
	components := FindComponents(g)
	for i := range components {
		sort.Strings(components[i].Tables)
	}
	sort.Slice(components, func(i, j int) bool {
		if len(components[i].Tables) == 0 {
			return true
		}
		if len(components[j].Tables) == 0 {
			return false
		}
		return components[i].Tables[0] < components[j].Tables[0]
	})
	return components
}

// WriteMermaid writes the graph in Mermaid format to w.
// Each connected component is a subgraph.
func WriteMermaid(w io.Writer, g *Graph) error {
	components := sortedComponents(g)

	fmt.Fprintln(w, "graph TD")

	for i, comp := range components {
		fmt.Fprintf(w, "    subgraph component_%d\n", i+1)

		tableSet := make(map[string]bool, len(comp.Tables))
		for _, t := range comp.Tables {
			tableSet[t] = true
		}

		// Collect edges for this component
		edgesWritten := make(map[string]bool)
		for _, edge := range g.Edges {
			if !tableSet[edge.ChildTable] {
				continue
			}
			label := edge.FK.FieldName
			edgeKey := fmt.Sprintf("%s-->%s:%s", mermaidID(edge.ChildTable), mermaidID(edge.ParentTable), label)
			if edgesWritten[edgeKey] {
				continue
			}
			edgesWritten[edgeKey] = true
			fmt.Fprintf(w, "        %s -->|%s| %s\n",
				mermaidID(edge.ChildTable), label, mermaidID(edge.ParentTable))
		}

		// Write self-referential edges
		for _, t := range comp.Tables {
			for _, fk := range g.SelfRefs[t] {
				fmt.Fprintf(w, "        %s -->|%s| %s\n",
					mermaidID(t), fk.FieldName, mermaidID(t))
			}
		}

		// Write standalone nodes (tables with no edges in this component)
		for _, t := range comp.Tables {
			if !hasEdge(g, t, tableSet) {
				fmt.Fprintf(w, "        %s\n", mermaidID(t))
			}
		}

		fmt.Fprintln(w, "    end")
		if i < len(components)-1 {
			fmt.Fprintln(w)
		}
	}

	return nil
}

// WriteText writes a text summary of the graph to w.
func WriteText(w io.Writer, g *Graph) error {
	components := sortedComponents(g)

	fmt.Fprintf(w, "Tables: %d\n", len(g.Tables))
	fmt.Fprintf(w, "Foreign Keys: %d\n", len(g.Edges)+countFKs(g.SelfRefs)+countFKs(g.External))
	fmt.Fprintf(w, "Connected Components: %d\n\n", len(components))

	topoResult := TopoSortAll(g)
	if topoResult.HasCycle {
		fmt.Fprintf(w, "WARNING: Circular dependencies detected: %v\n\n", topoResult.CycleTables)
	}

	// Warn about tables without PKs
	var noPKTables []string
	for _, name := range g.Order {
		if len(g.Tables[name].PrimaryKey) == 0 {
			noPKTables = append(noPKTables, name)
		}
	}
	if len(noPKTables) > 0 {
		sort.Strings(noPKTables)
		fmt.Fprintf(w, "WARNING: Tables without primary key: %v\n\n", noPKTables)
	}

	if len(g.External) > 0 {
		var refs []string
		for child, fks := range g.External {
			for _, fk := range fks {
				refs = append(refs, fmt.Sprintf("%s.%s -> %s.%s", child, fk.FieldName, fk.ReferencedTable, fk.ReferencedColumn))
			}
		}
		sort.Strings(refs)
		fmt.Fprintf(w, "References to undefined tables: %v\n\n", refs)
	}

	// Self-referencing tables
	if len(g.SelfRefs) > 0 {
		var selfRefTables []string
		for t := range g.SelfRefs {
			selfRefTables = append(selfRefTables, t)
		}
		sort.Strings(selfRefTables)
		fmt.Fprintf(w, "Self-referencing tables: %v\n\n", selfRefTables)
	}

	roots := g.Roots()
	sort.Strings(roots)
	fmt.Fprintf(w, "Root tables (no FK parents): %v\n\n", roots)

	for i, comp := range components {
		fmt.Fprintf(w, "=== Component %d (%d tables) ===\n", i+1, len(comp.Tables))

		topoComp := TopoSort(g, comp.Tables)
		if topoComp.HasCycle {
			fmt.Fprintf(w, "  Creation order (partial, has cycle):\n")
		} else {
			fmt.Fprintf(w, "  Creation order:\n")
		}
		for j, t := range topoComp.Order {
			fmt.Fprintf(w, "    %d. %s (%s)\n", j+1, t, describe(g, t))
		}
		if topoComp.HasCycle {
			fmt.Fprintf(w, "  Cycle tables: %v\n", topoComp.CycleTables)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// describe summarizes a table as "N cols, PK: a, b, M FKs".
func describe(g *Graph, table string) string {
	stmt := g.Tables[table]
	pkInfo := "no PK"
	if len(stmt.PrimaryKey) > 0 {
		pkInfo = fmt.Sprintf("PK: %s", strings.Join(stmt.PrimaryKey, ", "))
	}
	return fmt.Sprintf("%d cols, %s, %d FKs", len(stmt.Columns), pkInfo, len(stmt.ForeignKeys))
}

// mermaidID converts a table name to a Mermaid-safe node ID.
func mermaidID(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

func hasEdge(g *Graph, table string, componentTables map[string]bool) bool {
	// Check if this table appears as child or parent in any edge within the component
	for _, edge := range g.Edges {
		if edge.ChildTable == table && componentTables[edge.ParentTable] {
			return true
		}
		if edge.ParentTable == table && componentTables[edge.ChildTable] {
			return true
		}
	}
	// Check self-referential
	if _, ok := g.SelfRefs[table]; ok {
		return true
	}
	return false
}

func countFKs(m map[string][]schema.ForeignKeyConstraint) int {
	count := 0
	for _, fks := range m {
		count += len(fks)
	}
	return count
}
