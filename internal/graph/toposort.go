package graph

import "fmt"

// TopoResult holds the creation order of a set of tables.
type TopoResult struct {
	// Order lists tables so that each one follows every table it references.
	Order []string
	// Levels groups Order into rounds; a table in round n references only
	// tables from rounds before n.
	Levels [][]string
	// HasCycle is true when some tables could not be ordered.
	HasCycle bool
	// CycleTables lists, in input order, tables in a FK cycle or depending on one.
	CycleTables []string
}

// TopoSort orders tables for creation in rounds. Each round takes, in the
// order of the tables argument, every remaining table whose in-set foreign
// keys all point at tables from earlier rounds. Self references and
// references outside the set are ignored. Tables still remaining when a
// round makes no progress are reported as CycleTables.
func TopoSort(g *Graph, tables []string) TopoResult {
	inSet := make(map[string]bool, len(tables))
	for _, t := range tables {
		inSet[t] = true
	}

	placed := make(map[string]bool, len(tables))
	ready := func(table string) bool {
		for _, fk := range g.Tables[table].ForeignKeys {
			ref := fk.ReferencedTable
			if ref != table && inSet[ref] && !placed[ref] {
				return false
			}
		}
		return true
	}

	var result TopoResult
	pending := tables
	for len(pending) > 0 {
		var level, blocked []string
		for _, t := range pending {
			if ready(t) {
				level = append(level, t)
			} else {
				blocked = append(blocked, t)
			}
		}
		if len(level) == 0 {
			result.HasCycle = true
			result.CycleTables = blocked
			break
		}
		for _, t := range level {
			placed[t] = true
		}
		result.Levels = append(result.Levels, level)
		result.Order = append(result.Order, level...)
		pending = blocked
	}

	return result
}

// TopoSortAll orders every table in the graph, ties in declaration order.
func TopoSortAll(g *Graph) TopoResult {
	return TopoSort(g, g.Order)
}

// ValidateCycles returns an error naming the unorderable tables, if any.
func ValidateCycles(result TopoResult) error {
	if !result.HasCycle {
		return nil
	}
	return fmt.Errorf("circular dependency detected among tables: %v", result.CycleTables)
}
