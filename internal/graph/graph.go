package graph

import (
	"fmt"

	"github.com/hurou927/db-ddl-gen/internal/ddl"
	"github.com/hurou927/db-ddl-gen/internal/schema"
)

// Edge represents a directed edge from child to parent (FK direction).
type Edge struct {
	FK          schema.ForeignKeyConstraint
	ChildTable  string
	ParentTable string
}

// Graph is a directed graph built from the foreign keys of compiled tables.
type Graph struct {
	// Tables maps table name -> compiled statement
	Tables map[string]*ddl.Statement

	// Order lists table names in declaration order
	Order []string

	// Edges are non-self-referential FK edges (child → parent)
	Edges []Edge

	// SelfRefs holds self-referential FKs, keyed by table name
	SelfRefs map[string][]schema.ForeignKeyConstraint

	// External holds FKs whose referenced table is not part of the graph
	External map[string][]schema.ForeignKeyConstraint

	// Children maps parent name → list of child names
	Children map[string][]string

	// Parents maps child name → list of parent names
	Parents map[string][]string
}

// Build constructs a directed graph from compiled statements. Two statements
// resolving to the same table name are an error.
func Build(stmts []ddl.Statement) (*Graph, error) {
	g := &Graph{
		Tables:   make(map[string]*ddl.Statement, len(stmts)),
		SelfRefs: make(map[string][]schema.ForeignKeyConstraint),
		External: make(map[string][]schema.ForeignKeyConstraint),
		Children: make(map[string][]string),
		Parents:  make(map[string][]string),
	}

	for i := range stmts {
		name := stmts[i].TableName
		if _, dup := g.Tables[name]; dup {
			return nil, fmt.Errorf("table %q is defined more than once", name)
		}
		g.Tables[name] = &stmts[i]
		g.Order = append(g.Order, name)
	}

	// Build edges
	for _, name := range g.Order {
		for _, fk := range g.Tables[name].ForeignKeys {
			parent := fk.ReferencedTable
			if parent == name {
				g.SelfRefs[name] = append(g.SelfRefs[name], fk)
				continue
			}
			if _, ok := g.Tables[parent]; !ok {
				g.External[name] = append(g.External[name], fk)
				continue
			}

			g.Edges = append(g.Edges, Edge{
				FK:          fk,
				ChildTable:  name,
				ParentTable: parent,
			})
			g.Children[parent] = append(g.Children[parent], name)
			g.Parents[name] = append(g.Parents[name], parent)
		}
	}

	return g, nil
}

// Roots returns tables that have no outgoing FK edges (no parents), in declaration order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, name := range g.Order {
		if len(g.Parents[name]) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}
