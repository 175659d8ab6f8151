package graph

// Component is a set of tables connected through foreign keys, in either direction.
type Component struct {
	Tables []string
}

// FindComponents partitions the graph's tables by FK connectivity. Tables
// keep declaration order inside a component; components are ordered by
// their first declared table.
func FindComponents(g *Graph) []Component {
	uf := newUnionFind(g.Order)
	for _, e := range g.Edges {
		uf.union(e.ChildTable, e.ParentTable)
	}

	index := make(map[string]int)
	var components []Component
	for _, name := range g.Order {
		root := uf.find(name)
		i, ok := index[root]
		if !ok {
			i = len(components)
			index[root] = i
			components = append(components, Component{})
		}
		components[i].Tables = append(components[i].Tables, name)
	}
	return components
}

// unionFind is a disjoint-set forest keyed by table name.
type unionFind struct {
	parent map[string]string
	size   map[string]int
}

func newUnionFind(names []string) *unionFind {
	uf := &unionFind{
		parent: make(map[string]string, len(names)),
		size:   make(map[string]int, len(names)),
	}
	for _, n := range names {
		uf.parent[n] = n
		uf.size[n] = 1
	}
	return uf
}

func (uf *unionFind) find(n string) string {
	for uf.parent[n] != n {
		uf.parent[n] = uf.parent[uf.parent[n]]
		n = uf.parent[n]
	}
	return n
}

func (uf *unionFind) union(a, b string) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
