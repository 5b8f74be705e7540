package graph

// NodeID identifies a vertex. Callers map their own row IDs (category IDs,
// goal IDs) onto it; the graph attaches no meaning to the value.
type NodeID int64

// Graph is an adjacency-list multigraph. Whether edges are directed is fixed
// at construction. Neighbor lists preserve insertion order and may contain
// duplicates.
//
// A Graph is not safe for concurrent mutation. Callers that need concurrent
// readers should hand each reader the result of Adjacency().
type Graph struct {
	directed bool
	adj      map[NodeID][]NodeID
}

// New creates an empty graph.
func New(directed bool) *Graph {
	return &Graph{
		directed: directed,
		adj:      make(map[NodeID][]NodeID),
	}
}

// Directed reports whether edges added to this graph are directed.
func (g *Graph) Directed() bool {
	return g.directed
}

// AddEdge appends v to u's neighbor list. For undirected graphs it also
// appends u to v's list, so one undirected edge occupies two list slots.
// Self-loops and duplicate edges are allowed.
func (g *Graph) AddEdge(u, v NodeID) {
	g.adj[u] = append(g.adj[u], v)
	if !g.directed {
		g.adj[v] = append(g.adj[v], u)
	}
}

// Neighbors returns a copy of u's neighbor list in insertion order. A node
// that was never inserted has no neighbors; this is not an error.
func (g *Graph) Neighbors(u NodeID) []NodeID {
	nbrs := g.adj[u]
	if len(nbrs) == 0 {
		return nil
	}
	out := make([]NodeID, len(nbrs))
	copy(out, nbrs)
	return out
}

// Adjacency returns a deep copy of the adjacency structure, suitable for
// handing to StronglyConnected or to a concurrent reader.
func (g *Graph) Adjacency() map[NodeID][]NodeID {
	out := make(map[NodeID][]NodeID, len(g.adj))
	for u, nbrs := range g.adj {
		cp := make([]NodeID, len(nbrs))
		copy(cp, nbrs)
		out[u] = cp
	}
	return out
}

// NodeCount returns the number of nodes that have at least one adjacency
// entry. Nodes that only ever appeared as edge targets in a directed graph
// are not counted.
func (g *Graph) NodeCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of neighbor-list slots. An undirected edge
// counts twice.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, nbrs := range g.adj {
		n += len(nbrs)
	}
	return n
}
