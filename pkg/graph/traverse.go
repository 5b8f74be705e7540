package graph

// BFS walks the graph breadth-first from start and returns the visitation
// order. The start node is always first, even if it was never inserted.
// Neighbors are discovered in edge-insertion order, so the output is
// deterministic for a given construction sequence. Only nodes reachable from
// start appear.
func BFS(g *Graph, start NodeID) []NodeID {
	visited := map[NodeID]bool{}
	order := make([]NodeID, 0, len(g.adj))

	queue := []NodeID{start}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visited[node] {
			continue
		}
		visited[node] = true
		order = append(order, node)

		for _, next := range g.adj[node] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}
	return order
}

// dfsFrame is one suspended position in an iterative depth-first walk:
// a node plus the index of the next neighbor to try.
type dfsFrame struct {
	node NodeID
	next int
}

// DFS walks the graph depth-first from start and returns the pre-order
// visitation sequence (each node before its descendants). The walk uses an
// explicit frame stack rather than recursion, so depth is bounded only by
// heap, not by the call stack.
func DFS(g *Graph, start NodeID) []NodeID {
	visited := map[NodeID]bool{start: true}
	order := []NodeID{start}

	stack := []dfsFrame{{node: start}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		nbrs := g.adj[top.node]

		descended := false
		for top.next < len(nbrs) {
			next := nbrs[top.next]
			top.next++
			if !visited[next] {
				visited[next] = true
				order = append(order, next)
				stack = append(stack, dfsFrame{node: next})
				descended = true
				break
			}
		}
		if !descended {
			stack = stack[:len(stack)-1]
		}
	}
	return order
}
