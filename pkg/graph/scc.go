package graph

import "slices"

// StronglyConnected partitions the directed graph described by adj into its
// strongly connected components using Kosaraju's two-pass algorithm. Each
// returned slice is one component; components are pairwise disjoint and
// every node in the graph appears in exactly one of them.
//
// The vertex set is the union of the mapping's keys and every edge endpoint,
// so a node that only ever appears as a target still receives its own
// component. Passing an undirected graph's adjacency collapses each connected
// component into a single SCC, which is rarely what the caller wants.
//
// Both passes run on explicit frame stacks; arbitrarily deep chains cannot
// exhaust the call stack.
func StronglyConnected(adj map[NodeID][]NodeID) [][]NodeID {
	nodes := vertexSet(adj)
	if len(nodes) == 0 {
		return nil
	}

	// Pass 1: post-order finishing times over the original edges.
	visited := make(map[NodeID]bool, len(nodes))
	order := make([]NodeID, 0, len(nodes))
	for _, root := range nodes {
		if visited[root] {
			continue
		}
		visited[root] = true
		stack := []dfsFrame{{node: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			nbrs := adj[top.node]

			descended := false
			for top.next < len(nbrs) {
				next := nbrs[top.next]
				top.next++
				if !visited[next] {
					visited[next] = true
					stack = append(stack, dfsFrame{node: next})
					descended = true
					break
				}
			}
			if !descended {
				// All outgoing edges explored: the node is finished.
				order = append(order, top.node)
				stack = stack[:len(stack)-1]
			}
		}
	}

	// Reverse every edge.
	rev := make(map[NodeID][]NodeID, len(adj))
	for u, nbrs := range adj {
		for _, v := range nbrs {
			rev[v] = append(rev[v], u)
		}
	}

	// Pass 2: walk the reversed graph in reverse finishing order; every walk
	// collects exactly one component.
	collected := make(map[NodeID]bool, len(nodes))
	var comps [][]NodeID
	for i := len(order) - 1; i >= 0; i-- {
		root := order[i]
		if collected[root] {
			continue
		}
		collected[root] = true
		comp := []NodeID{root}

		stack := []NodeID{root}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range rev[node] {
				if !collected[next] {
					collected[next] = true
					comp = append(comp, next)
					stack = append(stack, next)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// vertexSet returns every node mentioned in adj, as key or as edge target,
// in ascending order. Sorting makes the root iteration order (and hence the
// component output order) deterministic.
func vertexSet(adj map[NodeID][]NodeID) []NodeID {
	seen := make(map[NodeID]bool, len(adj))
	for u, nbrs := range adj {
		seen[u] = true
		for _, v := range nbrs {
			seen[v] = true
		}
	}
	nodes := make([]NodeID, 0, len(seen))
	for v := range seen {
		nodes = append(nodes, v)
	}
	slices.Sort(nodes)
	return nodes
}
