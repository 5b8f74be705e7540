package graph

import (
	"reflect"
	"testing"
)

func asSet(nodes []NodeID) map[NodeID]bool {
	set := make(map[NodeID]bool, len(nodes))
	for _, n := range nodes {
		set[n] = true
	}
	return set
}

func TestBFS_Disconnected(t *testing.T) {
	g := New(false)
	g.AddEdge(1, 2)
	g.AddEdge(3, 4)

	got := BFS(g, 1)
	want := []NodeID{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BFS(1) = %v, want %v", got, want)
	}
}

func TestBFS_Diamond(t *testing.T) {
	g := New(true)
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 4)
	g.AddEdge(3, 4)

	got := BFS(g, 1)
	want := []NodeID{1, 2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BFS(1) = %v, want %v", got, want)
	}
}

func TestDFS_Diamond_PreOrder(t *testing.T) {
	g := New(true)
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 4)
	g.AddEdge(3, 4)

	// First branch is exhausted before the second starts.
	got := DFS(g, 1)
	want := []NodeID{1, 2, 4, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DFS(1) = %v, want %v", got, want)
	}
}

func TestTraversal_UnknownStartIsSingleton(t *testing.T) {
	g := New(true)
	g.AddEdge(1, 2)

	for name, fn := range map[string]func(*Graph, NodeID) []NodeID{"bfs": BFS, "dfs": DFS} {
		got := fn(g, 42)
		if !reflect.DeepEqual(got, []NodeID{42}) {
			t.Errorf("%s from unknown node = %v, want [42]", name, got)
		}
	}
}

func TestTraversal_CycleTerminates(t *testing.T) {
	g := New(true)
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 1)

	if got := BFS(g, 1); len(got) != 3 {
		t.Errorf("BFS over cycle emitted %v, want 3 unique nodes", got)
	}
	if got := DFS(g, 1); len(got) != 3 {
		t.Errorf("DFS over cycle emitted %v, want 3 unique nodes", got)
	}
}

func TestTraversal_SameReachableSet(t *testing.T) {
	g := New(true)
	edges := [][2]NodeID{{1, 2}, {1, 3}, {3, 5}, {5, 1}, {2, 2}, {6, 7}}
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}

	bfs := BFS(g, 1)
	dfs := DFS(g, 1)

	if !reflect.DeepEqual(asSet(bfs), asSet(dfs)) {
		t.Errorf("BFS set %v != DFS set %v", bfs, dfs)
	}
	want := asSet([]NodeID{1, 2, 3, 5})
	if !reflect.DeepEqual(asSet(bfs), want) {
		t.Errorf("reachable set = %v, want {1,2,3,5}", bfs)
	}
}

func TestTraversal_NoDuplicateEmission(t *testing.T) {
	g := New(false)
	// Dense undirected clique plus duplicate edges.
	for i := NodeID(1); i <= 5; i++ {
		for j := i + 1; j <= 5; j++ {
			g.AddEdge(i, j)
			g.AddEdge(i, j)
		}
	}

	for name, fn := range map[string]func(*Graph, NodeID) []NodeID{"bfs": BFS, "dfs": DFS} {
		out := fn(g, 1)
		if len(out) != len(asSet(out)) {
			t.Errorf("%s emitted duplicates: %v", name, out)
		}
		if len(out) != 5 {
			t.Errorf("%s visited %d nodes, want 5", name, len(out))
		}
	}
}

func TestDFS_DeepChain(t *testing.T) {
	// A path long enough to blow the call stack if DFS were recursive.
	const depth = 200000
	g := New(true)
	for i := 0; i < depth; i++ {
		g.AddEdge(NodeID(i), NodeID(i+1))
	}

	out := DFS(g, 0)
	if len(out) != depth+1 {
		t.Fatalf("visited %d nodes, want %d", len(out), depth+1)
	}
	if out[depth] != NodeID(depth) {
		t.Errorf("last visited = %d, want %d", out[depth], depth)
	}
}
