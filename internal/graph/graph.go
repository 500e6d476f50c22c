// Package graph implements the immutable graph representation shared by
// every search method: vertices, weights, edges, adjacency lists and the
// dense adjacency matrix used for O(1) adjacency tests.
package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSorted is returned by New when the input vertices are not in
	// non-increasing (weight, degree) order, a contract the initializers
	// rely on to build "constrained" colorings.
	ErrNotSorted = errors.New("graph: vertices not in non-increasing (weight, degree) order")
	// ErrBadWeight is returned when a vertex weight is not strictly positive.
	ErrBadWeight = errors.New("graph: vertex weight must be a positive integer")
	// ErrSelfLoop is returned when an edge has identical endpoints.
	ErrSelfLoop = errors.New("graph: self loops are not allowed")
	// ErrVertexRange is returned when an edge endpoint is out of [0, n).
	ErrVertexRange = errors.New("graph: edge endpoint out of range")
)

// Graph is an immutable, process-wide undirected graph with vertex
// weights. Vertices are pre-sorted in non-increasing (weight, degree)
// order; this is a contract, not merely a convention, see New.
type Graph struct {
	name   string
	n      int
	m      int
	edges  [][2]int
	adj    []bool // row-major n*n adjacency bit-matrix
	neigh  [][]int
	degree []int
	weight []int32
}

// New builds a Graph from an edge list and a per-vertex weight list.
// Vertices must already be sorted in non-increasing (weight, degree)
// order — New validates this and returns ErrNotSorted rather than
// re-sorting, matching the loader contract in the spec (§6): the loader
// never re-sorts.
func New(name string, n int, edges [][2]int, weights []int32) (*Graph, error) {
	if len(weights) != n {
		return nil, fmt.Errorf("graph: expected %d weights, got %d", n, len(weights))
	}
	for _, w := range weights {
		if w <= 0 {
			return nil, ErrBadWeight
		}
	}

	g := &Graph{
		name:   name,
		n:      n,
		adj:    make([]bool, n*n),
		neigh:  make([][]int, n),
		degree: make([]int, n),
		weight: append([]int32(nil), weights...),
	}

	for _, e := range edges {
		u, v := e[0], e[1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return nil, ErrVertexRange
		}
		if u == v {
			return nil, ErrSelfLoop
		}
		if g.adj[u*n+v] {
			continue // duplicate edge, keep first occurrence only
		}
		g.adj[u*n+v] = true
		g.adj[v*n+u] = true
		g.edges = append(g.edges, [2]int{u, v})
		g.degree[u]++
		g.degree[v]++
	}
	g.m = len(g.edges)

	for v := 0; v < n; v++ {
		g.neigh[v] = make([]int, 0, g.degree[v])
	}
	for _, e := range g.edges {
		u, v := e[0], e[1]
		g.neigh[u] = append(g.neigh[u], v)
		g.neigh[v] = append(g.neigh[v], u)
	}

	if err := g.checkOrder(); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Graph) checkOrder() error {
	for v := 1; v < g.n; v++ {
		prevW, w := g.weight[v-1], g.weight[v]
		if prevW < w {
			return ErrNotSorted
		}
		if prevW == w && g.degree[v-1] < g.degree[v] {
			return ErrNotSorted
		}
	}
	return nil
}

// Name returns the instance name.
func (g *Graph) Name() string { return g.name }

// N returns the order |V|.
func (g *Graph) N() int { return g.n }

// M returns the size |E|.
func (g *Graph) M() int { return g.m }

// Edges returns the ordered edge pairs. The returned slice must not be
// mutated by callers.
func (g *Graph) Edges() [][2]int { return g.edges }

// Weight returns the weight of v.
func (g *Graph) Weight(v int) int32 { return g.weight[v] }

// Degree returns the degree of v.
func (g *Graph) Degree(v int) int { return g.degree[v] }

// Neighbors returns a stable slice of v's neighbors. Callers must not
// mutate the returned slice.
func (g *Graph) Neighbors(v int) []int { return g.neigh[v] }

// Adjacent reports whether u and v share an edge, in O(1).
func (g *Graph) Adjacent(u, v int) bool { return g.adj[u*g.n+v] }

// MaxDegree returns the largest vertex degree in the graph.
func (g *Graph) MaxDegree() int {
	max := 0
	for _, d := range g.degree {
		if d > max {
			max = d
		}
	}
	return max
}
