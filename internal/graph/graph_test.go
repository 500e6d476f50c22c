package graph

import "testing"

func TestNewTriangle(t *testing.T) {
	g, err := New("k3", 3, [][2]int{{0, 1}, {1, 2}, {0, 2}}, []int32{3, 2, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.N() != 3 || g.M() != 3 {
		t.Fatalf("got n=%d m=%d, want n=3 m=3", g.N(), g.M())
	}
	for u := 0; u < 3; u++ {
		for v := 0; v < 3; v++ {
			if u == v {
				continue
			}
			if !g.Adjacent(u, v) {
				t.Fatalf("expected %d-%d adjacent", u, v)
			}
		}
	}
	if g.Degree(0) != 2 {
		t.Fatalf("degree(0) = %d, want 2", g.Degree(0))
	}
}

func TestNewRejectsUnsortedWeights(t *testing.T) {
	_, err := New("bad", 2, nil, []int32{1, 2})
	if err != ErrNotSorted {
		t.Fatalf("got err=%v, want ErrNotSorted", err)
	}
}

func TestNewRejectsUnsortedDegreeTies(t *testing.T) {
	// same weight, degrees must be non-increasing: vertex 0 has degree 1,
	// vertex 1 has degree 2 -> violates the contract.
	_, err := New("bad", 3, [][2]int{{1, 2}, {1, 0}}, []int32{5, 5, 5})
	if err != ErrNotSorted {
		t.Fatalf("got err=%v, want ErrNotSorted", err)
	}
}

func TestNewRejectsSelfLoop(t *testing.T) {
	_, err := New("bad", 2, [][2]int{{0, 0}}, []int32{2, 1})
	if err != ErrSelfLoop {
		t.Fatalf("got err=%v, want ErrSelfLoop", err)
	}
}

func TestChromaticNumberTriangleIsThree(t *testing.T) {
	g, err := New("k3", 3, [][2]int{{0, 1}, {1, 2}, {0, 2}}, []int32{3, 2, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := ChromaticNumber(g); got != 3 {
		t.Fatalf("ChromaticNumber(K3) = %d, want 3", got)
	}
}

func TestChromaticNumberPathIsTwo(t *testing.T) {
	// path 0-1-2-3, bipartite.
	g, err := New("p4", 4, [][2]int{{0, 1}, {1, 2}, {2, 3}}, []int32{4, 3, 2, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := ChromaticNumber(g); got != 2 {
		t.Fatalf("ChromaticNumber(P4) = %d, want 2", got)
	}
}

func TestChromaticNumberEmptyGraphIsOne(t *testing.T) {
	g, err := New("isolated", 1, nil, []int32{1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := ChromaticNumber(g); got != 1 {
		t.Fatalf("ChromaticNumber(single vertex) = %d, want 1", got)
	}
}

func TestMaxDegree(t *testing.T) {
	// star: vertex 0 connected to 1,2,3
	g, err := New("star", 4, [][2]int{{0, 1}, {0, 2}, {0, 3}}, []int32{4, 3, 2, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.MaxDegree() != 3 {
		t.Fatalf("MaxDegree() = %d, want 3", g.MaxDegree())
	}
}
