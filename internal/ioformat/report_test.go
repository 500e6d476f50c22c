package ioformat

import "testing"

func TestReportRoundTrip(t *testing.T) {
	r := Report{Name: "triangle", N: 3, M: 3, Score: 6, NColors: 3, Coloring: []int32{0, 1, 2}}

	b, err := r.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := UnmarshalReport(b)
	if err != nil {
		t.Fatalf("UnmarshalReport: %v", err)
	}
	if got.Name != r.Name || got.Score != r.Score || got.N != r.N {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, r)
	}
	if len(got.Coloring) != 3 {
		t.Fatalf("coloring length mismatch after round trip: %v", got.Coloring)
	}
}
