package interp

import "testing"

func TestLinspaceEndpointsExact(t *testing.T) {
	got := Linspace(0.1, 0.7, 11)
	if len(got) != 11 {
		t.Fatalf("len = %d, want 11", len(got))
	}
	if got[0] != 0.1 || got[10] != 0.7 {
		t.Fatalf("endpoints = %v, %v want 0.1, 0.7", got[0], got[10])
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("not increasing at %d: %v", i, got)
		}
	}
}

func TestLinspaceDegenerate(t *testing.T) {
	if got := Linspace(1, 2, 0); got != nil {
		t.Fatalf("n=0: got %v want nil", got)
	}
	if got := Linspace(1, 2, 1); len(got) != 1 || got[0] != 1 {
		t.Fatalf("n=1: got %v want [1]", got)
	}
}

func TestLinspaceMatchesUnitSteps(t *testing.T) {
	got := Linspace(0, 4, 5)
	for i, v := range got {
		if v != float64(i) {
			t.Fatalf("got[%d] = %v, want %d", i, v, i)
		}
	}
}
