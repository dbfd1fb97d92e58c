package algorithm

import "testing"

// ============================================================================
// NESTED LOOP TESTS
// ============================================================================

type intReader []int

func (r intReader) Len() int     { return len(r) }
func (r intReader) At(i int) int { return r[i] }

func TestNestedLoopProbe(t *testing.T) {
	right := intReader{1, 2, 3, 4, 5}
	match := func(li int, l int, ri int, r int) (bool, error) {
		return l == r, nil
	}

	nl := NewNestedLoop[int, int](match, 0)
	if err := nl.Prepare(right); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	got, err := nl.Probe(0, 3)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("Probe(3) = %v, want [2]", got)
	}

	nl.Close()
}

func TestNestedLoopBlocking(t *testing.T) {
	right := intReader{1, 2, 3, 4, 5, 6, 7}
	match := func(li int, l int, ri int, r int) (bool, error) {
		return r%2 == 0, nil
	}

	tests := []struct {
		name      string
		blockSize int
		want      []int
	}{
		{"whole side in one block", 0, []int{1, 3, 5}},
		{"block size smaller than side", 2, []int{1, 3, 5}},
		{"block size larger than side", 100, []int{1, 3, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nl := NewNestedLoop[int, int](match, tt.blockSize)
			if err := nl.Prepare(right); err != nil {
				t.Fatalf("Prepare: %v", err)
			}
			got, err := nl.Probe(0, 0)
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}
			if !equalInts(got, tt.want) {
				t.Errorf("Probe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNestedLoopPropagatesMatchError(t *testing.T) {
	right := intReader{1}
	boom := errBoom{}
	match := func(li int, l int, ri int, r int) (bool, error) {
		return false, boom
	}

	nl := NewNestedLoop[int, int](match, 0)
	if err := nl.Prepare(right); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if _, err := nl.Probe(0, 0); err != boom {
		t.Errorf("Probe() err = %v, want %v", err, boom)
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
