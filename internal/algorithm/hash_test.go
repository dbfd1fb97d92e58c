package algorithm

import (
	"reflect"
	"sort"
	"testing"
)

// ============================================================================
// HASH TESTS
// ============================================================================

type strReader []string

func (r strReader) Len() int        { return len(r) }
func (r strReader) At(i int) string { return r[i] }

// TestHashProbeGroupsByKey checks that Probe returns every right index
// sharing the left element's key, in the order they appeared on the right.
func TestHashProbeGroupsByKey(t *testing.T) {
	right := strReader{"a", "b", "a", "c", "b", "a"}
	h := NewHash[string, string, string](identity, identity)
	if err := h.Prepare(right); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	tests := []struct {
		key  string
		want []int
	}{
		{"a", []int{0, 2, 5}},
		{"b", []int{1, 4}},
		{"c", []int{3}},
		{"z", nil},
	}
	for _, tt := range tests {
		got, err := h.Probe(0, tt.key)
		if err != nil {
			t.Fatalf("Probe(%q): %v", tt.key, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Probe(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
	h.Close()
}

// TestHashProbeUnknownKeyIsEmpty checks that a left key absent from the
// right side produces a nil match set rather than an error.
func TestHashProbeUnknownKeyIsEmpty(t *testing.T) {
	right := strReader{"x", "y"}
	h := NewHash[string, string, string](identity, identity)
	if err := h.Prepare(right); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := h.Probe(0, "nowhere")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if got != nil {
		t.Errorf("Probe() = %v, want nil", got)
	}
}

func TestHashDistinctKeysAreIndependent(t *testing.T) {
	right := strReader{"a", "b", "c"}
	h := NewHash[string, string, string](identity, identity)
	if err := h.Prepare(right); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	var all []int
	for _, k := range []string{"a", "b", "c"} {
		got, _ := h.Probe(0, k)
		all = append(all, got...)
	}
	sort.Ints(all)
	if !reflect.DeepEqual(all, []int{0, 1, 2}) {
		t.Errorf("combined probes = %v, want every right index exactly once", all)
	}
}

func identity(s string) string { return s }
