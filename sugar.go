package join

import "cmp"

// Public-surface convenience constructors (spec.md §1, §6): sugar over
// the condition constructors in condition.go and composite.go for the
// common self-join shapes, where one accessor naturally serves both
// sides. Heterogeneous L, R pairs use the two-accessor constructors
// directly.

// KeySelf builds a self-join equi-join condition from one key accessor,
// the by_key(f) form of spec.md §6.
func KeySelf[T any, K cmp.Ordered](f func(T) K) Condition[T, T] {
	return ByKey[T, T, K](f, f)
}

// Distance builds a self-join distance condition from one coordinate
// accessor, the by_distance(f, metric, radius_pred) form of spec.md §6.
func Distance[T, C any](f func(T) C, metric func(a, b C) float64, radius float64, strict bool) Condition[T, T] {
	return ByDistance[T, T, C](f, f, metric, radius, strict)
}
