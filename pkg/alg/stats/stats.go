// Package stats provides small reductions used by the commit analytics:
// clamping, extents, maxima, and sums over keyed slices.
package stats

import (
	"cmp"
)

// Clamp restricts val to the range [lo, hi].
func Clamp[T cmp.Ordered](val, lo, hi T) T {
	return max(lo, min(val, hi))
}

// Extent returns the smallest and largest key over items.
// ok is false for an empty slice, in which case lo and hi are zero values.
func Extent[T any, K cmp.Ordered](items []T, key func(T) K) (lo, hi K, ok bool) {
	if len(items) == 0 {
		return lo, hi, false
	}

	lo = key(items[0])
	hi = lo

	for _, item := range items[1:] {
		k := key(item)
		lo = min(lo, k)
		hi = max(hi, k)
	}

	return lo, hi, true
}

// ExtentFunc is Extent for key types ordered by a comparison function
// (for example time.Time.Compare).
func ExtentFunc[T, K any](items []T, key func(T) K, compare func(a, b K) int) (lo, hi K, ok bool) {
	if len(items) == 0 {
		return lo, hi, false
	}

	lo = key(items[0])
	hi = lo

	for _, item := range items[1:] {
		k := key(item)

		if compare(k, lo) < 0 {
			lo = k
		}

		if compare(k, hi) > 0 {
			hi = k
		}
	}

	return lo, hi, true
}

// MaxBy returns the largest key over items.
// Returns the zero value of K for an empty slice.
func MaxBy[T any, K cmp.Ordered](items []T, key func(T) K) K {
	_, hi, _ := Extent(items, key)

	return hi
}
