// Package mapx provides generic grouping and sorted-key helpers over slices and maps.
package mapx

import (
	"cmp"
	"slices"
)

// Group is one bucket produced by GroupBy: the shared key and the members
// that carried it, in input order.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy buckets items by key. Groups are returned in order of first
// appearance of each key; members keep their input order.
// Returns nil for an empty input.
func GroupBy[K comparable, T any](items []T, key func(T) K) []Group[K, T] {
	if len(items) == 0 {
		return nil
	}

	index := make(map[K]int)

	var groups []Group[K, T]

	for _, item := range items {
		k := key(item)

		pos, seen := index[k]
		if !seen {
			pos = len(groups)
			index[k] = pos
			groups = append(groups, Group[K, T]{Key: k})
		}

		groups[pos].Items = append(groups[pos].Items, item)
	}

	return groups
}

// CountBy counts items per key. Returns nil for an empty input.
func CountBy[K comparable, T any](items []T, key func(T) K) map[K]int {
	if len(items) == 0 {
		return nil
	}

	counts := make(map[K]int)

	for _, item := range items {
		counts[key(item)]++
	}

	return counts
}

// SortedKeys returns the keys of m in sorted order.
// Returns nil for a nil map.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	if m == nil {
		return nil
	}

	keys := make([]K, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
