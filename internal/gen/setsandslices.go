//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gen

import (
	"cmp"
	"slices"

	"golang.org/x/exp/maps"
)

//
// SETS AND SLICES
//

// ToSet - returns a blank map of a slice
func ToSet[T comparable](sl []T) map[T]struct{} {
	m := make(map[T]struct{}, len(sl))
	for i := 0; i < len(sl); i++ {
		m[sl[i]] = struct{}{}
	}
	return m
}

// Unique - return only the unique items from a slice; first appearance wins
func Unique[T comparable](s []T) []T {
	// can't use slices.Compact because that only looks as consecutive repeats: [a, a, b, a] -> [a, b, a]
	seen := make(map[T]struct{}, len(s))
	var result []T
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// SetSubtraction - aa minus everything found in bb
func SetSubtraction[T comparable](aa []T, bb []T) []T {
	// 	aa := []string{"a", "b", "c", "d", "g", "h"}
	//	bb := []string{"a", "b", "e", "f", "g"}
	//	dd := SetSubtraction(aa, bb)
	//  [c d h]
	drop := ToSet(bb)
	out := make([]T, 0, len(aa))
	for _, a := range aa {
		if _, ok := drop[a]; !ok {
			out = append(out, a)
		}
	}
	return out
}

// FlattenSlices - turn a slice of slices into a slice: [][]T --> []T
func FlattenSlices[T any](lists [][]T) []T {
	var res []T
	for _, list := range lists {
		res = append(res, list...)
	}
	return res
}

// SortedKeys - the keys of a map in ascending order
func SortedKeys[K cmp.Ordered, V any](mp map[K]V) []K {
	kk := maps.Keys(mp)
	slices.Sort(kk)
	return kk
}

// ChunkSlice - turn a slice into a slice of slices of size N; thanks to https://stackoverflow.com/questions/35179656/slice-chunking-in-go
func ChunkSlice[T any](items []T, size int) (chunks [][]T) {
	if size < 1 {
		return [][]T{items}
	}
	for size < len(items) {
		items, chunks = items[size:], append(chunks, items[0:size:size])
	}
	return append(chunks, items)
}

// Range - [0, 1, ..., n-1]
func Range(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}
