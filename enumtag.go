// Package enumtag is the runtime contract of code generated by the enumtag
// command.
//
// For a sum type Shape, enumtag generates ShapeTag, an integer enumeration
// with one constant per variant, a Tag method on every variant and a
// ShapeTagOf dispatch function. Each variant then satisfies Tagged[ShapeTag],
// so code can classify values by variant without touching their payload:
//
//	counts := enumtag.Count[shape.ShapeTag](shapes)
//	if enumtag.Same[shape.ShapeTag](a, b) { ... }
package enumtag

import (
	"cmp"
	"fmt"
)

// Tag is satisfied by every generated tag type: an integer type whose values
// print as variant names.
type Tag interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
	fmt.Stringer
}

// Tagged is implemented by every variant of a sum type with a generated tag.
type Tagged[T Tag] interface {
	Tag() T
}

// Of returns the tag of v.
func Of[T Tag](v Tagged[T]) T {
	return v.Tag()
}

// Same reports whether a and b are the same variant, whatever their payloads.
func Same[T Tag](a, b Tagged[T]) bool {
	return a.Tag() == b.Tag()
}

// Compare orders a and b by the declaration order (or explicit value) of their variants.
func Compare[T Tag](a, b Tagged[T]) int {
	return cmp.Compare(a.Tag(), b.Tag())
}

// Count returns how many values of each variant vs holds.
func Count[T Tag, V Tagged[T]](vs []V) map[T]int {
	counts := make(map[T]int)
	for _, v := range vs {
		counts[v.Tag()]++
	}
	return counts
}

// Group partitions vs by variant, keeping the order of vs within each group.
func Group[T Tag, V Tagged[T]](vs []V) map[T][]V {
	groups := make(map[T][]V)
	for _, v := range vs {
		t := v.Tag()
		groups[t] = append(groups[t], v)
	}
	return groups
}
