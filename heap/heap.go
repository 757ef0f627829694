// Package heap implements TeenyJVM's reference-backed integer array arena:
// an append-only, never-reused table of owned int32 arrays addressed by
// small integer reference, the target of newarray/iaload/iastore/
// arraylength.
package heap

import "fmt"

// Heap is a growable, ordered sequence of owned integer arrays. A
// "reference" is an array's ordinal index (0-based). References are never
// reused; the heap is monotone-append within one run and is reclaimed as a
// whole (by the garbage collector, once the *Heap itself is released) at
// program teardown — the Go analogue of the reference implementation's
// heap_free, which frees every array it owns in one pass.
type Heap struct {
	arrays [][]int32
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{}
}

// NewArray allocates an array for the newarray instruction and returns its
// heap reference. Element 0 holds count; usable elements occupy positions
// 1..count, per the on-heap array layout convention in the data model.
//
// If count <= 0, the reference implementation still allocates a single
// slot holding that count value with no usable data slots — kept here for
// compatibility, since arraylength on such an array should still observe
// the (non-positive) count that was requested.
func (h *Heap) NewArray(count int32) int32 {
	var array []int32
	if count <= 0 {
		array = []int32{count}
	} else {
		array = make([]int32, count+1)
		array[0] = count
	}
	h.arrays = append(h.arrays, array)
	return int32(len(h.arrays) - 1)
}

// Get returns the array owned by ref, bounds-checked.
func (h *Heap) Get(ref int32) ([]int32, error) {
	if ref < 0 || int(ref) >= len(h.arrays) {
		return nil, fmt.Errorf("heap reference %d out of range [0, %d)", ref, len(h.arrays))
	}
	return h.arrays[ref], nil
}
