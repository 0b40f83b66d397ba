// Package object owns the heap-allocated values of a running VM. The
// only object kind today is the interned string; the map from content
// to handle is what lets Value equality compare String handles in O(1)
// instead of comparing bytes.
package object

// StringHandle is a stable, opaque identifier for an interned string.
// Two handles compare equal iff they name the same interned string.
type StringHandle int

// Heap owns every string allocated during one VM's lifetime. It grows
// monotonically; nothing is ever freed, since there is no GC phase.
type Heap struct {
	strings []string
	byText  map[string]StringHandle
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{byText: make(map[string]StringHandle)}
}

// Intern returns the handle for s, allocating one if this is the first
// time s has been seen. Content equality implies handle equality.
func (h *Heap) Intern(s string) StringHandle {
	if handle, ok := h.byText[s]; ok {
		return handle
	}
	handle := StringHandle(len(h.strings))
	h.strings = append(h.strings, s)
	h.byText[s] = handle
	return handle
}

// Deref returns the string content behind handle. The returned string
// stays valid for the lifetime of the heap.
func (h *Heap) Deref(handle StringHandle) string {
	return h.strings[handle]
}

// Allocated reports the number of bytes the heap has interned so far.
// Used by CLI diagnostics only; it has no bearing on interning semantics.
func (h *Heap) Allocated() int {
	total := 0
	for _, s := range h.strings {
		total += len(s)
	}
	return total
}
