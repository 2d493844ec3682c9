// Package alloc provides an explicit free-list heap allocator backed by a
// growable byte arena.
//
// # Overview
//
// This package implements a malloc/free/realloc/calloc family over a single
// contiguous arena grown monotonically through an Arena.Sbrk primitive. It
// uses one in-band, doubly linked free list threaded through free blocks'
// payloads (no auxiliary index structure, no segregated size classes) with
// boundary-tag headers and footers for O(1) coalescing.
//
// # Block layout
//
//	[ header:4 | payload... | footer:4 ]
//
// header and footer each pack (size, allocated) into one 32-bit word; size
// is always a multiple of 8 and includes the header and footer themselves.
// A free block's payload carries two 8-byte link fields (next, prev) into
// the free list; a minimum block is 24 bytes (4 + 8 + 8 + 4).
//
// # Pointers
//
// Callers never see raw memory addresses. Alloc/Realloc/Calloc return a Ptr,
// an opaque offset into the arena; Heap.Payload(ptr) returns a []byte window
// over the live payload for reading or writing through it. This keeps the
// allocator free of unsafe.Pointer arithmetic while preserving the in-band
// link-cell representation the original algorithm depends on.
//
// # Placement policy
//
// find_fit does a bounded-lookahead best-fit scan: it starts recording
// candidates from the first free block big enough, then continues for up to
// 200 more free blocks or until it has seen 8 qualifying candidates,
// whichever comes first, returning the smallest candidate seen (ties go to
// whichever was found first). This bounds the worst-case scan while
// approximating best-fit near the head of the list.
//
// # Thread safety
//
// Heap is not safe for concurrent use. Callers needing shared access must
// synchronize externally — this package has no internal locking, matching
// the single-threaded allocator model it implements.
package alloc
