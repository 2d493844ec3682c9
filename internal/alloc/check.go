package alloc

import "github.com/darganad/Introduction-to-ComputerSystems/internal/logging"

// CheckHeap walks both the heap's block chain and the free list and
// verifies that headers agree with footers, block sizes and alignment
// are in range, no two free blocks sit adjacent, and the free-list
// membership count matches the in-heap free count. It never mutates
// heap state — it only reads — so it is safe to call between any two
// public operations, including from inside tests that assert it holds
// after every step.
//
// The heap-order walk below terminates on the epilogue sentinel — the
// only block with size 0 — rather than on a next-pointer comparison
// against nil, which would never be true for an in-bounds walk and so
// would never terminate the loop.
func (h *Heap) CheckHeap() bool {
	mem := h.arena.Bytes()

	if !h.checkFreeList(mem) {
		return false
	}
	return h.checkHeapOrder(mem)
}

// checkFreeList verifies invariants 4 and 5: every free-list member is
// within bounds and marked free, and the doubly linked list is
// internally consistent.
func (h *Heap) checkFreeList(mem []byte) bool {
	lo, hi := h.arena.Lo(), h.arena.Hi()

	for bp := h.freeListRoot; bp != NilPtr; bp = getNextFree(mem, int(bp)) {
		off := int(bp)
		if off <= lo || off >= hi {
			logging.Error("checkheap: free-list pointer out of range", "bp", off)
			return false
		}
		if blockAllocated(mem, off) {
			logging.Error("checkheap: free-list member marked allocated", "bp", off)
			return false
		}

		next := getNextFree(mem, off)
		if next != NilPtr {
			if getPrevFree(mem, int(next)) != bp {
				logging.Error("checkheap: free-list back-link broken", "bp", off)
				return false
			}
		}
	}
	return true
}

// checkHeapOrder walks the heap in address order from the prologue to
// the epilogue, verifying invariants 1, 2, and 3, and cross-checks
// invariant 6 (free-block count agreement) against the free list.
func (h *Heap) checkHeapOrder(mem []byte) bool {
	freeInHeap := 0

	for bp := h.listBase; ; bp = nextBp(mem, bp) {
		size, allocated := blockSize(mem, bp)

		if size == 0 && allocated {
			break // epilogue sentinel reached
		}

		footerSize, footerAlloc := unpack(readWord(mem, footerOff(bp, size)))
		if footerSize != size || footerAlloc != allocated {
			logging.Error("checkheap: header/footer mismatch", "bp", bp)
			return false
		}

		if bp != h.listBase {
			if size%dsize != 0 || size < minBlockSize {
				logging.Error("checkheap: block size invariant violated", "bp", bp, "size", size)
				return false
			}
		}

		if !allocated {
			freeInHeap++

			next := nextBp(mem, bp)
			if !blockAllocated(mem, next) {
				logging.Error("checkheap: two free blocks adjacent", "bp", bp, "next", next)
				return false
			}
		}
	}

	if freeInHeap != h.freeListLen(mem) {
		logging.Error("checkheap: free block count mismatch", "in_heap", freeInHeap, "in_list", h.freeListLen(mem))
		return false
	}
	return true
}
