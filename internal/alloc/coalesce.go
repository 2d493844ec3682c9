package alloc

// coalesce merges bp with any free immediate neighbors and (re)inserts the
// resulting block into the free list, covering the four cases (neither
// neighbor free, only the previous block free, only the next block free,
// both free). Returns the bp of the (possibly merged) free block.
func (h *Heap) coalesce(mem []byte, bp int) int {
	size, _ := blockSize(mem, bp)

	prevBlock := prevBp(mem, bp)
	prevFree := !blockAllocated(mem, prevBlock)
	nextBlock := nextBp(mem, bp)
	nextFree := !blockAllocated(mem, nextBlock)

	switch {
	case !prevFree && !nextFree:
		h.addToFreeList(mem, bp)
		return bp

	case prevFree && !nextFree:
		pSize, _ := blockSize(mem, prevBlock)
		h.removeFromFreeList(mem, prevBlock)
		merged := size + pSize
		setBlock(mem, prevBlock, merged, false)
		h.addToFreeList(mem, prevBlock)
		h.stats.CoalesceCount++
		return prevBlock

	case !prevFree && nextFree:
		nSize, _ := blockSize(mem, nextBlock)
		h.removeFromFreeList(mem, nextBlock)
		merged := size + nSize
		setBlock(mem, bp, merged, false)
		h.addToFreeList(mem, bp)
		h.stats.CoalesceCount++
		return bp

	default: // prevFree && nextFree
		pSize, _ := blockSize(mem, prevBlock)
		nSize, _ := blockSize(mem, nextBlock)
		h.removeFromFreeList(mem, prevBlock)
		h.removeFromFreeList(mem, nextBlock)
		merged := size + pSize + nSize
		setBlock(mem, prevBlock, merged, false)
		h.addToFreeList(mem, prevBlock)
		h.stats.CoalesceCount++
		return prevBlock
	}
}

func blockAllocated(mem []byte, bp int) bool {
	_, allocated := blockSize(mem, bp)
	return allocated
}

// extendHeap grows the arena by words*4 bytes (rounded up to an even word
// count to preserve 8-byte alignment), installs a new free block there,
// relocates the epilogue, and coalesces with whatever free space preceded
// it. The new block's bp coincides with the arena's break before growth:
// its header overwrites the old epilogue header slot, and the freshly
// grown bytes hold its payload, footer, and the new epilogue header.
func (h *Heap) extendHeap(words int) (int, error) {
	if words%2 != 0 {
		words++
	}
	size := words * wordSize

	oldBrk, err := h.arena.Sbrk(size)
	if err != nil {
		return 0, ErrOutOfMemory
	}

	mem := h.arena.Bytes()
	bp := oldBrk

	setBlock(mem, bp, uint32(size), false)
	writeWord(mem, headerOff(nextBp(mem, bp)), pack(0, true)) // new epilogue
	h.stats.ExtendCalls++

	return h.coalesce(mem, bp), nil
}
