package alloc

// Heap implements the allocator's public surface over a single Arena. It
// is not safe for concurrent use.
type Heap struct {
	arena Arena

	// listBase is the bp of the prologue pseudo-block — the fixed anchor
	// CheckHeap's heap-order walk starts from.
	listBase int

	// freeListRoot is the head of the in-band doubly linked free list,
	// or NilPtr when the list is empty.
	freeListRoot Ptr

	stats Stats
}

// NewHeap allocates a fresh Arena and returns an initialized Heap.
func NewHeap() (*Heap, error) {
	arena, err := NewArena()
	if err != nil {
		return nil, err
	}
	return NewHeapWithArena(arena)
}

// NewHeapWithArena initializes a Heap over a caller-provided Arena —
// mainly for tests that want a deliberately small or instrumented
// reservation to exercise sbrk failure.
func NewHeapWithArena(arena Arena) (*Heap, error) {
	h := &Heap{arena: arena}
	if err := h.init(); err != nil {
		return nil, err
	}
	return h, nil
}

// init installs the prologue/epilogue sentinels and one initial free
// chunk.
func (h *Heap) init() error {
	base, err := h.arena.Sbrk(4 * wordSize)
	if err != nil {
		return ErrOutOfMemory
	}
	mem := h.arena.Bytes()

	writeWord(mem, base, 0)                               // alignment padding
	writeWord(mem, base+wordSize, pack(prologueSize, true))   // prologue header
	writeWord(mem, base+2*wordSize, pack(prologueSize, true)) // prologue footer
	writeWord(mem, base+3*wordSize, pack(0, true))            // epilogue header

	h.listBase = base + 2*wordSize
	h.freeListRoot = NilPtr

	_, err = h.extendHeap(chunkSize / wordSize)
	return err
}

// Alloc allocates a block with at least size bytes of payload. size == 0
// returns NilPtr with no error. Returns ErrOutOfMemory if the arena
// cannot be extended to satisfy the request.
func (h *Heap) Alloc(size int) (Ptr, error) {
	if size == 0 {
		return NilPtr, nil
	}
	asize := uint32(adjustedSize(size))

	mem := h.arena.Bytes()
	if bp := h.findFit(mem, asize); bp != NilPtr {
		h.place(mem, int(bp), asize)
		h.stats.AllocCalls++
		return bp, nil
	}

	extendSize := int(asize)
	if extendSize < chunkSize {
		extendSize = chunkSize
	}
	bp, err := h.extendHeap(extendSize / wordSize)
	if err != nil {
		return NilPtr, err
	}
	mem = h.arena.Bytes()
	h.place(mem, bp, asize)
	h.stats.AllocCalls++
	return Ptr(bp), nil
}

// place carves asize bytes out of the free block at bp, splitting off the
// remainder as a new free block when it would be at least minBlockSize.
func (h *Heap) place(mem []byte, bp int, asize uint32) {
	csize, _ := blockSize(mem, bp)
	h.removeFromFreeList(mem, bp)

	if csize-asize >= minBlockSize {
		setBlock(mem, bp, asize, true)
		rest := bp + int(asize)
		setBlock(mem, rest, csize-asize, false)
		h.addToFreeList(mem, rest)
		h.stats.SplitCount++
		return
	}
	setBlock(mem, bp, csize, true)
}

// Free marks the block at ptr free and coalesces it with its neighbors.
// ptr == NilPtr is a no-op.
func (h *Heap) Free(ptr Ptr) {
	if ptr == NilPtr {
		return
	}
	mem := h.arena.Bytes()
	bp := int(ptr)
	size, _ := blockSize(mem, bp)
	setBlock(mem, bp, size, false)
	h.coalesce(mem, bp)
	h.stats.FreeCalls++
}

// Realloc resizes the allocation at ptr to size bytes. size == 0 behaves
// as Free; ptr == NilPtr behaves as Alloc. On failure the original block
// is left untouched.
func (h *Heap) Realloc(ptr Ptr, size int) (Ptr, error) {
	if size == 0 {
		h.Free(ptr)
		return NilPtr, nil
	}
	if ptr == NilPtr {
		return h.Alloc(size)
	}

	mem := h.arena.Bytes()
	oldBp := int(ptr)
	oldBlockSize, _ := blockSize(mem, oldBp)
	oldPayload := int(oldBlockSize) - dsize

	newPtr, err := h.Alloc(size)
	if err != nil {
		return NilPtr, err
	}

	mem = h.arena.Bytes() // Alloc may have grown the arena
	n := size
	if oldPayload < n {
		n = oldPayload
	}
	copy(mem[int(newPtr):int(newPtr)+n], mem[oldBp:oldBp+n])

	h.Free(ptr)
	h.stats.ReallocCalls++
	return newPtr, nil
}

// Calloc allocates n*size bytes and zeroes them. Returns ErrOutOfMemory
// for a negative n or size, or for an n*size product that overflows int.
func (h *Heap) Calloc(n, size int) (Ptr, error) {
	if n < 0 || size < 0 {
		return NilPtr, ErrOutOfMemory
	}
	total := n * size
	if n != 0 && total/n != size {
		return NilPtr, ErrOutOfMemory
	}

	ptr, err := h.Alloc(total)
	if err != nil || ptr == NilPtr {
		return ptr, err
	}
	clear(h.Payload(ptr))
	h.stats.CallocCalls++
	return ptr, nil
}

// Payload returns a window over the live payload bytes of ptr, for
// callers that need to read or write through an allocation. Returns nil
// for NilPtr.
func (h *Heap) Payload(ptr Ptr) []byte {
	if ptr == NilPtr {
		return nil
	}
	mem := h.arena.Bytes()
	bp := int(ptr)
	size, _ := blockSize(mem, bp)
	payloadLen := int(size) - dsize
	return mem[bp : bp+payloadLen]
}

// Close releases the underlying arena's resources.
func (h *Heap) Close() error {
	return h.arena.Close()
}
