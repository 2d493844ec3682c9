package alloc

// Bounds on the bounded-lookahead best-fit scan.
const (
	maxCandidates = 8   // stop once this many qualifying blocks have been seen
	maxLookahead  = 200 // stop after this many additional free blocks, once scanning
)

// findFit scans the free list from its head looking for a block of at
// least asize bytes. Once the first qualifying candidate is found it keeps
// scanning — a bounded best-fit search — for up to maxLookahead further
// free blocks or until maxCandidates qualifying blocks have been seen,
// whichever comes first, returning the smallest candidate observed (ties
// broken by whichever was found first). Returns NilPtr if nothing fits.
func (h *Heap) findFit(mem []byte, asize uint32) Ptr {
	var best Ptr
	var bestSize uint32
	candidates := 0
	lookahead := 0
	scanning := false

	for bp := h.freeListRoot; bp != NilPtr; bp = getNextFree(mem, int(bp)) {
		if scanning {
			lookahead++
		}

		size, _ := blockSize(mem, int(bp))
		if size >= asize {
			candidates++
			if candidates == 1 {
				scanning = true
				best = bp
				bestSize = size
			} else if size < bestSize {
				best = bp
				bestSize = size
			}
		}

		if candidates >= maxCandidates || lookahead >= maxLookahead {
			break
		}
	}
	return best
}
