package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	h, err := NewHeap()
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestInitProducesValidHeap(t *testing.T) {
	h := newTestHeap(t)
	require.True(t, h.CheckHeap())
	require.Equal(t, 1, h.FreeBlocks())
}

func TestAllocReturnsAlignedPointerWithinHeap(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Alloc(100)
	require.NoError(t, err)
	require.NotEqual(t, NilPtr, p)
	require.Zero(t, int(p)%8, "payload pointer must be 8-byte aligned")
	require.Greater(t, int(p), h.arena.Lo())
	require.Less(t, int(p), h.arena.Hi())
	require.True(t, h.CheckHeap())
}

func TestAllocZeroReturnsNil(t *testing.T) {
	h := newTestHeap(t)
	p, err := h.Alloc(0)
	require.NoError(t, err)
	require.Equal(t, NilPtr, p)
}

func TestFreeNilIsNoop(t *testing.T) {
	h := newTestHeap(t)
	h.Free(NilPtr)
	require.True(t, h.CheckHeap())
}

func TestDistinctAllocationsDoNotOverlap(t *testing.T) {
	h := newTestHeap(t)

	p1, err := h.Alloc(64)
	require.NoError(t, err)
	p2, err := h.Alloc(64)
	require.NoError(t, err)

	b1 := h.Payload(p1)
	b2 := h.Payload(p2)
	for i := range b1 {
		b1[i] = 0xAA
	}
	for i := range b2 {
		b2[i] = 0x55
	}
	for _, b := range b1 {
		require.Equal(t, byte(0xAA), b)
	}
	for _, b := range b2 {
		require.Equal(t, byte(0x55), b)
	}
	require.True(t, h.CheckHeap())
}

func TestAllocOneTwiceYieldsBlocksAtLeastMinApart(t *testing.T) {
	h := newTestHeap(t)

	p1, err := h.Alloc(1)
	require.NoError(t, err)
	p2, err := h.Alloc(1)
	require.NoError(t, err)

	diff := int(p2) - int(p1)
	if diff < 0 {
		diff = -diff
	}
	require.GreaterOrEqual(t, diff, minBlockSize)
}

func TestPayloadSurvivesUntilFreedOrRealloced(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Alloc(32)
	require.NoError(t, err)
	payload := h.Payload(p)
	copy(payload, []byte("hello, allocator"))

	// An unrelated allocation must not disturb this block's bytes.
	_, err = h.Alloc(16)
	require.NoError(t, err)
	require.Equal(t, []byte("hello, allocator"), h.Payload(p)[:16])
	require.True(t, h.CheckHeap())
}

func TestFreeThenReallocSameSizeReusesAddress(t *testing.T) {
	h := newTestHeap(t)

	p1, err := h.Alloc(2048)
	require.NoError(t, err)
	h.Free(p1)

	p2, err := h.Alloc(2048)
	require.NoError(t, err)
	require.Equal(t, p1, p2)
	require.True(t, h.CheckHeap())
}

func TestReallocPreservesMinOldNewBytes(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Alloc(8)
	require.NoError(t, err)
	copy(h.Payload(p), []byte{1, 2, 3, 4, 5, 6, 7, 8})

	grown, err := h.Realloc(p, 64)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, h.Payload(grown)[:8])

	shrunk, err := h.Realloc(grown, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, h.Payload(shrunk)[:4])
	require.True(t, h.CheckHeap())
}

func TestReallocZeroActsAsFree(t *testing.T) {
	h := newTestHeap(t)
	p, err := h.Alloc(16)
	require.NoError(t, err)

	got, err := h.Realloc(p, 0)
	require.NoError(t, err)
	require.Equal(t, NilPtr, got)
	require.True(t, h.CheckHeap())
}

func TestReallocNilActsAsAlloc(t *testing.T) {
	h := newTestHeap(t)
	p, err := h.Realloc(NilPtr, 32)
	require.NoError(t, err)
	require.NotEqual(t, NilPtr, p)
}

func TestCallocZeroesMemory(t *testing.T) {
	h := newTestHeap(t)
	p, err := h.Calloc(8, 4)
	require.NoError(t, err)

	payload := h.Payload(p)
	require.GreaterOrEqual(t, len(payload), 32)
	for _, b := range payload[:32] {
		require.Zero(t, b)
	}
}

func TestCallocRejectsOverflowingProduct(t *testing.T) {
	h := newTestHeap(t)
	_, err := h.Calloc(2, int(^uint(0)>>1))
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestCallocRejectsNegativeArguments(t *testing.T) {
	h := newTestHeap(t)
	_, err := h.Calloc(-1, 8)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestAllocGrowsArenaWhenNoFitExists(t *testing.T) {
	h := newTestHeap(t)

	var ptrs []Ptr
	for i := 0; i < 64; i++ {
		p, err := h.Alloc(4096)
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}
	require.True(t, h.CheckHeap())
	require.Greater(t, h.Stats().ExtendCalls, 1)
}

func TestAllocFailsWhenArenaCannotGrow(t *testing.T) {
	// Room for the sentinels and the initial 2048-byte chunk, but not for
	// the extension a 4096-byte request needs.
	arena, err := newPlatformArena(4096)
	require.NoError(t, err)
	h, err := NewHeapWithArena(arena)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	p, err := h.Alloc(4096)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Equal(t, NilPtr, p)
}
