package alloc

// Arena is the sbrk-style primitive the allocator grows over.
// Sbrk extends the arena monotonically and returns the previous break
// offset, the "old end of heap" a real sbrk(2) returns. It never shrinks.
type Arena interface {
	// Sbrk grows the arena by n bytes and returns the offset the break
	// pointer had before the grow (the start of the newly available
	// region). n must be >= 0. Returns ErrArenaCap if the arena cannot
	// grow by n bytes.
	Sbrk(n int) (int, error)

	// Lo returns the lowest valid offset in the arena (0).
	Lo() int

	// Hi returns the current break offset (one past the last valid byte).
	Hi() int

	// Bytes returns the backing storage for the live [Lo, Hi) region.
	// Callers may read and write through the returned slice; it is
	// invalidated by the next Sbrk call that forces a reallocation.
	Bytes() []byte

	// Close releases any OS resources held by the arena.
	Close() error
}

// defaultReservation is the virtual address space reserved up front by the
// unix mmap-backed arena. It is never committed all at once — anonymous
// pages are demand-zeroed by the kernel — so this is cheap to reserve
// generously.
const defaultReservation = 1 << 30 // 1 GiB

// NewArena returns the platform's Arena implementation with the default
// reservation size.
func NewArena() (Arena, error) {
	return newPlatformArena(defaultReservation)
}
