package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the arena could not be extended to satisfy a request.
	ErrOutOfMemory = errors.New("alloc: arena exhausted, sbrk failed")

	// ErrInvalidPointer indicates an operation was given a Ptr that does not
	// reference a currently allocated block.
	ErrInvalidPointer = errors.New("alloc: invalid or stale pointer")

	// ErrCorruptHeap indicates CheckHeap found a violated invariant.
	ErrCorruptHeap = errors.New("alloc: heap invariant violated")

	// ErrArenaCap indicates Sbrk would exceed the arena's reserved capacity.
	ErrArenaCap = errors.New("alloc: sbrk request exceeds arena reservation")
)
