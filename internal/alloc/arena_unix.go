//go:build unix

package alloc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mmapArena backs Sbrk with a single large anonymous mapping reserved up
// front, exactly the "reserve virtual space, then bump a watermark" trick
// a real brk/sbrk implementation uses under the hood. Anonymous pages are
// demand-zeroed and not charged against RSS until touched, so reserving
// defaultReservation bytes is cheap even though the heap only ever uses a
// sliver of it in tests.
type mmapArena struct {
	mem []byte // the full reservation, PROT_READ|PROT_WRITE
	brk int    // current break offset; 0 <= brk <= len(mem)
}

func newPlatformArena(reserve int) (Arena, error) {
	mem, err := unix.Mmap(-1, 0, reserve, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("alloc: mmap reservation failed: %w", err)
	}
	return &mmapArena{mem: mem}, nil
}

func (a *mmapArena) Sbrk(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("alloc: sbrk negative size %d", n)
	}
	if a.brk+n > len(a.mem) {
		return 0, ErrArenaCap
	}
	old := a.brk
	a.brk += n
	return old, nil
}

func (a *mmapArena) Lo() int { return 0 }
func (a *mmapArena) Hi() int { return a.brk }

func (a *mmapArena) Bytes() []byte { return a.mem[:a.brk] }

func (a *mmapArena) Close() error {
	if a.mem == nil {
		return nil
	}
	err := unix.Munmap(a.mem)
	a.mem = nil
	return err
}
