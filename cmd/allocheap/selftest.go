package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darganad/Introduction-to-ComputerSystems/internal/alloc"
)

// selftestResult records the outcome of one named scenario.
type selftestResult struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`
	Note string `json:"note,omitempty"`
}

func newSelftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run the allocator's round-trip correctness scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := runSelftest()
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(results)
			}

			failed := 0
			for _, r := range results {
				status := "PASS"
				if !r.Pass {
					status = "FAIL"
					failed++
				}
				fmt.Printf("[%s] %s", status, r.Name)
				if r.Note != "" {
					fmt.Printf(" - %s", r.Note)
				}
				fmt.Println()
			}
			if failed > 0 {
				return fmt.Errorf("%d scenario(s) failed", failed)
			}
			return nil
		},
	}
}

// runSelftest exercises a handful of allocator round-trip scenarios,
// each against a fresh heap.
func runSelftest() ([]selftestResult, error) {
	var results []selftestResult

	results = append(results, scenarioAllocFreeRestoresFreeBlockCount())
	results = append(results, scenarioConsecutiveAllocsAreProperlySpaced())
	results = append(results, scenarioFreeThenReallocSameSizeReusesAddress())

	return results, nil
}

func scenarioAllocFreeRestoresFreeBlockCount() selftestResult {
	h, err := alloc.NewHeap()
	if err != nil {
		return selftestResult{Name: "alloc-free-restores-free-block-count", Pass: false, Note: err.Error()}
	}
	defer h.Close()

	before := h.FreeBlocks()
	p, err := h.Alloc(100)
	if err != nil {
		return selftestResult{Name: "alloc-free-restores-free-block-count", Pass: false, Note: err.Error()}
	}
	h.Free(p)

	ok := h.CheckHeap() && h.FreeBlocks() == before
	return selftestResult{Name: "alloc-free-restores-free-block-count", Pass: ok}
}

func scenarioConsecutiveAllocsAreProperlySpaced() selftestResult {
	h, err := alloc.NewHeap()
	if err != nil {
		return selftestResult{Name: "consecutive-allocs-are-properly-spaced", Pass: false, Note: err.Error()}
	}
	defer h.Close()

	p1, err1 := h.Alloc(1)
	p2, err2 := h.Alloc(1)
	if err1 != nil || err2 != nil {
		return selftestResult{Name: "consecutive-allocs-are-properly-spaced", Pass: false, Note: "allocation failed"}
	}

	diff := int(p2) - int(p1)
	ok := diff >= 24 && h.CheckHeap()
	return selftestResult{Name: "consecutive-allocs-are-properly-spaced", Pass: ok}
}

func scenarioFreeThenReallocSameSizeReusesAddress() selftestResult {
	h, err := alloc.NewHeap()
	if err != nil {
		return selftestResult{Name: "free-then-realloc-same-size-reuses-address", Pass: false, Note: err.Error()}
	}
	defer h.Close()

	p1, err := h.Alloc(2048)
	if err != nil {
		return selftestResult{Name: "free-then-realloc-same-size-reuses-address", Pass: false, Note: err.Error()}
	}
	h.Free(p1)

	p2, err := h.Alloc(2048)
	if err != nil {
		return selftestResult{Name: "free-then-realloc-same-size-reuses-address", Pass: false, Note: err.Error()}
	}

	ok := p1 == p2 && h.CheckHeap()
	return selftestResult{Name: "free-then-realloc-same-size-reuses-address", Pass: ok}
}
