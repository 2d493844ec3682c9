package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darganad/Introduction-to-ComputerSystems/internal/alloc"
)

func newStatsCmd() *cobra.Command {
	var allocCount int
	var allocSize int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Drive a synthetic workload and report allocator counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := alloc.NewHeap()
			if err != nil {
				return err
			}
			defer h.Close()

			for i := 0; i < allocCount; i++ {
				if _, err := h.Alloc(allocSize); err != nil {
					return fmt.Errorf("alloc %d/%d: %w", i+1, allocCount, err)
				}
			}

			if !h.CheckHeap() {
				return fmt.Errorf("heap failed its own invariant check after the workload")
			}

			stats := h.Stats()
			if jsonOut {
				return printJSON(stats)
			}

			fmt.Printf("alloc calls:     %d\n", stats.AllocCalls)
			fmt.Printf("free calls:      %d\n", stats.FreeCalls)
			fmt.Printf("realloc calls:   %d\n", stats.ReallocCalls)
			fmt.Printf("calloc calls:    %d\n", stats.CallocCalls)
			fmt.Printf("splits:          %d\n", stats.SplitCount)
			fmt.Printf("coalesces:       %d\n", stats.CoalesceCount)
			fmt.Printf("heap extensions: %d\n", stats.ExtendCalls)
			fmt.Printf("bytes in use:    %d\n", h.BytesInUse())
			fmt.Printf("free blocks:     %d\n", h.FreeBlocks())
			return nil
		},
	}

	cmd.Flags().IntVar(&allocCount, "count", 100, "Number of allocations to perform")
	cmd.Flags().IntVar(&allocSize, "size", 64, "Payload size per allocation, in bytes")
	return cmd
}
