package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/darganad/Introduction-to-ComputerSystems/internal/logging"
)

var (
	verbose bool
	quiet   bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "proxy <port>",
	Short: "Concurrent caching HTTP/1.0 forward proxy",
	Long: `proxy is a caching forward proxy for HTTP/1.0 GET requests. It listens
on <port>, forwards each request to its origin, and caches responses under
their request URI subject to a fixed total cache size and per-response
size cap.`,
	Args: cobra.ExactArgs(1),
	RunE: runProxy,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all logging except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Emit logs as JSON")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runProxy(cmd *cobra.Command, args []string) error {
	port, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", args[0], err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logging.Init(logging.Options{Quiet: quiet, JSON: jsonOut, Level: level})

	return runServer(cmd.Context(), port)
}
