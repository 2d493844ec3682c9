// Command proxy runs a concurrent caching HTTP/1.0 forward proxy.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/darganad/Introduction-to-ComputerSystems/internal/httpproxy"
	"github.com/darganad/Introduction-to-ComputerSystems/internal/logging"
)

func main() {
	execute()
}

// runServer installs the interrupt handler and blocks on the accept loop.
func runServer(ctx context.Context, port int) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpproxy.NewServer(port)
	err := srv.ListenAndServe(ctx)
	if ctx.Err() != nil {
		logging.Info("proxy shutting down")
		return nil
	}
	return err
}
