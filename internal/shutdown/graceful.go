package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SIGINT/SIGTERMでcancelされるctx
func WithSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
		case <-ctx.Done():
		}
		signal.Stop(ch)
		cancel()
	}()

	return ctx, cancel
}
