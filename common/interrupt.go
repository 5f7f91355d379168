package common

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func notifyInterrupt() chan os.Signal {
	interrupt := make(chan os.Signal, 2)
	signal.Notify(interrupt,
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGQUIT,
	)
	return interrupt
}

func Interrupted() <-chan os.Signal {
	return notifyInterrupt()
}

// InterruptContext is cancelled on the first interrupt signal.
func InterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := notifyInterrupt()
	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			slog.Warn("Interrupted", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
