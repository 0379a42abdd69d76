package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/ui"
)

// SignalContext returns a context cancelled on SIGINT/SIGTERM. The batch
// finishes the site in flight and reports what it has. A second signal
// within gracePeriod exits immediately with defaults.ExitInterrupted.
//
//	ctx, cancel := cli.SignalContext(duration.GracePeriod)
//	defer cancel()
func SignalContext(gracePeriod time.Duration) (context.Context, context.CancelFunc) {
	return signalContextWithNotifier(gracePeriod, nil, nil)
}

// signalContextWithNotifier lets tests inject the signal channel and
// replace os.Exit.
func signalContextWithNotifier(
	gracePeriod time.Duration,
	sigChan chan os.Signal,
	exitFn func(int),
) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	ownChannel := sigChan == nil
	if ownChannel {
		sigChan = make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	}
	if exitFn == nil {
		exitFn = os.Exit
	}

	go func() {
		select {
		case <-sigChan:
			ui.PrintWarning("interrupt received, finishing the current site (press Ctrl-C again to quit)")
			cancel()

			select {
			case <-sigChan:
				exitFn(defaults.ExitInterrupted)
			case <-time.After(gracePeriod):
			}
		case <-ctx.Done():
		}
		if ownChannel {
			signal.Stop(sigChan)
		}
	}()

	return ctx, cancel
}
