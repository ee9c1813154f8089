package notify

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/metrics"
	"github.com/aussiebroadwan/lectern/pkg/slogx"
)

const DefaultTimeout = 30 * time.Second

// Dispatcher runs deliveries for the invite lifecycle. Dispatch returns
// immediately; Stop lets in-flight deliveries finish before shutdown.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration

	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
	running map[context.Context]context.CancelFunc
}

func NewDispatcher(n Notifier, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		notifier: n,
		timeout:  timeout,
		running:  make(map[context.Context]context.CancelFunc),
	}
}

// Deliver sends m and waits. Failures are logged and counted; the return
// value only reports whether the message went out.
func (d *Dispatcher) Deliver(ctx context.Context, m Message) bool {
	log := slogx.FromContext(ctx)
	channel := d.notifier.Channel()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, m); err != nil {
		metrics.Notification(channel, metrics.OutcomeFailed)
		log.Warn("invite notification failed",
			slog.String("channel", channel),
			slog.String("invite_id", m.InviteID),
			slogx.Err(err),
		)
		return false
	}

	metrics.Notification(channel, metrics.OutcomeOK)
	log.Debug("invite notification sent",
		slog.String("channel", channel),
		slog.String("invite_id", m.InviteID),
	)
	return true
}

// Dispatch delivers m in the background. The delivery keeps ctx values but
// not its cancellation, so it outlives the request that triggered it.
func (d *Dispatcher) Dispatch(ctx context.Context, m Message) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		slogx.FromContext(ctx).Warn("invite notification dropped, dispatcher stopped",
			slog.String("invite_id", m.InviteID),
		)
		metrics.Notification(d.notifier.Channel(), metrics.OutcomeFailed)
		return
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.running[runCtx] = cancel
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer func() {
			d.mu.Lock()
			delete(d.running, runCtx)
			d.mu.Unlock()
			cancel()
			d.wg.Done()
		}()
		defer func() {
			if r := recover(); r != nil {
				buf := make([]byte, 10240)
				buf = buf[:runtime.Stack(buf, false)]
				slogx.FromContext(runCtx).Error("invite notification panicked",
					slog.String("invite_id", m.InviteID),
					slog.String("panic", fmt.Sprint(r)),
					slog.String("stack", string(buf)),
				)
			}
		}()

		d.Deliver(runCtx, m)
	}()
}

// Stop refuses new dispatches. With wait it gives in-flight deliveries up to
// timeout before cancelling them; without wait it cancels them at once.
func (d *Dispatcher) Stop(wait bool, timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	if wait {
		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(timeout):
		}
	}

	d.mu.Lock()
	for _, cancel := range d.running {
		cancel()
	}
	d.mu.Unlock()
}
