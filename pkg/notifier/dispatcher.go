package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

type Options struct {
	// Workers caps concurrent deliveries. Messages beyond the cap are dropped.
	Workers    int
	MaxRetries uint64
	Backoff    time.Duration
	Timeout    time.Duration
}

// Dispatcher runs deliveries in the background with bounded concurrency and
// retries. A delivery never reports back to the caller.
type Dispatcher struct {
	sender Sender
	opts   Options
	log    *zap.Logger

	sema    chan struct{}
	wg      sync.WaitGroup
	stateMu sync.RWMutex
	closed  bool
}

func NewDispatcher(sender Sender, opts Options, log *zap.Logger) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 16
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 200 * time.Millisecond
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Dispatcher{
		sender: sender,
		opts:   opts,
		log:    log.With(zap.String("component", "notifier")),
		sema:   make(chan struct{}, opts.Workers),
	}
}

// Dispatch schedules msg for delivery and returns immediately. It reports
// whether the message was scheduled.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) bool {
	d.stateMu.RLock()
	defer d.stateMu.RUnlock()

	if d.closed {
		d.log.Warn("Dispatcher closed, dropping OTP delivery", zap.String("destination", msg.Destination))
		return false
	}

	select {
	case d.sema <- struct{}{}:
	default:
		d.log.Warn("Delivery capacity reached, dropping OTP delivery", zap.String("destination", msg.Destination))
		return false
	}

	// the request that issued the code may finish before delivery does
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.Timeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		defer func() {
			<-d.sema
			if rvr := recover(); rvr != nil {
				d.log.Error("Panic during OTP delivery", zap.Any("panic", rvr), zap.Stack("stack"))
			}
		}()

		d.deliver(sendCtx, msg)
	}()

	return true
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	b := retry.NewFibonacci(d.opts.Backoff)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(d.opts.MaxRetries, b)

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Warn("OTP delivery attempt failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.String("destination", msg.Destination),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		d.log.Error("OTP delivery failed",
			zap.Error(err),
			zap.Int("attempts", attempt),
			zap.String("destination", msg.Destination),
			zap.String("purpose", msg.Purpose),
		)
	}
}

// Close stops accepting messages and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.stateMu.Lock()
	d.closed = true
	d.stateMu.Unlock()

	d.wg.Wait()
}
