package watch

import (
	"context"
	"time"
)

// Debouncer coalesces change notifications into a single pending task that
// runs once no notification has arrived for the configured delay. The task
// runs on the Run goroutine only, so two runs never overlap.
type Debouncer struct {
	delay   time.Duration
	task    func(context.Context)
	signals chan struct{}
}

// NewDebouncer creates a Debouncer running task after delay of quiet.
func NewDebouncer(delay time.Duration, task func(context.Context)) *Debouncer {
	return &Debouncer{
		delay:   delay,
		task:    task,
		signals: make(chan struct{}, 1),
	}
}

// Notify records that the document changed. It never blocks; bursts collapse
// into the one pending signal.
func (d *Debouncer) Notify() {
	select {
	case d.signals <- struct{}{}:
	default:
	}
}

// Run consumes notifications until ctx is done. Cancelling ctx drops any
// pending task.
func (d *Debouncer) Run(ctx context.Context) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.signals:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(d.delay)
			fire = timer.C
		case <-fire:
			fire = nil
			d.task(ctx)
		}
	}
}
