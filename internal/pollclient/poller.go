// Package pollclient implements the client-side polling loop that
// drives the pipeline forward. The server performs one step per call;
// the poller calls until the step reports done or a bound is hit, so a
// stuck record can never poll forever.
package pollclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrMaxAttempts is returned when the attempt budget runs out.
	ErrMaxAttempts = errors.New("poll attempts exhausted")
	// ErrTimeout is returned when the wall-clock budget runs out.
	ErrTimeout = errors.New("poll deadline exceeded")
	// ErrStopped is returned when the poller was stopped explicitly.
	ErrStopped = errors.New("poller stopped")
)

// StepFunc performs one poll step. Returning done stops the loop
// successfully; returning an error stops it immediately.
type StepFunc func(ctx context.Context) (done bool, err error)

// Poller repeatedly invokes a step with bounded attempts and wall-clock
// time.
type Poller struct {
	interval    time.Duration
	maxAttempts int
	timeout     time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// New creates a poller. All bounds must be positive.
func New(interval time.Duration, maxAttempts int, timeout time.Duration) (*Poller, error) {
	if interval <= 0 || maxAttempts <= 0 || timeout <= 0 {
		return nil, fmt.Errorf("poller bounds must be positive (interval=%v attempts=%d timeout=%v)",
			interval, maxAttempts, timeout)
	}
	return &Poller{
		interval:    interval,
		maxAttempts: maxAttempts,
		timeout:     timeout,
		stop:        make(chan struct{}),
	}, nil
}

// NewFreePoller returns the poller used for the scrape-and-analyze flow.
func NewFreePoller() *Poller {
	p, _ := New(3*time.Second, 20, 60*time.Second)
	return p
}

// NewPaidPoller returns the poller used for the paid description flow,
// which spans two model calls and a webhook wait.
func NewPaidPoller() *Poller {
	p, _ := New(4*time.Second, 30, 120*time.Second)
	return p
}

// Stop halts the loop after the current step. Safe to call from another
// goroutine and to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Run invokes step until it reports done, an error occurs, or a bound is
// hit. The first attempt happens immediately.
func (p *Poller) Run(ctx context.Context, step StepFunc) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		done, err := step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt >= p.maxAttempts {
			return ErrMaxAttempts
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrTimeout
			}
			return ctx.Err()
		case <-p.stop:
			return ErrStopped
		case <-ticker.C:
		}
	}
}
