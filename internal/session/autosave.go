package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("autosaver closed")

// AutoSaver writes snapshots from a single goroutine. Touch only records
// the latest snapshot; the writer saves it once no Touch has arrived for the
// debounce delay, so two saves never run at the same time.
type AutoSaver struct {
	store Store
	delay time.Duration
	log   *slog.Logger

	mu      sync.Mutex
	pending *Snapshot
	lastErr error

	signal  chan struct{}
	flushes chan chan error
	stop    chan struct{}
	once    sync.Once
	g       *errgroup.Group
}

// NewAutoSaver starts the writer. Cancelling ctx saves whatever is pending
// but keeps the writer running; it stops only when Close is called.
func NewAutoSaver(ctx context.Context, store Store, delay time.Duration, log *slog.Logger) *AutoSaver {
	if log == nil {
		log = slog.Default()
	}
	a := &AutoSaver{
		store:   store,
		delay:   delay,
		log:     log,
		signal:  make(chan struct{}, 1),
		flushes: make(chan chan error),
		stop:    make(chan struct{}),
	}
	g, gctx := errgroup.WithContext(ctx)
	a.g = g
	g.Go(func() error { return a.run(gctx) })
	return a
}

// Touch schedules s to be saved. It never blocks.
func (a *AutoSaver) Touch(s *Snapshot) {
	a.mu.Lock()
	a.pending = s.Clone()
	a.mu.Unlock()
	select {
	case a.signal <- struct{}{}:
	default:
	}
}

// Flush saves the pending snapshot now and returns the save error, if any.
func (a *AutoSaver) Flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case a.flushes <- reply:
	case <-a.stop:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close saves anything pending and stops the writer.
func (a *AutoSaver) Close() error {
	a.once.Do(func() { close(a.stop) })
	return a.g.Wait()
}

// LastError is the result of the most recent save.
func (a *AutoSaver) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *AutoSaver) run(ctx context.Context) error {
	timer := time.NewTimer(a.delay)
	timer.Stop()
	defer timer.Stop()

	// Saves outlive ctx: edits arriving after cancellation are still
	// written, and Close is the only way to stop the writer.
	saveCtx := context.WithoutCancel(ctx)
	done := ctx.Done()
	for {
		select {
		case <-a.signal:
			timer.Reset(a.delay)
		case <-timer.C:
			a.save(saveCtx)
		case reply := <-a.flushes:
			timer.Stop()
			reply <- a.save(saveCtx)
		case <-a.stop:
			return a.save(saveCtx)
		case <-done:
			done = nil
			timer.Stop()
			a.save(saveCtx)
		}
	}
}

func (a *AutoSaver) save(ctx context.Context) error {
	a.mu.Lock()
	s := a.pending
	a.pending = nil
	a.mu.Unlock()
	if s == nil {
		return nil
	}

	start := time.Now()
	err := a.store.Save(ctx, s)
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
	if err != nil {
		a.log.Warn("session save failed", "error", err)
		return err
	}
	a.log.Debug("session saved", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
