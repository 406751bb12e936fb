package poelog

import (
	"context"
	"fmt"
	"sync"

	"github.com/poelog/poelog-go/internal/logfinder"
)

// errChanBuffer is the buffer size of the error channel returned by Watch.
const errChanBuffer = 8

// Watcher runs a Session whose events are delivered on a channel.
type Watcher struct {
	cfg  *sessionConfig
	file string

	mu       sync.Mutex
	closed   bool
	cancel   context.CancelFunc // cancel func to stop the goroutine
	doneCh   chan struct{}      // signals when goroutine has exited
	watching bool               // true if Watch() has been called
}

// NewWatcher creates a watcher for the client log at path ("" auto-detects).
// Validates options and resolves the log file.
// Does NOT start goroutines (cheap to call).
// Returns error for invalid options or a missing log file.
func NewWatcher(path string, opts ...SessionOption) (*Watcher, error) {
	cfg := applySessionOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	file, err := logfinder.FindLogFile(path)
	if err != nil {
		return nil, err
	}

	return &Watcher{
		cfg:  cfg,
		file: file,
	}, nil
}

// File returns the resolved path of the watched log.
func (w *Watcher) File() string {
	return w.file
}

// Watch starts watching and returns channels.
// The existing content of the log is delivered first, then appended entries.
// Both channels close on ctx.Done(), Close, or a fatal read error.
// Watch can only be called once per Watcher instance.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, <-chan error) {
	w.mu.Lock()
	if w.closed || w.watching {
		w.mu.Unlock()
		// Return closed channels if already closed or watching
		eventCh := make(chan Event)
		errCh := make(chan error)
		close(eventCh)
		close(errCh)
		return eventCh, errCh
	}
	w.watching = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	eventCh := make(chan Event)
	errCh := make(chan error, errChanBuffer)

	go w.run(ctx, cancel, eventCh, errCh)

	return eventCh, errCh
}

// Close stops the watcher and releases resources.
// Safe to call multiple times.
// Blocks until the goroutine has exited.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true

	if w.cancel != nil {
		w.cancel()
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	// Wait for goroutine to exit if Watch was called
	if doneCh != nil {
		<-doneCh
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, cancel context.CancelFunc, eventCh chan<- Event, errCh chan<- error) {
	defer close(w.doneCh)
	defer close(eventCh)
	defer close(errCh)

	cfg := *w.cfg
	onError := cfg.onError
	cfg.onError = func(err error) {
		if onError != nil {
			onError(err)
		}
		sendError(errCh, err)
		cancel()
	}

	s := newSession(&cfg, chanSink(eventCh))
	defer func() {
		_ = s.Close()
		// The channels close after this, so no send may still be pending.
		s.wait()
	}()

	if err := s.Start(ctx, w.file); err != nil {
		if ctx.Err() == nil {
			sendError(errCh, err)
		}
		return
	}
	<-ctx.Done()
}

// sendError sends an error to the channel without blocking.
func sendError(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
		// Drop error if channel is full
	}
}

// Watch is a convenience function that creates a watcher and starts watching.
// Returns error immediately for initialization failures.
func Watch(ctx context.Context, path string, opts ...SessionOption) (<-chan Event, <-chan error, error) {
	w, err := NewWatcher(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	events, errs := w.Watch(ctx)
	return events, errs, nil
}
