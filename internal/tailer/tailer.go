// Package tailer follows a growing Client.txt and delivers appended lines.
package tailer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/nxadm/tail"
)

// errBuffer is the buffer size for the error channel.
// A small buffer keeps a read error from being lost while the consumer is
// busy processing lines.
const errBuffer = 16

// Tailer wraps nxadm/tail and forwards lines until stopped.
type Tailer struct {
	t      *tail.Tail
	ctx    context.Context
	cancel context.CancelFunc
	lines  chan string
	errors chan error
	doneCh chan struct{}

	mu      sync.Mutex
	stopped bool
}

// Config holds configuration for tailing.
type Config struct {
	// Offset is the byte offset to start reading from. Negative values
	// start at the current end of the file.
	Offset int64

	// Poll uses stat polling instead of filesystem notifications.
	Poll bool

	// ReOpen follows the file by name if it is truncated or recreated.
	ReOpen bool
}

// DefaultConfig starts at the end of the file and polls for appended data.
// Polling behaves the same on every platform, including network drives and
// files written through Wine.
func DefaultConfig() Config {
	return Config{
		Offset: -1,
		Poll:   true,
	}
}

// New starts tailing path. The file must already exist.
// The provided context controls the tailer's lifecycle.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	location := &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	if cfg.Offset >= 0 {
		location = &tail.SeekInfo{Offset: cfg.Offset, Whence: io.SeekStart}
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    cfg.ReOpen,
		Poll:      cfg.Poll,
		MustExist: true,
		Location:  location,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening tail: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	tailer := &Tailer{
		t:      t,
		ctx:    ctx,
		cancel: cancel,
		lines:  make(chan string),
		errors: make(chan error, errBuffer),
		doneCh: make(chan struct{}),
	}

	go tailer.run()

	return tailer, nil
}

// Lines returns a channel that receives appended lines without their
// trailing newline. It is closed when the tailer stops.
func (t *Tailer) Lines() <-chan string {
	return t.lines
}

// Errors returns a channel that receives read errors.
// Errors are dropped if the buffer is full.
func (t *Tailer) Errors() <-chan error {
	return t.errors
}

// Stop stops tailing and closes all channels.
// Safe to call multiple times.
func (t *Tailer) Stop() error {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.stopped = true
	t.mu.Unlock()

	t.cancel()
	<-t.doneCh
	return t.t.Stop()
}

func (t *Tailer) run() {
	defer close(t.doneCh)
	defer close(t.lines)
	defer close(t.errors)

	for {
		select {
		case <-t.ctx.Done():
			return
		case line, ok := <-t.t.Lines:
			if !ok {
				// nxadm/tail closes Lines just before it dies; Wait returns the reason.
				if err := t.t.Wait(); err != nil && err != tail.ErrStop {
					t.sendError(fmt.Errorf("tail: %w", err))
				}
				return
			}
			if line.Err != nil {
				t.sendError(fmt.Errorf("tail: %w", line.Err))
				continue
			}
			select {
			case t.lines <- line.Text:
			case <-t.ctx.Done():
				return
			}
		}
	}
}

func (t *Tailer) sendError(err error) {
	select {
	case t.errors <- err:
	case <-t.ctx.Done():
	default:
	}
}
