package poelog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/poelog/poelog-go/internal/assembler"
	"github.com/poelog/poelog-go/internal/dedup"
	"github.com/poelog/poelog-go/internal/logfinder"
	"github.com/poelog/poelog-go/internal/tailer"
)

// Session watches one client log at a time and delivers each distinct
// entry to a Sink exactly once per watch.
//
// Start scans the whole file, then follows it for appended entries.
// Starting again (on the same or another file) replaces the running watch
// and clears the set of entries already seen. A Session is safe for
// concurrent use.
type Session struct {
	cfg  *sessionConfig
	sink Sink

	// startMu serializes Start calls. Stop does not take it, so a Stop
	// can interrupt a long backlog scan.
	startMu sync.Mutex

	mu       sync.Mutex
	closed   bool
	watching bool
	file     string
	id       string
	gen      uint64 // bumped on every Start and Stop
	seen     *dedup.SeenSet
	task     *tailTask // running tail task, nil when idle
	cond     *sync.Cond
	tasks    sync.WaitGroup // every tail goroutine, including abandoned ones
}

// tailTask is the state of one background tail goroutine.
// exited and inCall are guarded by Session.mu.
type tailTask struct {
	cancel context.CancelFunc
	exited bool
	inCall bool // inside a sink or error handler call
}

// NewSession creates an idle session that delivers events to sink.
// Returns error for invalid options.
func NewSession(sink Sink, opts ...SessionOption) (*Session, error) {
	if sink == nil {
		return nil, errors.New("poelog: sink required")
	}
	cfg := applySessionOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return newSession(cfg, sink), nil
}

func newSession(cfg *sessionConfig, sink Sink) *Session {
	s := &Session{
		cfg:  cfg,
		sink: sink,
		seen: dedup.New(),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Start begins watching the client log at path. An empty path is resolved
// through POELOG_FILE and the default install locations.
//
// Any running watch is stopped first and the seen-entry set is cleared.
// Every entry already in the file is delivered to the sink before Start
// returns; entries appended afterwards are delivered by a background task
// until Stop, Close, or cancellation of ctx.
//
// The backlog is delivered on the calling goroutine while Start holds the
// start lock, so a sink must not call Start during the backlog. Stop and
// Close are allowed there, as is any control call from the background task.
//
// If path cannot be resolved the error wraps ErrLogFileNotFound and the
// running watch, if any, is left untouched.
func (s *Session) Start(ctx context.Context, path string) error {
	file, err := logfinder.FindLogFile(path)
	if err != nil {
		return err
	}

	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	_ = s.Stop()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.gen++
	gen := s.gen
	s.watching = true
	s.file = file
	s.id = uuid.NewString()
	s.seen.Reset()
	logger := s.cfg.logger.With("session", s.id, "file", file)
	s.mu.Unlock()

	logger.Debug("watch started")

	offset, err := s.scanBacklog(ctx, gen, file, logger)
	if err != nil {
		s.deactivate(gen)
		return fmt.Errorf("reading %s: %w", file, err)
	}
	if !s.active(gen) {
		return nil
	}

	tctx, cancel := context.WithCancel(ctx)
	cfg := tailer.DefaultConfig()
	cfg.Offset = offset
	t, err := tailer.New(tctx, file, cfg)
	if err != nil {
		cancel()
		s.deactivate(gen)
		return fmt.Errorf("starting tailer: %w", err)
	}

	s.mu.Lock()
	if s.gen != gen {
		// Stopped while the backlog was being scanned.
		s.mu.Unlock()
		cancel()
		_ = t.Stop()
		return nil
	}
	task := &tailTask{cancel: cancel}
	s.task = task
	s.tasks.Add(1)
	s.mu.Unlock()

	go s.tail(tctx, gen, task, t, logger)
	return nil
}

// Stop ends the running watch, if any, and waits for the tail task to exit.
// The current file and the seen-entry set are cleared. Stop on an idle
// session is a no-op.
//
// When the tail task is inside a sink or error handler call, Stop does not
// wait for that call to return, so the call itself may invoke Stop, Close
// or Start. No further event is delivered by the stopped task.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.watching = false
	s.file = ""
	s.seen.Reset()
	task := s.task
	s.task = nil

	if task != nil {
		task.cancel()
		for !task.exited && !task.inCall {
			s.cond.Wait()
		}
	}
	return nil
}

// Close stops the session permanently. Subsequent Start calls return
// ErrSessionClosed. Safe to call multiple times.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Stop()
}

// wait blocks until every tail goroutine has returned, including one that
// Stop left running inside a sink call. It must not be called from a sink
// or error handler.
func (s *Session) wait() {
	s.tasks.Wait()
}

// Watching reports whether a watch is active.
func (s *Session) Watching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watching
}

// CurrentFile returns the resolved path of the watched log, or "" when idle.
func (s *Session) CurrentFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// ID returns the identifier minted by the most recent Start, or "" before
// the first one.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// active reports whether gen is still the running watch.
func (s *Session) active(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watching && s.gen == gen
}

// deactivate clears the watching flag if gen is still the running watch.
func (s *Session) deactivate(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.watching = false
	}
}

// scanBacklog emits every entry currently in file and returns the byte
// offset where the tail should resume. A trailing line without a newline
// is still being written, so it is left for the tail.
func (s *Session) scanBacklog(ctx context.Context, gen uint64, file string, logger *slog.Logger) (int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	end, err := lastLineEnd(f)
	if err != nil {
		return 0, err
	}

	var n int
	for entry, err := range assembler.Scan(io.NewSectionReader(f, 0, end)) {
		if err != nil {
			return 0, err
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if !s.active(gen) {
			break
		}
		s.emit(ctx, gen, nil, entry, logger)
		n++
	}

	logger.Debug("backlog scanned", "entries", n, "offset", end)
	return end, nil
}

// lineEndChunk is the read size used when searching backwards for '\n'.
const lineEndChunk = 4096

// lastLineEnd returns the offset just past the last '\n' in f, or 0 when
// f holds no complete line.
func lastLineEnd(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	buf := make([]byte, lineEndChunk)
	for pos := info.Size(); pos > 0; {
		n := int64(len(buf))
		if pos < n {
			n = pos
		}
		pos -= n
		if _, err := f.ReadAt(buf[:n], pos); err != nil && err != io.EOF {
			return 0, err
		}
		if i := bytes.LastIndexByte(buf[:n], '\n'); i >= 0 {
			return pos + int64(i) + 1, nil
		}
	}
	return 0, nil
}

// tail delivers appended entries until the task is cancelled, the watch
// is replaced, or reading fails. An entry still open when the task ends
// is not delivered.
func (s *Session) tail(ctx context.Context, gen uint64, task *tailTask, t *tailer.Tailer, logger *slog.Logger) {
	defer s.tasks.Done()
	defer func() {
		_ = t.Stop()
		s.mu.Lock()
		task.exited = true
		s.cond.Broadcast()
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.cfg.pollInterval)
	defer ticker.Stop()

	a := assembler.New()
	for {
		if !s.active(gen) {
			return
		}
		select {
		case <-ctx.Done():
			s.deactivate(gen)
			return
		case line, ok := <-t.Lines():
			if !ok {
				// The tailer closes Errors before Lines; a pending error
				// is still readable.
				if err, ok := <-t.Errors(); ok {
					s.fail(gen, task, err, logger)
				}
				s.deactivate(gen)
				return
			}
			if entry, ok := a.Feed(line); ok {
				s.emit(ctx, gen, task, entry, logger)
			}
		case err, ok := <-t.Errors():
			if !ok {
				return
			}
			s.fail(gen, task, err, logger)
			return
		case <-ticker.C:
		}
	}
}

// fail ends the watch identified by gen after a read error.
// Errors from a watch that was already stopped or replaced are dropped.
func (s *Session) fail(gen uint64, task *tailTask, err error, logger *slog.Logger) {
	s.mu.Lock()
	current := s.watching && s.gen == gen
	if current {
		s.watching = false
	}
	s.mu.Unlock()
	if !current {
		return
	}

	logger.Error("tail stopped", "error", err)
	if s.cfg.onError != nil {
		s.enterCall(task)
		defer s.leaveCall(task)
		s.cfg.onError(err)
	}
}

// enterCall marks task as calling out to user code. task is nil for
// backlog delivery, which runs on the Start goroutine.
func (s *Session) enterCall(task *tailTask) {
	if task == nil {
		return
	}
	s.mu.Lock()
	task.inCall = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

func (s *Session) leaveCall(task *tailTask) {
	if task == nil {
		return
	}
	s.mu.Lock()
	task.inCall = false
	s.mu.Unlock()
}

// emit admits entry into the seen set and, if it is new and passes the
// category filter, delivers it to the sink.
func (s *Session) emit(ctx context.Context, gen uint64, task *tailTask, entry assembler.Entry, logger *slog.Logger) {
	ev := s.cfg.classifier.event(entry)
	deliver := s.cfg.filter.Allows(ev.Category)

	s.mu.Lock()
	if !s.watching || s.gen != gen {
		s.mu.Unlock()
		return
	}
	fresh := s.seen.Admit(ev.Message)
	if task != nil && fresh && deliver {
		task.inCall = true
		s.cond.Broadcast()
	}
	s.mu.Unlock()
	if !fresh || !deliver {
		return
	}

	defer s.leaveCall(task)
	if err := s.sink.Send(ctx, ev); err != nil {
		logger.Warn("sink rejected event", "category", ev.Category, "error", err)
	}
}
