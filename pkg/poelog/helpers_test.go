package poelog_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poelog/poelog-go/pkg/poelog"
)

// logLine returns a Client.txt line stamped at second sec.
func logLine(sec int, body string) string {
	return fmt.Sprintf("2024/12/06 20:11:%02d 123456789 cff945b9 [INFO Client 1234] %s", sec, body)
}

// writeLog creates a Client.txt in a temporary directory.
func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Client.txt")
	require.NoError(t, os.WriteFile(path, []byte(joinLines(lines)), 0o644))
	return path
}

// resolved returns path with symlinks resolved, as the session reports it.
func resolved(t *testing.T, path string) string {
	t.Helper()
	p, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return p
}

// appendLog appends lines to the log at path.
func appendLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(joinLines(lines))
	require.NoError(t, err)
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// recorder is a Sink that keeps every event it receives.
type recorder struct {
	mu     sync.Mutex
	events []poelog.Event
	err    error
}

func (r *recorder) Send(_ context.Context, ev poelog.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Message
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) has(msg string) bool {
	for _, m := range r.messages() {
		if m == msg {
			return true
		}
	}
	return false
}

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
