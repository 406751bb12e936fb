// Package assembler groups physical client log lines into logical entries.
//
// A client log line that starts with a "YYYY/MM/DD " timestamp opens a new
// entry; any other non-empty line continues the entry that is currently open.
package assembler

import (
	"bufio"
	"io"
	"iter"
	"strings"
)

// timestampLen is the length of the "YYYY/MM/DD HH:MM:SS" prefix.
const timestampLen = 19

// Scanner buffer sizes. Client.txt lines are short, but stack traces and
// shader dumps occasionally produce very long ones.
const (
	scanBufInitial = 64 * 1024
	scanBufMax     = 1024 * 1024
)

// Entry is one logical log entry: a primary line followed by zero or more
// continuation lines. An Entry returned by an Assembler always has at
// least one line.
type Entry struct {
	Lines []string
}

// Timestamp returns the first 19 characters of the primary line, or an
// empty string if the line is shorter than that.
func (e Entry) Timestamp() string {
	if len(e.Lines) == 0 {
		return ""
	}
	first := e.Lines[0]
	if len(first) < timestampLen {
		return ""
	}
	n := 0
	for i := range first {
		if n == timestampLen {
			return first[:i]
		}
		n++
	}
	if n < timestampLen {
		return ""
	}
	return first
}

// Text returns all lines joined with "\n". This is the text used for both
// fingerprinting and categorization.
func (e Entry) Text() string {
	return strings.Join(e.Lines, "\n")
}

// IsPrimaryLine reports whether line starts a new entry: it is at least 19
// bytes long with '/' at offsets 4 and 7 and a space at offset 10.
// The digits themselves are not validated.
func IsPrimaryLine(line string) bool {
	return len(line) >= timestampLen &&
		line[4] == '/' &&
		line[7] == '/' &&
		line[10] == ' '
}

// Assembler accumulates lines into entries. The zero value is ready to use.
// An Assembler is not safe for concurrent use.
type Assembler struct {
	open []string
}

// New returns an empty Assembler.
func New() *Assembler {
	return &Assembler{}
}

// Feed adds one physical line. The line is trimmed first; empty lines are
// ignored. When line is a primary line and an entry is open, the open entry
// is returned (ok == true) and line starts the next one. Continuation lines
// that arrive while no entry is open are dropped.
func (a *Assembler) Feed(line string) (entry Entry, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}

	if IsPrimaryLine(line) {
		entry, ok = a.Flush()
		a.open = []string{line}
		return entry, ok
	}

	if a.open != nil {
		a.open = append(a.open, line)
	}
	return Entry{}, false
}

// Flush closes and returns the open entry, if any.
func (a *Assembler) Flush() (Entry, bool) {
	if len(a.open) == 0 {
		return Entry{}, false
	}
	entry := Entry{Lines: a.open}
	a.open = nil
	return entry, true
}

// Pending reports whether an entry is currently open.
func (a *Assembler) Pending() bool {
	return len(a.open) > 0
}

// Scan reads r line by line and yields every assembled entry in order,
// flushing the last open entry at EOF. A read error is yielded once after
// the entries assembled so far, and iteration stops.
func Scan(r io.Reader) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		scanner := bufio.NewScanner(r)
		buf := make([]byte, 0, scanBufInitial)
		scanner.Buffer(buf, scanBufMax)

		a := New()
		for scanner.Scan() {
			if entry, ok := a.Feed(scanner.Text()); ok {
				if !yield(entry, nil) {
					return
				}
			}
		}
		if entry, ok := a.Flush(); ok {
			if !yield(entry, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Entry{}, err)
		}
	}
}
