package poelog

import (
	"context"
	"errors"
	"iter"
	"os"

	"github.com/poelog/poelog-go/internal/assembler"
	"github.com/poelog/poelog-go/internal/dedup"
)

// ParseFile parses a client log file and returns an iterator over events.
// The file is opened lazily on first iteration, so the returned iterator
// is cheap to create but must be consumed to release resources.
//
// Entries are assembled, deduplicated and categorized exactly as a watch
// session does for its backlog.
//
// The iterator yields (Event, error) pairs. When an error occurs:
//   - File open and read errors: yields (Event{}, error) once and stops
//   - Context cancellation: yields (Event{}, ctx.Err()) and stops
//
// Example:
//
//	for ev, err := range poelog.ParseFile(ctx, "Client.txt") {
//	    if err != nil {
//	        log.Printf("error: %v", err)
//	        break
//	    }
//	    fmt.Printf("event: %+v\n", ev)
//	}
func ParseFile(ctx context.Context, path string, opts ...ParseOption) iter.Seq2[Event, error] {
	// Validate path upfront
	if path == "" {
		return func(yield func(Event, error) bool) {
			yield(Event{}, errors.New("poelog: path required"))
		}
	}

	cfg := applyParseOptions(opts)

	return func(yield func(Event, error) bool) {
		file, err := os.Open(path)
		if err != nil {
			yield(Event{}, err)
			return
		}
		defer file.Close()

		seen := dedup.New()
		for entry, err := range assembler.Scan(file) {
			if err != nil {
				yield(Event{}, err)
				return
			}
			if err := ctx.Err(); err != nil {
				yield(Event{}, err)
				return
			}

			if !seen.Admit(entry.Text()) && !cfg.keepDups {
				continue
			}

			ev := cfg.classifier.event(entry)
			if !cfg.filter.Allows(ev.Category) {
				continue
			}

			if !cfg.since.IsZero() || !cfg.until.IsZero() {
				ts, ok := ev.Time()
				if !ok {
					continue
				}
				if !cfg.since.IsZero() && ts.Before(cfg.since) {
					continue
				}
				if !cfg.until.IsZero() && !ts.Before(cfg.until) {
					return // Past the time window, stop iteration
				}
			}

			if !yield(ev, nil) {
				return // Consumer requested stop (break)
			}
		}
	}
}

// ParseFileAll is a convenience function that parses a log file and collects
// all events into a slice. Stops on first error and returns events collected so far.
//
// For large files, consider using ParseFile directly to avoid loading all events
// into memory at once.
func ParseFileAll(ctx context.Context, path string, opts ...ParseOption) ([]Event, error) {
	events := make([]Event, 0, 256)
	for ev, err := range ParseFile(ctx, path, opts...) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}
