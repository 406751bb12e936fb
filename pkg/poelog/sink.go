package poelog

import "context"

// Sink receives categorized events one at a time, in emission order.
// A Send error is logged and the pipeline continues with the next event.
//
// Live entries are sent from the session's tail goroutine; Send may call
// Stop, Close or Start on that session. Backlog entries are sent from the
// goroutine running Start, where Stop and Close are allowed but a nested
// Start deadlocks.
type Sink interface {
	Send(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, ev Event) error

// Send calls f(ctx, ev).
func (f SinkFunc) Send(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// chanSink forwards events to a channel, giving up when ctx is done.
type chanSink chan<- Event

func (c chanSink) Send(ctx context.Context, ev Event) error {
	select {
	case c <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
