// Package notify pushes task status events to external sinks.
//
// Notification failures are reported to the caller but must never abort
// the operation that triggered them; callers log and move on.
package notify

import "context"

// Event is one task status change worth telling the user about.
type Event struct {
	// Title is a short headline, e.g. "Order placed".
	Title string

	// Body is the detail text. Plain text, no markup.
	Body string
}

// Notifier delivers events to one sink.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Multi fans one event out to several notifiers. Every notifier is tried;
// the first error is returned.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var first error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
