package event

import "github.com/contactsim/core/pkg/simerr"

// Queue is an ordered collection of Events, either FIFO (insertion
// order) or time-ordered (min-by-Time). Rather than a single type with a
// runtime mode flag, the two disciplines are separate implementations
// sharing this interface - see NewFIFO and NewTimeOrdered.
type Queue interface {
	// Add appends an event to the queue.
	Add(e *Event)
	// PopNext removes and returns the queue's next event, or
	// simerr.ErrEmptyQueue if the queue is empty.
	PopNext() (*Event, *simerr.Error)
	// PeekNext returns the queue's next event without removing it, or
	// simerr.ErrEmptyQueue if the queue is empty.
	PeekNext() (*Event, *simerr.Error)
	// PopCond removes and returns the first event satisfying pred, or
	// simerr.ErrEmptyQueue if none match. Only FIFO queues support
	// this; time-ordered queues return simerr.ErrWrongQueueMode.
	PopCond(pred func(*Event) bool) (*Event, *simerr.Error)
	// Sort stably reorders the queue by time.
	Sort()
	// Len returns the number of events currently queued.
	Len() int
}
