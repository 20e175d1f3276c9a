package event

import (
	"sort"

	"github.com/contactsim/core/pkg/simerr"
)

// fifoQueue is insertion-ordered: PopNext/PeekNext always return the
// head. Used for arrivals and the waiting queue.
type fifoQueue struct {
	events []*Event
}

// NewFIFO returns an empty FIFO-ordered Queue.
func NewFIFO() Queue {
	return &fifoQueue{}
}

func (q *fifoQueue) Add(e *Event) {
	q.events = append(q.events, e)
}

func (q *fifoQueue) PopNext() (*Event, *simerr.Error) {
	if len(q.events) == 0 {
		return nil, simerr.ErrEmptyQueue
	}
	e := q.events[0]
	q.events = q.events[1:]
	return e, nil
}

func (q *fifoQueue) PeekNext() (*Event, *simerr.Error) {
	if len(q.events) == 0 {
		return nil, simerr.ErrEmptyQueue
	}
	return q.events[0], nil
}

func (q *fifoQueue) PopCond(pred func(*Event) bool) (*Event, *simerr.Error) {
	for i, e := range q.events {
		if pred(e) {
			q.events = append(q.events[:i:i], q.events[i+1:]...)
			return e, nil
		}
	}
	return nil, simerr.ErrEmptyQueue
}

func (q *fifoQueue) Sort() {
	sort.SliceStable(q.events, func(i, j int) bool {
		return q.events[i].Time() < q.events[j].Time()
	})
}

func (q *fifoQueue) Len() int {
	return len(q.events)
}
