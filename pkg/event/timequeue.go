package event

import (
	"sort"

	"github.com/contactsim/core/pkg/simerr"
)

// timeQueue is ordered by each event's current Time, which may be
// late-bound; ordering is therefore re-evaluated on every peek/pop
// rather than maintained incrementally. Used for the handling and
// agent-IO queues, both small enough in practice for a linear scan.
type timeQueue struct {
	events []*Event
}

// NewTimeOrdered returns an empty time-ordered (min-by-Time) Queue.
func NewTimeOrdered() Queue {
	return &timeQueue{}
}

func (q *timeQueue) Add(e *Event) {
	q.events = append(q.events, e)
}

func (q *timeQueue) minIndex() int {
	min := -1
	for i, e := range q.events {
		if min == -1 || e.Time() < q.events[min].Time() {
			min = i
		}
	}
	return min
}

func (q *timeQueue) PopNext() (*Event, *simerr.Error) {
	i := q.minIndex()
	if i == -1 {
		return nil, simerr.ErrEmptyQueue
	}
	e := q.events[i]
	q.events = append(q.events[:i:i], q.events[i+1:]...)
	return e, nil
}

func (q *timeQueue) PeekNext() (*Event, *simerr.Error) {
	i := q.minIndex()
	if i == -1 {
		return nil, simerr.ErrEmptyQueue
	}
	return q.events[i], nil
}

func (q *timeQueue) PopCond(pred func(*Event) bool) (*Event, *simerr.Error) {
	return nil, simerr.ErrWrongQueueMode
}

func (q *timeQueue) Sort() {
	sort.SliceStable(q.events, func(i, j int) bool {
		return q.events[i].Time() < q.events[j].Time()
	})
}

func (q *timeQueue) Len() int {
	return len(q.events)
}
