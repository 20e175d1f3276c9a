// Package contact implements the per-contact state machine: the
// created -> {handled | abandoned | auto-solved} transition, the sampled
// patience and handling time, and the concurrency-rescale protocol that
// keeps an in-flight contact's served time immutable while its projected
// tail moves.
package contact

import (
	"math"
	"math/rand"

	"github.com/contactsim/core/pkg/simerr"
)

// Status is the terminal state machine position of a Contact.
type Status int

const (
	StatusCreated Status = iota
	StatusHandled
	StatusAbandoned
	StatusAutoSolved
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusHandled:
		return "handled"
	case StatusAbandoned:
		return "abandoned"
	case StatusAutoSolved:
		return "auto-solved"
	default:
		return "unknown"
	}
}

// ConcurrencyRecord is one entry of a Contact's concurrency history: the
// agent concurrency in effect from the given time onward.
type ConcurrencyRecord struct {
	Concurrency int
	Time        float64
}

// Contact is a single unit of work moving through the simulation.
type Contact struct {
	ID          string
	Arrival     float64
	ContactType string
	HTDistro    string // "gamma-2" or "exponential"

	// Patience and AutoSolveTime may be +Inf, meaning "not configured".
	Patience      float64
	AutoSolveTime float64

	Status      Status
	WaitingTime float64

	// HandlingTime is undefined until the contact reaches StatusHandled;
	// HasHandlingTime distinguishes "not yet sampled" from a legitimate
	// (always >= 0.1) sampled value.
	HandlingTime    float64
	HasHandlingTime bool

	ConcurrencyHistory   []ConcurrencyRecord
	ConcurrencyAtArrival int
}

// New constructs a Contact in the created state, sampling its patience
// once (exponential, rounded to the nearest integer) if averagePatience is
// configured.
func New(rng *rand.Rand, id string, arrival float64, contactType, htDistro string, averagePatience float64, hasPatience bool, autoSolveTime float64, hasAutoSolveTime bool) *Contact {
	patience := math.Inf(1)
	if hasPatience {
		patience = math.Round(averagePatience * rng.ExpFloat64())
	}
	autoSolve := math.Inf(1)
	if hasAutoSolveTime {
		autoSolve = autoSolveTime
	}
	if htDistro == "" {
		htDistro = "gamma-2"
	}
	return &Contact{
		ID:            id,
		Arrival:       arrival,
		ContactType:   contactType,
		HTDistro:      htDistro,
		Patience:      patience,
		AutoSolveTime: autoSolve,
		Status:        StatusCreated,
	}
}

// EndAt returns the projected completion time and whether one exists yet
// (it does only once the contact has a sampled handling time).
func (c *Contact) EndAt() (float64, bool) {
	if !c.HasHandlingTime {
		return 0, false
	}
	return c.Arrival + c.WaitingTime + c.HandlingTime, true
}

// CheckMissed reports whether the contact would already be abandoned or
// auto-solved if it were materialised at present.
func (c *Contact) CheckMissed(present float64) bool {
	w := present - c.Arrival
	return w > c.Patience || w > c.AutoSolveTime
}

// MaterialiseHandling is the irreversible transition out of StatusCreated.
// start is the time the contact would begin handling, or nil to treat the
// wait as zero (used only when no start time is meaningful). aht and
// concurrency are only consulted when the contact ends up StatusHandled;
// callers on the missed-drain path (where CheckMissed is already known
// true) may pass zero values for both.
func (c *Contact) MaterialiseHandling(rng *rand.Rand, start *float64, aht float64, concurrency int) {
	w := 0.0
	if start != nil {
		w = *start - c.Arrival
	}

	switch {
	case w > c.Patience:
		c.Status = StatusAbandoned
		c.WaitingTime = c.Patience
	case w > c.AutoSolveTime:
		c.Status = StatusAutoSolved
		c.WaitingTime = c.AutoSolveTime
	default:
		c.Status = StatusHandled
		c.HandlingTime = clamp(sampleHandlingTime(rng, c.HTDistro, aht), 0.1, 15*aht)
		c.HasHandlingTime = true
		c.ConcurrencyAtArrival = concurrency
		startTime := 0.0
		if start != nil {
			startTime = *start
		}
		c.ConcurrencyHistory = append(c.ConcurrencyHistory, ConcurrencyRecord{Concurrency: concurrency, Time: startTime})
		c.WaitingTime = w
	}
}

// UpdateHandling rescales the remaining (not yet served) handling time of
// an in-flight StatusHandled contact. The served portion up to present is
// never altered - only the projected tail moves, by multiplying the
// remaining duration by factor.
func (c *Contact) UpdateHandling(present, factor float64, newConcurrency int) *simerr.Error {
	handlingEnd := c.Arrival + c.WaitingTime + c.HandlingTime
	if math.Round(present) > math.Round(handlingEnd) {
		return simerr.ErrEndsInPast
	}
	remaining := handlingEnd - present
	newRemaining := remaining * factor
	c.ConcurrencyHistory = append(c.ConcurrencyHistory, ConcurrencyRecord{Concurrency: newConcurrency, Time: present})
	c.HandlingTime += newRemaining - remaining
	return nil
}

func sampleHandlingTime(rng *rand.Rand, distro string, aht float64) float64 {
	switch distro {
	case "exponential":
		return aht * rng.ExpFloat64()
	default: // "gamma-2"
		// Gamma(shape=2, scale=theta) is the sum of two iid
		// Exponential(mean=theta) draws; theta = aht/2 here.
		theta := aht / 2
		return theta * (rng.ExpFloat64() + rng.ExpFloat64())
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
