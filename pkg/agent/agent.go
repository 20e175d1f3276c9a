// Package agent implements the Agent and Line types: an Agent owns a
// fixed set of Lines materialised from an immutable blueprint, tracks
// occupied-line count and enabled/disabled state, and exposes the
// occupation/availability operations the kernel's handlers drive.
package agent

import (
	"sort"

	"github.com/contactsim/core/pkg/contact"
	"github.com/contactsim/core/pkg/simerr"
)

// LineBlueprint is one template line in an Agent's immutable blueprint:
// the set of contact types it accepts, its dispatch priority (lower
// preferred), and an optional per-line occupied-count cap on the owning
// agent.
type LineBlueprint struct {
	ContactTypes []string
	Priority     int
	MaxOcc       *int
}

// Agent owns a fixed set of Lines, tracks how many are occupied, and
// carries the performance factor that scales its effective handling
// time. Agents start disabled; EnableLines/DisableLines flip that state.
type Agent struct {
	ID    string
	Alias string

	Blueprint []LineBlueprint
	Lines     []*Line

	PerformanceFactor float64
	MaxOcc            int

	Disabled bool
	LastIn   float64

	occupiedLines int
}

// New materialises Lines from blueprint and returns a new, initially
// disabled Agent. maxOcc of 0 means "no agent-level cap beyond the
// number of lines" and defaults to len(lines), per spec.
func New(id, alias string, blueprint []LineBlueprint, performanceFactor float64, maxOcc int) *Agent {
	a := &Agent{
		ID:                id,
		Alias:             alias,
		Blueprint:         blueprint,
		PerformanceFactor: performanceFactor,
		Disabled:          true,
	}
	for _, bp := range blueprint {
		types := make(map[string]bool, len(bp.ContactTypes))
		for _, t := range bp.ContactTypes {
			types[t] = true
		}
		line := &Line{
			ContactTypes: types,
			Priority:     bp.Priority,
			MaxOcc:       bp.MaxOcc,
			Open:         false,
			owner:        a,
		}
		a.Lines = append(a.Lines, line)
	}
	if maxOcc > 0 {
		a.MaxOcc = maxOcc
	} else {
		a.MaxOcc = len(a.Lines)
	}
	return a
}

// OccupiedLines returns the agent's current occupied-line count.
func (a *Agent) OccupiedLines() int {
	return a.occupiedLines
}

// GetOccupiedLines returns the subset of a.Lines that are currently
// occupied.
func (a *Agent) GetOccupiedLines() []*Line {
	out := make([]*Line, 0, a.occupiedLines)
	for _, l := range a.Lines {
		if l.IsOccupied {
			out = append(out, l)
		}
	}
	return out
}

// OccupyLine increments occupied-line count and binds contact to a
// line. If specific is non-nil, that exact line is used; otherwise the
// lowest-priority (ties broken by blueprint/insertion order) unoccupied
// line among this agent's lines accepting the contact's type is chosen.
// Returns nil if no eligible line exists (type mismatch or none free).
func (a *Agent) OccupyLine(c *contact.Contact, specific *Line) *Line {
	line := specific
	if line == nil {
		for _, l := range a.Lines {
			if l.IsOccupied || !l.AcceptsType(c.ContactType) {
				continue
			}
			if line == nil || l.Priority < line.Priority {
				line = l
			}
		}
	}
	if line == nil {
		return nil
	}
	if err := line.Occupy(c); err != nil {
		return nil
	}
	a.occupiedLines++
	return line
}

// ClearLine decrements occupied-line count and solves the line.
func (a *Agent) ClearLine(l *Line) *simerr.Error {
	if err := l.Solve(); err != nil {
		return err
	}
	a.occupiedLines--
	return nil
}

// DisableLines closes every line and sets Disabled. No-op (returns
// simerr.ErrAlreadyDisabled) if already disabled. In-flight contacts on
// now-closed lines keep running; only new occupations are blocked.
func (a *Agent) DisableLines() *simerr.Error {
	if a.Disabled {
		return simerr.ErrAlreadyDisabled
	}
	for _, l := range a.Lines {
		l.disable()
	}
	a.Disabled = true
	return nil
}

// EnableLines opens every line, clears Disabled, and records time as
// LastIn. No-op (returns simerr.ErrAlreadyEnabled) if already enabled.
func (a *Agent) EnableLines(time float64) *simerr.Error {
	if !a.Disabled {
		return simerr.ErrAlreadyEnabled
	}
	for _, l := range a.Lines {
		l.enable()
	}
	a.Disabled = false
	a.LastIn = time
	return nil
}

// Availability returns, per contact type, the count of this agent's
// lines currently takeable: open, unoccupied, the agent not at MaxOcc,
// and the line's own MaxOcc (if any) not exceeded by current occupied
// count. Empty when disabled or at cap.
func (a *Agent) Availability() map[string]int {
	avail := make(map[string]int)
	if a.Disabled || a.occupiedLines >= a.MaxOcc {
		return avail
	}
	for _, l := range a.Lines {
		if l.IsOccupied || !l.Open {
			continue
		}
		if !l.WithinCap(a.occupiedLines) {
			continue
		}
		for t := range l.ContactTypes {
			avail[t]++
		}
	}
	return avail
}

// ShuffledLinesByPriority returns a copy of a.Lines shuffled by shuffle
// (random, for deterministic-under-seed tie-breaking) and then stably
// sorted by ascending Priority, per the drain helper's §4.6 step 1.
func (a *Agent) ShuffledLinesByPriority(shuffle func(n int, swap func(i, j int))) []*Line {
	lines := make([]*Line, len(a.Lines))
	copy(lines, a.Lines)
	shuffle(len(lines), func(i, j int) { lines[i], lines[j] = lines[j], lines[i] })
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Priority < lines[j].Priority })
	return lines
}
