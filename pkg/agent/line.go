package agent

import (
	"github.com/contactsim/core/pkg/contact"
	"github.com/contactsim/core/pkg/simerr"
)

// Line is one service slot owned by an Agent: type-restricted, priority
// ordered, and independently open/closed (mirroring the owning agent's
// enabled state) and occupied/free.
type Line struct {
	ContactTypes map[string]bool
	Priority     int
	MaxOcc       *int // nil means no per-line cap

	Open       bool
	IsOccupied bool
	Contact    *contact.Contact

	owner *Agent
}

// Agent returns the owning Agent via the back-reference established when
// the line was created.
func (l *Line) Agent() *Agent {
	return l.owner
}

// AcceptsType reports whether this line can service the given contact type.
func (l *Line) AcceptsType(contactType string) bool {
	return l.ContactTypes[contactType]
}

// Occupy binds c to the line. It is a no-op (logged, non-fatal) if the
// line is already occupied or the contact's type is unacceptable.
func (l *Line) Occupy(c *contact.Contact) *simerr.Error {
	if l.IsOccupied {
		return simerr.ErrAlreadyOccupied
	}
	if !l.AcceptsType(c.ContactType) {
		return simerr.ErrInvalidContactType
	}
	l.IsOccupied = true
	l.Contact = c
	return nil
}

// Solve clears the line's binding.
func (l *Line) Solve() *simerr.Error {
	if !l.IsOccupied {
		return simerr.ErrNotOccupied
	}
	l.IsOccupied = false
	l.Contact = nil
	return nil
}

func (l *Line) enable() {
	l.Open = true
}

func (l *Line) disable() {
	l.Open = false
}

// WithinCap reports whether occupying this line would keep the agent's
// total occupied-line count within the line's own max_occ, if any.
func (l *Line) WithinCap(agentOccupiedLines int) bool {
	return l.MaxOcc == nil || *l.MaxOcc > agentOccupiedLines
}
