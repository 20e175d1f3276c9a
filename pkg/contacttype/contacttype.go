// Package contacttype holds the configuration registry for contact types:
// the per-type handling-time parameters and optional patience/auto-solve
// thresholds referenced by package contact and package kernel.
package contacttype

import (
	"fmt"
	"math"

	"github.com/contactsim/core/pkg/simerr"
)

// ContactType configures how contacts of a given name are staffed and
// timed. AveragePatience and AutoSolveTime are optional: HasPatience and
// HasAutoSolveTime false (the zero value) mean "not configured", which the
// accessors below translate to +Inf.
type ContactType struct {
	Base             float64
	Increment        float64
	AveragePatience  float64
	HasPatience      bool
	AutoSolveTime    float64
	HasAutoSolveTime bool
}

// Patience returns the configured average patience, or +Inf if unset.
func (ct ContactType) Patience() float64 {
	if !ct.HasPatience {
		return math.Inf(1)
	}
	return ct.AveragePatience
}

// AutoSolve returns the configured auto-solve threshold, or +Inf if unset.
func (ct ContactType) AutoSolve() float64 {
	if !ct.HasAutoSolveTime {
		return math.Inf(1)
	}
	return ct.AutoSolveTime
}

// AHT is the effective average handling time at the given concurrency,
// scaled by the agent's performance factor: performance * (base +
// (concurrency-1) * increment).
func (ct ContactType) AHT(performanceFactor float64, concurrency int) float64 {
	return performanceFactor * (ct.Base + float64(concurrency-1)*ct.Increment)
}

// Registry is the set of named contact-type configurations known to a
// simulation. The zero value is ready to use.
type Registry struct {
	types map[string]ContactType
}

// Add registers or overwrites a contact type. Base must be positive and
// Increment non-negative; these are the two fatal setup errors callers
// must handle per the error-handling design (everything else the kernel
// encounters at runtime is a non-fatal simerr).
func (r *Registry) Add(name string, base, increment float64, averagePatience, autoSolveTime *float64) error {
	if base <= 0 {
		return simerr.New(simerr.CodeInvalidBase, fmt.Sprintf("contact type %q: base must be > 0, got %v", name, base))
	}
	if increment < 0 {
		return simerr.New(simerr.CodeInvalidIncrement, fmt.Sprintf("contact type %q: increment must be >= 0, got %v", name, increment))
	}
	ct := ContactType{Base: base, Increment: increment}
	if averagePatience != nil {
		ct.AveragePatience = *averagePatience
		ct.HasPatience = true
	}
	if autoSolveTime != nil {
		ct.AutoSolveTime = *autoSolveTime
		ct.HasAutoSolveTime = true
	}
	if r.types == nil {
		r.types = make(map[string]ContactType)
	}
	r.types[name] = ct
	return nil
}

// Remove deletes a contact type; it is a no-op if the name is unknown.
func (r *Registry) Remove(name string) {
	delete(r.types, name)
}

// Get returns the contact type and whether it exists.
func (r *Registry) Get(name string) (ContactType, bool) {
	ct, ok := r.types[name]
	return ct, ok
}

// List returns the registered contact-type names in no particular order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}

// All returns a copy of the registry's name -> ContactType mapping, for
// callers (e.g. package kernel) that need a point-in-time snapshot
// rather than a live reference into the registry.
func (r *Registry) All() map[string]ContactType {
	out := make(map[string]ContactType, len(r.types))
	for name, ct := range r.types {
		out[name] = ct
	}
	return out
}
