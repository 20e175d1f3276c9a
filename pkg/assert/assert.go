//go:build SIMCORE_FLOW_ASSERTIONS
// +build SIMCORE_FLOW_ASSERTIONS

// Package assert provides optional invariant checks for the contact state
// machine and the kernel's event ordering. Builds without the
// SIMCORE_FLOW_ASSERTIONS tag compile these out entirely (see
// assert_noop.go). A violated invariant is logged through package simlog
// before panicking rather than through its own stdlib log.Logger, so
// invariant failures land in the same operational log stream as the
// kernel's skipped non-fatal simerr values.
package assert

import (
	"fmt"
	"runtime/debug"

	"github.com/contactsim/core/pkg/simlog"
)

// Assert panics if checker returns false. Used for invariants that are
// expensive to compute inline (e.g. re-scanning an agent's lines).
func Assert(checker func() bool, message string) {
	if !checker() {
		fail(message)
	}
}

// AssertMsg panics if condition is false.
func AssertMsg(condition bool, message string) {
	if !condition {
		fail(message)
	}
}

// Assertf panics with a formatted message if checker returns false.
func Assertf(checker func() bool, format string, args ...interface{}) {
	if !checker() {
		fail(fmt.Sprintf(format, args...))
	}
}

func fail(message string) {
	simlog.Error("invariant violated: %s\n%s", message, debug.Stack())
	panic(fmt.Sprintf("invariant violated: %s", message))
}
