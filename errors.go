package guardstack

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by stack operations.
var (
	// ErrEmpty is returned by Pop on a stack holding no elements. It is a normal
	// boundary condition, not a fault.
	ErrEmpty = errors.New("guardstack: stack is empty")

	// ErrOutOfMemory is returned when storage for a resize cannot be obtained.
	// The stack is left valid and unchanged.
	ErrOutOfMemory = errors.New("guardstack: out of memory")

	// ErrCorrupted matches every *CorruptionError via errors.Is.
	ErrCorrupted = errors.New("guardstack: integrity violation")
)

// Kind classifies a detected integrity failure.
type Kind int

const (
	_ Kind = iota
	BoundaryGuardViolation
	ControlChecksumMismatch
	ElementChecksumMismatch
	UseAfterDestroy
	UninitializedUse
)

// Violation codes (stable identifiers for logs and reports).
const (
	CodeBoundaryGuard   = "boundary_guard_violation"
	CodeControlChecksum = "control_checksum_mismatch"
	CodeElementChecksum = "element_checksum_mismatch"
	CodeUseAfterDestroy = "use_after_destroy"
	CodeUninitialized   = "uninitialized_use"
)

// Code returns the stable identifier of k.
func (k Kind) Code() string {
	switch k {
	case BoundaryGuardViolation:
		return CodeBoundaryGuard
	case ControlChecksumMismatch:
		return CodeControlChecksum
	case ElementChecksumMismatch:
		return CodeElementChecksum
	case UseAfterDestroy:
		return CodeUseAfterDestroy
	case UninitializedUse:
		return CodeUninitialized
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) String() string { return k.Code() }

// CorruptionError describes the first integrity check that failed. A stack
// that produced one must be reported and abandoned; nothing repairs it.
type CorruptionError struct {
	Kind     Kind
	Op       string // Operation that ran the check (push, pop, len, ...).
	Field    string // Field or range whose check failed.
	Expected uint64
	Observed uint64
	// Detail is set for failures that are not a simple value comparison.
	Detail     string
	Provenance Provenance
	// Report is the diagnostic snapshot taken when the failure was detected.
	Report Report
}

func (e *CorruptionError) Error() string {
	msg := fmt.Sprintf("guardstack: %s during %s on %s", e.Kind.Code(), e.Op, e.Provenance)
	switch {
	case e.Detail != "":
		msg += ": " + e.Detail
	case e.Field != "":
		msg += fmt.Sprintf(": %s expected %#x, observed %#x", e.Field, e.Expected, e.Observed)
	}
	return msg
}

// Is reports whether target is ErrCorrupted.
func (e *CorruptionError) Is(target error) bool { return target == ErrCorrupted }

// AsCorruption extracts a *CorruptionError from err using errors.As.
func AsCorruption(err error) (*CorruptionError, bool) {
	if err == nil {
		return nil, false
	}
	var ce *CorruptionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// KindOf returns the Kind of the corruption wrapped in err, or 0.
func KindOf(err error) Kind {
	if ce, ok := AsCorruption(err); ok {
		return ce.Kind
	}
	return 0
}
