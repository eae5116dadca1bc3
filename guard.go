package guardstack

import (
	"fmt"
	"log/slog"

	"github.com/reoring/guardstack/internal/checksum"
)

// Poison is the byte written over vacated slots and released storage.
const Poison = 0xAE

const (
	poisonWord uint64 = 0xAEAEAEAEAEAEAEAE

	leftGuardValue  uint64 = 0xC0FFEE11DEADBEEF
	rightGuardValue uint64 = 0xFEEDFACE0BADF00D

	stateUninitialized uint64 = 0
	stateAlive         uint64 = 0x57AC4A11FE5EA1ED
	stateDestroyed     uint64 = poisonWord
)

// aliveState is the state word of a constructed stack with features f. A
// rewritten feature set no longer matches the state word.
func aliveState(f Features) uint64 { return stateAlive ^ uint64(f) }

func (s *Stack[T]) alive() bool { return s.state == aliveState(s.features) }

// check runs the verification sequence and returns the first failure. On
// failure nothing is modified; the violation is reported to the logger.
func (s *Stack[T]) check(op string) error {
	ce := s.verify(op)
	if ce == nil {
		return nil
	}
	ce.Report = s.report(ce)
	if s != nil && s.logger != nil {
		s.logger.Error("stack integrity violation",
			slog.String("stack", ce.Provenance.Name),
			slog.String("id", ce.Provenance.ID),
			slog.String("op", op),
			slog.String("kind", ce.Kind.Code()),
			slog.String("report", ce.Report.String()),
		)
	}
	return ce
}

// verify is check without reporting. Order: state word and feature set,
// boundary guards, control checksum, layout, element checksum.
func (s *Stack[T]) verify(op string) *CorruptionError {
	if s == nil {
		return &CorruptionError{Kind: UninitializedUse, Op: op, Detail: "nil stack"}
	}
	fail := func(k Kind, field string, want, got uint64) *CorruptionError {
		return &CorruptionError{Kind: k, Op: op, Field: field, Expected: want, Observed: got, Provenance: s.prov}
	}

	switch {
	case s.alive():
	case s.state == stateDestroyed:
		return fail(UseAfterDestroy, "state", aliveState(s.features), s.state)
	case s.state == stateUninitialized:
		ce := fail(UninitializedUse, "state", aliveState(s.features), s.state)
		ce.Detail = "stack was not constructed with New"
		return ce
	case s.state^stateAlive <= uint64(AllFeatures):
		ce := fail(ControlChecksumMismatch, "features", s.state^stateAlive, uint64(s.features))
		ce.Detail = fmt.Sprintf("feature set %s disagrees with the state word", s.features)
		return ce
	default:
		return fail(UninitializedUse, "state", aliveState(s.features), s.state)
	}

	if s.features.Has(Guards) {
		if s.leftGuard != leftGuardValue {
			return fail(BoundaryGuardViolation, "left guard", leftGuardValue, s.leftGuard)
		}
		if s.rightGuard != rightGuardValue {
			return fail(BoundaryGuardViolation, "right guard", rightGuardValue, s.rightGuard)
		}
	}

	if s.features.Has(Checksums) {
		if sum := s.controlSum(); sum != s.ctlSum {
			return fail(ControlChecksumMismatch, "control checksum", s.ctlSum, sum)
		}
	}

	if s.size < 0 || s.size > s.capacity || s.capacity != len(s.data) || s.capacity < InitCapacity {
		ce := fail(ControlChecksumMismatch, "layout", 0, 0)
		ce.Detail = fmt.Sprintf("inconsistent control block: size=%d capacity=%d storage=%d", s.size, s.capacity, len(s.data))
		return ce
	}

	if s.features.Has(Checksums) {
		if sum := s.elementSum(); sum != s.dataSum {
			return fail(ElementChecksumMismatch, "element checksum", s.dataSum, sum)
		}
	}
	return nil
}

// seal recomputes both checksums after a mutation.
func (s *Stack[T]) seal() {
	if !s.features.Has(Checksums) {
		return
	}
	s.ctlSum = s.controlSum()
	s.dataSum = s.elementSum()
}

// controlSum covers every control field except the checksums themselves and
// the injected format, logger and allocHook funcs.
func (s *Stack[T]) controlSum() uint64 {
	var h checksum.Hasher
	h.Reset()
	h.Word(s.leftGuard)
	h.Word(s.state)
	h.Word(uint64(s.features))
	h.Int(s.capacity)
	h.Int(s.size)
	h.Int(len(s.data))
	h.String(s.prov.Name)
	h.String(s.prov.File)
	h.Int(s.prov.Line)
	h.String(s.prov.Func)
	h.String(s.prov.ID)
	h.Int(s.maxCap)
	h.Word(boolWord(s.poison))
	h.Word(s.rightGuard)
	return h.Sum64()
}

// elementSum covers data[0:size]. The caller guarantees size is in range.
func (s *Stack[T]) elementSum() uint64 {
	return checksum.Words(s.data[:s.size])
}

func boolWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
