package guardstack

import (
	"slices"
	"strings"
	"testing"
)

func guarded(t *testing.T, f Features, vs ...int) *Stack[int] {
	t.Helper()
	s := New[int](Here("stk"), nil, WithFeatures(f))
	for _, v := range vs {
		if err := s.Push(v); err != nil {
			t.Fatalf("push %d: %v", v, err)
		}
	}
	return s
}

type snapshot struct {
	size, capacity int
	data           []int
	ctlSum         uint64
	dataSum        uint64
}

func snap(s *Stack[int]) snapshot {
	return snapshot{s.size, s.capacity, slices.Clone(s.data), s.ctlSum, s.dataSum}
}

func assertUnchanged(t *testing.T, before snapshot, s *Stack[int]) {
	t.Helper()
	after := snap(s)
	if before.size != after.size || before.capacity != after.capacity ||
		!slices.Equal(before.data, after.data) ||
		before.ctlSum != after.ctlSum || before.dataSum != after.dataSum {
		t.Fatalf("stack mutated by failed operation:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestBoundaryGuard_SingleByteOverwriteDetectedBeforePush(t *testing.T) {
	for _, side := range []string{"left", "right"} {
		t.Run(side, func(t *testing.T) {
			s := guarded(t, AllFeatures, 1)
			if side == "left" {
				s.leftGuard ^= 0xFF << 8
			} else {
				s.rightGuard ^= 0xFF
			}
			before := snap(s)

			err := s.Push(2)
			ce, ok := AsCorruption(err)
			if !ok || ce.Kind != BoundaryGuardViolation {
				t.Fatalf("want BoundaryGuardViolation, got %v", err)
			}
			if ce.Field != side+" guard" {
				t.Fatalf("field=%q, want %q", ce.Field, side+" guard")
			}
			if ce.Expected == ce.Observed {
				t.Fatalf("expected and observed values must differ: %#x", ce.Expected)
			}
			assertUnchanged(t, before, s)
		})
	}
}

func TestControlChecksum_DetectsTamperedSize(t *testing.T) {
	s := guarded(t, AllFeatures, 1, 2, 3)
	s.size = 2
	before := snap(s)
	_, err := s.Pop()
	if KindOf(err) != ControlChecksumMismatch {
		t.Fatalf("want ControlChecksumMismatch, got %v", err)
	}
	assertUnchanged(t, before, s)
}

func TestControlChecksum_DetectsTamperedProvenance(t *testing.T) {
	s := guarded(t, Checksums, 1)
	s.prov.Line++
	if _, err := s.Len(); KindOf(err) != ControlChecksumMismatch {
		t.Fatalf("want ControlChecksumMismatch, got %v", err)
	}
}

func TestElementChecksum_DetectsTamperedElement(t *testing.T) {
	s := guarded(t, AllFeatures, 10, 20, 30)
	s.data[1] = 21
	before := snap(s)
	if err := s.Push(40); KindOf(err) != ElementChecksumMismatch {
		t.Fatalf("want ElementChecksumMismatch, got %v", err)
	}
	assertUnchanged(t, before, s)
}

func TestElementChecksum_IgnoresVacatedSlots(t *testing.T) {
	s := guarded(t, AllFeatures, 10, 20, 30)
	s.data[3] = 12345
	if _, err := s.Len(); err != nil {
		t.Fatalf("slot outside the live range must not affect the element checksum: %v", err)
	}
}

func TestVerify_GuardReportedBeforeChecksum(t *testing.T) {
	s := guarded(t, AllFeatures, 1)
	s.leftGuard = 0
	s.data[0] = 7
	if err := s.Push(2); KindOf(err) != BoundaryGuardViolation {
		t.Fatalf("want BoundaryGuardViolation first, got %v", err)
	}
}

func TestVerify_StateCheckedFirst(t *testing.T) {
	s := guarded(t, AllFeatures, 1)
	if err := s.Destroy(); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	s.leftGuard = 0
	if err := s.Push(2); KindOf(err) != UseAfterDestroy {
		t.Fatalf("want UseAfterDestroy, got %v", err)
	}
	s.state = 0x1234
	if err := s.Push(2); KindOf(err) != UninitializedUse {
		t.Fatalf("garbage state: want UninitializedUse, got %v", err)
	}
}

func TestVerify_RewrittenFeaturesCannotDisableChecks(t *testing.T) {
	for _, f := range []Features{NoFeatures, Guards, Checksums, 0xFF} {
		t.Run(f.String(), func(t *testing.T) {
			s := guarded(t, AllFeatures, 10, 20)
			s.features = f
			s.leftGuard = 0
			s.data[0] = 99
			before := snap(s)

			err := s.Push(30)
			ce, ok := AsCorruption(err)
			if !ok || ce.Kind != ControlChecksumMismatch || ce.Field != "features" {
				t.Fatalf("want features violation, got %v", err)
			}
			if ce.Expected != uint64(AllFeatures) || ce.Observed != uint64(f) {
				t.Fatalf("expected=%#x observed=%#x", ce.Expected, ce.Observed)
			}
			if _, err := s.Pop(); KindOf(err) != ControlChecksumMismatch {
				t.Fatalf("pop after rewrite: %v", err)
			}
			assertUnchanged(t, before, s)
		})
	}
}

func TestVerify_FeatureSetSurvivesLifecycle(t *testing.T) {
	for _, f := range []Features{NoFeatures, Guards, Checksums, AllFeatures} {
		s := guarded(t, f, 1, 2, 3)
		if r := s.Report(); r.State != "constructed" || r.Fault != nil {
			t.Fatalf("%s: report %+v", f, r)
		}
		if err := s.Destroy(); err != nil {
			t.Fatalf("%s: destroy: %v", f, err)
		}
	}
}

func TestControlChecksum_CoversLimitAndPoison(t *testing.T) {
	t.Run("max capacity", func(t *testing.T) {
		s := New[int](Here("stk"), nil, WithFeatures(AllFeatures), WithMaxCapacity(64))
		_ = s.Push(1)
		s.maxCap = 1
		if err := s.Push(2); KindOf(err) != ControlChecksumMismatch {
			t.Fatalf("want ControlChecksumMismatch, got %v", err)
		}
	})
	t.Run("poison", func(t *testing.T) {
		s := guarded(t, AllFeatures, 1, 2)
		s.poison = false
		if _, err := s.Pop(); KindOf(err) != ControlChecksumMismatch {
			t.Fatalf("want ControlChecksumMismatch, got %v", err)
		}
	})
}

func TestDump_WritesBoundedReport(t *testing.T) {
	s := New[int](Here(strings.Repeat("n", 2*DefaultReportLimit)), nil)
	_ = s.Push(1)
	var buf strings.Builder
	if err := s.Dump(&buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	if len(out) != DefaultReportLimit || !strings.HasSuffix(out, truncMark) {
		t.Fatalf("dump wrote %d bytes, want %d ending in %q", len(out), DefaultReportLimit, truncMark)
	}

	buf.Reset()
	small := guarded(t, AllFeatures, 7)
	if err := small.Dump(&buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if got := buf.String(); got != small.Report().String() {
		t.Fatalf("short report must be written in full:\n%s", got)
	}
}
