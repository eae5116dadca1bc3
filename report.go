package guardstack

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/guardstack/internal/checksum"
)

// Reporter bounds.
const (
	// ElemWidth is the buffer capacity handed to a FormatFunc; longer
	// renderings are truncated.
	ElemWidth = 32
	// MaxReportElements caps the number of rendered elements.
	MaxReportElements = 64
	// DefaultReportLimit is the byte limit used by Dump.
	DefaultReportLimit = 8 << 10
)

const truncMark = "...(truncated)"

// Report is a diagnostic snapshot of a stack. Building one never mutates the
// stack and never panics, whatever state the stack is in.
type Report struct {
	Provenance Provenance      `json:"provenance"`
	State      string          `json:"state"`
	Features   string          `json:"features"`
	Size       int             `json:"size"`
	Capacity   int             `json:"capacity"`
	Storage    int             `json:"storage"`
	Guards     *GuardReport    `json:"guards,omitempty"`
	Checksums  *ChecksumReport `json:"checksums,omitempty"`
	Elements   []string        `json:"elements,omitempty"`
	Omitted    int             `json:"omitted,omitempty"` // Live elements not rendered.
	Fault      *Fault          `json:"fault,omitempty"`
}

// GuardReport carries the observed sentinel words.
type GuardReport struct {
	Left    uint64 `json:"left"`
	Right   uint64 `json:"right"`
	LeftOK  bool   `json:"left_ok"`
	RightOK bool   `json:"right_ok"`
}

// ChecksumReport pairs stored digests with freshly computed ones. The element
// digest is computed over the clamped range when size is out of bounds.
type ChecksumReport struct {
	Control          uint64 `json:"control"`
	ControlComputed  uint64 `json:"control_computed"`
	Elements         uint64 `json:"elements"`
	ElementsComputed uint64 `json:"elements_computed"`
}

// Fault is the serializable form of a CorruptionError.
type Fault struct {
	Kind     string `json:"kind"`
	Op       string `json:"op"`
	Field    string `json:"field,omitempty"`
	Expected uint64 `json:"expected,omitempty"`
	Observed uint64 `json:"observed,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Report returns a diagnostic snapshot of s including the first failing
// check, if any. It is valid on nil, zero-value and destroyed stacks.
func (s *Stack[T]) Report() Report {
	return s.report(s.verify("report"))
}

// Dump writes the text report of s to w, truncated to DefaultReportLimit.
func (s *Stack[T]) Dump(w io.Writer) error {
	_, err := io.WriteString(w, s.Report().Format(DefaultReportLimit))
	return err
}

func (s *Stack[T]) report(ce *CorruptionError) Report {
	var r Report
	if ce != nil {
		r.Fault = &Fault{
			Kind:     ce.Kind.Code(),
			Op:       ce.Op,
			Field:    ce.Field,
			Expected: ce.Expected,
			Observed: ce.Observed,
			Detail:   ce.Detail,
		}
	}
	if s == nil {
		r.State = "nil"
		r.Features = NoFeatures.String()
		return r
	}
	r.Provenance = s.prov
	r.State = stateName(s.state, s.features)
	r.Features = s.features.String()
	r.Size = s.size
	r.Capacity = s.capacity
	r.Storage = len(s.data)

	live := min(max(s.size, 0), len(s.data))
	if s.features.Has(Guards) {
		r.Guards = &GuardReport{
			Left:    s.leftGuard,
			Right:   s.rightGuard,
			LeftOK:  s.leftGuard == leftGuardValue,
			RightOK: s.rightGuard == rightGuardValue,
		}
	}
	if s.features.Has(Checksums) && s.alive() {
		r.Checksums = &ChecksumReport{
			Control:          s.ctlSum,
			ControlComputed:  s.controlSum(),
			Elements:         s.dataSum,
			ElementsComputed: checksum.Words(s.data[:live]),
		}
	}

	shown := min(live, MaxReportElements)
	if shown > 0 {
		r.Elements = make([]string, 0, shown)
		for _, v := range s.data[:shown] {
			r.Elements = append(r.Elements, s.render(v))
		}
	}
	r.Omitted = live - shown
	return r
}

func (s *Stack[T]) render(v T) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = fmt.Sprintf("<format panic: %v>", rec)
		}
	}()
	format := s.format
	if format == nil {
		format = FormatDecimal[T]
	}
	b := format(make([]byte, 0, ElemWidth), v)
	if len(b) > ElemWidth {
		b = b[:ElemWidth]
	}
	return string(b)
}

func stateName(st uint64, f Features) string {
	switch st {
	case aliveState(f):
		return "constructed"
	case stateDestroyed:
		return "destroyed"
	case stateUninitialized:
		return "uninitialized"
	}
	return fmt.Sprintf("invalid(%#x)", st)
}

// String renders the report as indented text.
func (r Report) String() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "stack %s", r.Provenance)
	if r.Provenance.ID != "" {
		fmt.Fprintf(b, " id=%s", r.Provenance.ID)
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "  state: %s  features: %s\n", r.State, r.Features)
	fmt.Fprintf(b, "  size: %d  capacity: %d  storage: %d\n", r.Size, r.Capacity, r.Storage)
	if g := r.Guards; g != nil {
		fmt.Fprintf(b, "  guards: left=%#016x %s  right=%#016x %s\n", g.Left, okText(g.LeftOK), g.Right, okText(g.RightOK))
	}
	if c := r.Checksums; c != nil {
		fmt.Fprintf(b, "  control checksum: stored=%#016x computed=%#016x %s\n", c.Control, c.ControlComputed, okText(c.Control == c.ControlComputed))
		fmt.Fprintf(b, "  element checksum: stored=%#016x computed=%#016x %s\n", c.Elements, c.ElementsComputed, okText(c.Elements == c.ElementsComputed))
	}
	if len(r.Elements) > 0 || r.Omitted > 0 {
		b.WriteString("  elements:\n")
		for i, e := range r.Elements {
			fmt.Fprintf(b, "    [%d] %s\n", i, e)
		}
		if r.Omitted > 0 {
			fmt.Fprintf(b, "    ... %d more\n", r.Omitted)
		}
	}
	if f := r.Fault; f != nil {
		fmt.Fprintf(b, "  fault: %s during %s", f.Kind, f.Op)
		switch {
		case f.Detail != "":
			fmt.Fprintf(b, ": %s", f.Detail)
		case f.Field != "":
			fmt.Fprintf(b, ": %s expected %#x, observed %#x", f.Field, f.Expected, f.Observed)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Format renders the report and truncates it to at most limit bytes.
// limit <= 0 disables truncation.
func (r Report) Format(limit int) string {
	s := r.String()
	if limit <= 0 || len(s) <= limit {
		return s
	}
	if limit <= len(truncMark) {
		return s[:limit]
	}
	return s[:limit-len(truncMark)] + truncMark
}

// WriteTo writes the text report to w.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

// JSON renders the report as indented JSON.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func okText(ok bool) string {
	if ok {
		return "ok"
	}
	return "MISMATCH"
}
