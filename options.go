package guardstack

import (
	"log/slog"
	"strings"
)

// Features selects the optional integrity checks of a stack.
type Features uint8

const (
	// Guards brackets the control block with sentinel words.
	Guards Features = 1 << iota
	// Checksums covers the control fields and the live element range with
	// digests verified before every access.
	Checksums

	// NoFeatures disables both optional checks. State and emptiness checks
	// still run.
	NoFeatures Features = 0
	// AllFeatures enables every optional check.
	AllFeatures = Guards | Checksums
)

// DefaultFeatures returns the feature set compiled into this build.
func DefaultFeatures() Features { return defaultFeatures }

// Has reports whether every feature in f2 is enabled in f.
func (f Features) Has(f2 Features) bool { return f&f2 == f2 }

func (f Features) String() string {
	if f == NoFeatures {
		return "none"
	}
	var parts []string
	if f.Has(Guards) {
		parts = append(parts, "guards")
	}
	if f.Has(Checksums) {
		parts = append(parts, "checksums")
	}
	return strings.Join(parts, "+")
}

// AllocHook is consulted before every storage allocation with the requested
// slot count. A non-nil error vetoes the allocation.
type AllocHook func(slots int) error

type options struct {
	features    Features
	logger      *slog.Logger
	maxCapacity int
	allocHook   AllocHook
	poison      bool
}

func defaultOptions() options {
	return options{
		features: defaultFeatures,
		logger:   slog.New(slog.DiscardHandler),
		poison:   true,
	}
}

// Option configures a Stack at construction.
type Option func(*options)

// WithFeatures overrides the compiled-in feature set.
func WithFeatures(f Features) Option {
	return func(o *options) { o.features = f & AllFeatures }
}

// WithLogger sets the sink that receives diagnostic reports for every detected
// violation. A nil logger keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxCapacity bounds the slot count. Growth past n fails with
// ErrOutOfMemory. n <= 0 means unbounded.
func WithMaxCapacity(n int) Option {
	return func(o *options) { o.maxCapacity = n }
}

// WithAllocHook installs an allocation gate.
func WithAllocHook(h AllocHook) Option {
	return func(o *options) { o.allocHook = h }
}

// WithPoison toggles overwriting vacated slots and released storage with the
// Poison pattern. It is on by default.
func WithPoison(on bool) Option {
	return func(o *options) { o.poison = on }
}
