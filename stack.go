package guardstack

import (
	"log/slog"

	"github.com/google/uuid"
)

// Capacity policy.
const (
	InitCapacity    = 2
	GrowthFactor    = 2
	ShrinkThreshold = 4
)

// Stack is a growable LIFO of fixed-width words that verifies its own
// integrity before every access. The zero value is not usable; construct
// stacks with New. A Stack is not safe for concurrent use.
//
// Field order matters only for readability: leftGuard and rightGuard bracket
// the control fields they protect.
type Stack[T Word] struct {
	leftGuard uint64

	state    uint64
	features Features
	capacity int
	size     int
	data     []T
	prov     Provenance

	format    FormatFunc[T]
	logger    *slog.Logger
	maxCap    int
	allocHook AllocHook
	poison    bool

	ctlSum  uint64
	dataSum uint64

	rightGuard uint64
}

// New constructs an empty stack with InitCapacity slots. format renders
// elements in diagnostics; nil selects FormatDecimal.
//
// New cannot report ErrOutOfMemory for the initial storage. An AllocHook
// installed with WithAllocHook is only consulted on resize.
func New[T Word](prov Provenance, format FormatFunc[T], opts ...Option) *Stack[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if format == nil {
		format = FormatDecimal[T]
	}
	if prov.ID == "" {
		prov.ID = uuid.NewString()
	}
	s := &Stack[T]{
		leftGuard:  leftGuardValue,
		state:      aliveState(o.features),
		features:   o.features,
		capacity:   InitCapacity,
		data:       make([]T, InitCapacity),
		prov:       prov,
		format:     format,
		logger:     o.logger,
		maxCap:     o.maxCapacity,
		allocHook:  o.allocHook,
		poison:     o.poison,
		rightGuard: rightGuardValue,
	}
	if s.poison {
		fill(s.data, poisonOf[T]())
	}
	s.seal()
	return s
}

// Destroy releases the storage and invalidates the stack. Any later call
// except Report reports UseAfterDestroy. Storage is released even when
// verification fails; the failure is still returned.
func (s *Stack[T]) Destroy() error {
	verr := s.check("destroy")
	if verr != nil {
		if k := KindOf(verr); k == UseAfterDestroy || k == UninitializedUse {
			return verr
		}
	}
	if s.poison {
		fill(s.data, poisonOf[T]())
	}
	s.data = nil
	s.size = 0
	s.capacity = 0
	s.state = stateDestroyed
	s.ctlSum = poisonWord
	s.dataSum = poisonWord
	s.logger.Debug("stack destroyed", "stack", s.prov.Name, "id", s.prov.ID)
	return verr
}

// Push appends v. It fails without side effects when the stack does not pass
// verification or when growth cannot obtain storage.
func (s *Stack[T]) Push(v T) error {
	if err := s.check("push"); err != nil {
		return err
	}
	if s.size == s.capacity {
		if err := s.resize(s.growTarget()); err != nil {
			return err
		}
	}
	s.data[s.size] = v
	s.size++
	s.seal()
	return nil
}

// Pop removes and returns the most recently pushed element. It returns
// ErrEmpty when there is nothing to pop.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if err := s.check("pop"); err != nil {
		return zero, err
	}
	if s.size == 0 {
		return zero, ErrEmpty
	}
	s.size--
	v := s.data[s.size]
	if s.poison {
		s.data[s.size] = poisonOf[T]()
	}
	if s.shrinkable() {
		if err := s.resize(s.shrinkTarget()); err != nil {
			s.logger.Debug("shrink skipped", "stack", s.prov.Name, "capacity", s.capacity, "err", err)
		}
	}
	s.seal()
	return v, nil
}

// Len returns the number of live elements after verifying the stack.
func (s *Stack[T]) Len() (int, error) {
	if err := s.check("len"); err != nil {
		return 0, err
	}
	return s.size, nil
}

// Cap returns the allocated slot count after verifying the stack.
func (s *Stack[T]) Cap() (int, error) {
	if err := s.check("cap"); err != nil {
		return 0, err
	}
	return s.capacity, nil
}

// Features returns the checks enabled on s.
func (s *Stack[T]) Features() Features {
	if s == nil {
		return NoFeatures
	}
	return s.features
}

// Provenance returns the construction record of s.
func (s *Stack[T]) Provenance() Provenance {
	if s == nil {
		return Provenance{}
	}
	return s.prov
}

func fill[T Word](vs []T, v T) {
	for i := range vs {
		vs[i] = v
	}
}
