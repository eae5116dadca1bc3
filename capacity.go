package guardstack

import (
	"fmt"
	"math"
)

func (s *Stack[T]) growTarget() int {
	if s.capacity > math.MaxInt/GrowthFactor {
		return -1
	}
	return s.capacity * GrowthFactor
}

func (s *Stack[T]) shrinkable() bool {
	return s.capacity > InitCapacity && s.size <= s.capacity/ShrinkThreshold
}

func (s *Stack[T]) shrinkTarget() int {
	return max(InitCapacity, s.capacity/GrowthFactor)
}

// resize moves the live elements into fresh storage of n slots. On failure
// the stack is untouched and the error wraps ErrOutOfMemory.
func (s *Stack[T]) resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: capacity overflow growing from %d slots", ErrOutOfMemory, s.capacity)
	}
	if s.maxCap > 0 && n > s.maxCap {
		return fmt.Errorf("%w: %d slots exceeds limit of %d", ErrOutOfMemory, n, s.maxCap)
	}
	if s.allocHook != nil {
		if err := s.allocHook(n); err != nil {
			return fmt.Errorf("%w: allocating %d slots: %w", ErrOutOfMemory, n, err)
		}
	}
	data, err := allocate[T](n)
	if err != nil {
		return err
	}
	copy(data, s.data[:s.size])
	if s.poison {
		fill(data[s.size:], poisonOf[T]())
		fill(s.data, poisonOf[T]())
	}
	s.logger.Debug("stack resized",
		"stack", s.prov.Name,
		"from", s.capacity,
		"to", n,
		"size", s.size,
	)
	s.data = data
	s.capacity = n
	s.seal()
	return nil
}

// allocate converts a runtime allocation panic for an impossible length into
// ErrOutOfMemory. Genuine heap exhaustion is fatal to the Go runtime and cannot
// be intercepted.
func allocate[T Word](n int) (data []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w: allocating %d slots: %v", ErrOutOfMemory, n, r)
		}
	}()
	return make([]T, n), nil
}
