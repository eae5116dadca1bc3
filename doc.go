// Package guardstack provides a growable LIFO container of fixed-width words
// that detects corruption of its own state and reports the earliest fault it
// can see instead of returning wrong data.
//
// Two optional checks are layered on every access:
//
// - Boundary guards: sentinel words bracketing the control fields. A write
// that spills into the control block from either side changes a sentinel.
// - Checksums: an xxhash digest over the control fields and a separate one
// over the live element range, recomputed after every mutation and verified
// before every access.
//
// Both are compiled in by default; build with -tags guardstack_lite to drop
// them from the default feature set, or select per instance with WithFeatures.
// The lifecycle checks (zero value, use after Destroy) and the emptiness check
// always run.
//
// Design policy:
// - Push, Pop, Len, Cap and Destroy verify before they touch anything. A
// failed check leaves the stack exactly as found and returns a
// *CorruptionError carrying a Report.
// - Corruption is never repaired. Report it and abandon the stack.
// - Pop on an empty stack returns ErrEmpty, which is not a fault.
//
// Typical usage:
//
//	stk := guardstack.New[uint8](guardstack.Here("path"), nil,
//		guardstack.WithLogger(logger))
//	defer stk.Destroy()
//
//	_ = stk.Push(1)
//	v, err := stk.Pop()
//	if errors.Is(err, guardstack.ErrCorrupted) {
//		var ce *guardstack.CorruptionError
//		errors.As(err, &ce)
//		fmt.Print(ce.Report)
//	}
package guardstack
