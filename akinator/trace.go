// Package akinator implements the guessing game over a tree.Node: guessing
// with learning, describing an object, and comparing two objects.
//
// Describe and Compare find their targets by recording the branch taken at
// every level into a guardstack.Stack and replaying it from the root.
package akinator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/reoring/guardstack"
	"github.com/reoring/guardstack/i18n"
	"github.com/reoring/guardstack/tree"
)

var (
	// ErrNotFound is returned when a name is not present in the tree.
	ErrNotFound = errors.New("akinator: unknown name")
	// ErrEmptyTree is returned when the tree has no root.
	ErrEmptyTree = errors.New("akinator: empty tree")
)

// Trait is one question on the path to an object and whether the object
// satisfies it.
type Trait struct {
	Question string
	Holds    bool
}

// Comparison splits the paths to two objects into their shared prefix and the
// remainders.
type Comparison struct {
	Common []Trait
	OnlyA  []Trait
	OnlyB  []Trait
}

type options struct {
	tr     i18n.Translator
	logger *slog.Logger
	stack  []guardstack.Option
}

// Option configures the game and the path functions.
type Option func(*options)

// WithTranslator sets the message catalog. The default is i18n.Current().
func WithTranslator(tr i18n.Translator) Option {
	return func(o *options) {
		if tr != nil {
			o.tr = tr
		}
	}
}

// WithLogger sets the logger. Path stacks report integrity violations to it.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStackOptions passes options to every path stack.
func WithStackOptions(opts ...guardstack.Option) Option {
	return func(o *options) { o.stack = append(o.stack, opts...) }
}

func buildOptions(opts []Option) options {
	o := options{tr: i18n.Current(), logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) newStack(prov guardstack.Provenance) *guardstack.Stack[tree.Direction] {
	opts := append([]guardstack.Option{guardstack.WithLogger(o.logger)}, o.stack...)
	return guardstack.New[tree.Direction](prov, tree.FormatDirection, opts...)
}

// trace records the path to name into a new stack created at prov.
func (o options) trace(root *tree.Node, name string, prov guardstack.Provenance) (*guardstack.Stack[tree.Direction], error) {
	stk := o.newStack(prov)
	found, err := tree.Path(root, name, stk)
	if err == nil && !found {
		err = fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		_ = stk.Destroy()
		return nil, err
	}
	if n, lerr := stk.Len(); lerr == nil {
		o.logger.Debug("path recorded", "name", name, "depth", n, "created", stk.Provenance().String())
	}
	return stk, nil
}

func pathName(name string) string { return "path:" + name }

// Describe returns the traits of name from the root down.
func Describe(root *tree.Node, name string, opts ...Option) (traits []Trait, err error) {
	if root == nil {
		return nil, ErrEmptyTree
	}
	o := buildOptions(opts)
	stk, err := o.trace(root, name, guardstack.Here(pathName(name)))
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, stk.Destroy()) }()
	return drain(stk, root, nil)
}

// Compare returns the shared and distinct traits of a and b.
func Compare(root *tree.Node, a, b string, opts ...Option) (c Comparison, err error) {
	if root == nil {
		return c, ErrEmptyTree
	}
	o := buildOptions(opts)
	stkA, err := o.trace(root, a, guardstack.Here(pathName(a)))
	if err != nil {
		return c, err
	}
	defer func() { err = errors.Join(err, stkA.Destroy()) }()
	stkB, err := o.trace(root, b, guardstack.Here(pathName(b)))
	if err != nil {
		return c, err
	}
	defer func() { err = errors.Join(err, stkB.Destroy()) }()

	cur := root
	for {
		da, errA := stkA.Pop()
		if errA != nil && !errors.Is(errA, guardstack.ErrEmpty) {
			return c, errA
		}
		if errA != nil {
			c.OnlyB, err = drain(stkB, cur, nil)
			return c, err
		}
		db, errB := stkB.Pop()
		if errB != nil && !errors.Is(errB, guardstack.ErrEmpty) {
			return c, errB
		}
		if errB != nil {
			c.OnlyA, err = drain(stkA, cur, &da)
			return c, err
		}
		if da != db {
			if c.OnlyA, err = drain(stkA, cur, &da); err != nil {
				return c, err
			}
			c.OnlyB, err = drain(stkB, cur, &db)
			return c, err
		}
		c.Common = append(c.Common, Trait{Question: cur.Text, Holds: da == tree.DirYes})
		cur = cur.Child(da)
	}
}

// drain walks from cur following first (when set) and then every direction
// left in stk until it reports guardstack.ErrEmpty.
func drain(stk *guardstack.Stack[tree.Direction], cur *tree.Node, first *tree.Direction) ([]Trait, error) {
	var traits []Trait
	step := func(d tree.Direction) {
		traits = append(traits, Trait{Question: cur.Text, Holds: d == tree.DirYes})
		cur = cur.Child(d)
	}
	if first != nil {
		step(*first)
	}
	for {
		d, err := stk.Pop()
		if errors.Is(err, guardstack.ErrEmpty) {
			return traits, nil
		}
		if err != nil {
			return traits, err
		}
		step(d)
	}
}
