// Package tree holds the binary question tree walked by the akinator game and
// its text, YAML and JSON encodings.
//
// Every inner node is a yes/no question; leaves name objects. Answering "yes"
// descends into Yes, "no" into No.
package tree

import (
	"errors"

	"github.com/reoring/guardstack"
)

// Direction is the branch taken at a node. It is the element type recorded
// into a guardstack.Stack while searching.
type Direction uint8

const (
	DirYes Direction = 0
	DirNo  Direction = 1
)

func (d Direction) String() string {
	if d == DirNo {
		return "no"
	}
	return "yes"
}

// Node is a tree node. A node without children is a leaf.
type Node struct {
	Text string `json:"text" yaml:"text"`
	Yes  *Node  `json:"yes,omitempty" yaml:"yes,omitempty"`
	No   *Node  `json:"no,omitempty" yaml:"no,omitempty"`
}

// Leaf returns a new leaf node.
func Leaf(text string) *Node { return &Node{Text: text} }

// Question returns an inner node.
func Question(text string, yes, no *Node) *Node {
	return &Node{Text: text, Yes: yes, No: no}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n != nil && n.Yes == nil && n.No == nil }

// Child returns the branch for d.
func (n *Node) Child(d Direction) *Node {
	if d == DirNo {
		return n.No
	}
	return n.Yes
}

// Size counts the nodes reachable from n.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	return 1 + n.Yes.Size() + n.No.Size()
}

// Leaves returns the leaf texts in depth-first yes-before-no order.
func (n *Node) Leaves() []string {
	var out []string
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.IsLeaf() {
			out = append(out, n.Text)
			return
		}
		walk(n.Yes)
		walk(n.No)
	}
	walk(n)
	return out
}

// Path searches depth-first for the node whose text equals name and records
// the directions leading to it into stk. Directions are pushed while
// unwinding, so popping stk yields them root first.
func Path(root *Node, name string, stk *guardstack.Stack[Direction]) (bool, error) {
	if root == nil {
		return false, nil
	}
	if root.Text == name {
		return true, nil
	}
	for _, d := range [...]Direction{DirYes, DirNo} {
		found, err := Path(root.Child(d), name, stk)
		if err != nil {
			return false, err
		}
		if found {
			return true, stk.Push(d)
		}
	}
	return false, nil
}

// Directions pops stk until it reports guardstack.ErrEmpty.
func Directions(stk *guardstack.Stack[Direction]) ([]Direction, error) {
	var out []Direction
	for {
		d, err := stk.Pop()
		if errors.Is(err, guardstack.ErrEmpty) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
}

// FormatDirection renders a Direction for stack diagnostics.
func FormatDirection(dst []byte, d Direction) []byte {
	return append(dst, d.String()...)
}
