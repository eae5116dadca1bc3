package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxDepth bounds the nesting accepted by Parse.
const MaxDepth = 4096

// ErrSyntax matches every *SyntaxError.
var ErrSyntax = errors.New("tree: syntax error")

// SyntaxError reports malformed text input.
type SyntaxError struct {
	Offset int // Byte offset where parsing failed.
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("tree: syntax error at offset %d: %s", e.Offset, e.Msg)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// Parse decodes the text form:
//
//	tree := "nil" | "(" "<" text ">" tree tree ")"
//
// Whitespace between tokens is ignored. The first subtree is the yes branch.
func Parse(data []byte) (*Node, error) {
	p := &parser{src: data}
	root, err := p.node(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing data")
	}
	return root, nil
}

type parser struct {
	src []byte
	pos int
}

func (p *parser) errorf(format string, a ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, a...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) node(depth int) (*Node, error) {
	if depth > MaxDepth {
		return nil, p.errorf("nesting deeper than %d", MaxDepth)
	}
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}
	if p.nilToken() {
		p.pos += len("nil")
		return nil, nil
	}
	if p.src[p.pos] != '(' {
		return nil, p.errorf("expected '(' or nil, found %q", p.src[p.pos])
	}
	p.pos++
	p.skipSpace()
	text, err := p.bracketed()
	if err != nil {
		return nil, err
	}
	n := &Node{Text: text}
	if n.Yes, err = p.node(depth + 1); err != nil {
		return nil, err
	}
	if n.No, err = p.node(depth + 1); err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != ')' {
		return nil, p.errorf("expected ')'")
	}
	p.pos++
	return n, nil
}

// nilToken reports whether "nil" starts at pos as a whole word.
func (p *parser) nilToken() bool {
	rest := p.src[p.pos:]
	if len(rest) < 3 || string(rest[:3]) != "nil" {
		return false
	}
	if len(rest) == 3 {
		return true
	}
	c := rest[3]
	return !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
}

func (p *parser) bracketed() (string, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '<' {
		return "", p.errorf("expected '<'")
	}
	start := p.pos + 1
	end := start
	for end < len(p.src) && p.src[end] != '>' {
		end++
	}
	if end >= len(p.src) {
		return "", p.errorf("unterminated node text")
	}
	p.pos = end + 1
	return string(p.src[start:end]), nil
}

// Write encodes root in text form, indenting four spaces per level.
func Write(w io.Writer, root *Node) error {
	bw := bufio.NewWriter(w)
	if err := writeNode(bw, root, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func writeNode(w *bufio.Writer, n *Node, level int) error {
	indent := strings.Repeat("    ", level)
	if n == nil {
		_, err := w.WriteString(indent + "nil\n")
		return err
	}
	if strings.ContainsRune(n.Text, '>') {
		return fmt.Errorf("tree: node text %q cannot contain '>'", n.Text)
	}
	if _, err := fmt.Fprintf(w, "%s(<%s>\n", indent, n.Text); err != nil {
		return err
	}
	if err := writeNode(w, n.Yes, level+1); err != nil {
		return err
	}
	if err := writeNode(w, n.No, level+1); err != nil {
		return err
	}
	_, err := w.WriteString(indent + ")\n")
	return err
}

// Text returns the text form of root.
func Text(root *Node) (string, error) {
	b := &strings.Builder{}
	if err := Write(b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}
