package akinator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/reoring/guardstack/i18n"
	"github.com/reoring/guardstack/tree"
)

// Outcome is the result of one round of Guess.
type Outcome int

const (
	// Guessed means the game reached the object the player had in mind.
	Guessed Outcome = iota + 1
	// Learned means the tree was extended with a new object.
	Learned
)

func (o Outcome) String() string {
	switch o {
	case Guessed:
		return "guessed"
	case Learned:
		return "learned"
	}
	return "unknown"
}

// Game runs interactive rounds over a tree. Prompts go to out, answers are
// read line by line from in.
type Game struct {
	root *tree.Node
	in   *bufio.Reader
	out  io.Writer
	opts options
}

// NewGame returns a game over root. Guess may modify root in place.
func NewGame(root *tree.Node, in io.Reader, out io.Writer, opts ...Option) *Game {
	return &Game{
		root: root,
		in:   bufio.NewReader(in),
		out:  out,
		opts: buildOptions(opts),
	}
}

// Root returns the current tree.
func (g *Game) Root() *tree.Node { return g.root }

type answer int

const (
	answerOther answer = iota
	answerYes
	answerNo
)

func (g *Game) msg(key string, kv ...string) string {
	var data map[string]string
	if len(kv) > 0 {
		data = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			data[kv[i]] = kv[i+1]
		}
	}
	return g.opts.tr.Message(key, data)
}

func (g *Game) say(key string, kv ...string) error {
	_, err := fmt.Fprintln(g.out, g.msg(key, kv...))
	return err
}

func (g *Game) readLine() (string, error) {
	line, err := g.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", fmt.Errorf("akinator: reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ask prints the prompt for key and returns the first non-empty reply.
func (g *Game) ask(key string, kv ...string) (string, error) {
	for {
		if err := g.say(key, kv...); err != nil {
			return "", err
		}
		line, err := g.readLine()
		if err != nil || line != "" {
			return line, err
		}
	}
}

func (g *Game) classify(s string) answer {
	switch {
	case strings.EqualFold(s, g.msg(i18n.AnswerYes)):
		return answerYes
	case strings.EqualFold(s, g.msg(i18n.AnswerNo)):
		return answerNo
	}
	return answerOther
}

// Guess plays one round. It walks the tree asking the player, and when it
// runs out of nodes it asks for the object and a distinguishing question and
// grows the tree.
func (g *Game) Guess() (Outcome, error) {
	if g.root == nil {
		_ = g.say(i18n.EmptyTree)
		return 0, ErrEmptyTree
	}
	cur := g.root
	for {
		var err error
		if cur.IsLeaf() {
			err = g.say(i18n.AskLeaf, "name", cur.Text)
		} else {
			err = g.say(i18n.AskQuestion, "question", cur.Text)
		}
		if err != nil {
			return 0, err
		}
		line, err := g.readLine()
		if err != nil {
			return 0, err
		}

		var next *tree.Node
		switch g.classify(line) {
		case answerYes:
			if cur.Yes == nil {
				g.opts.logger.Info("guessed", "name", cur.Text)
				return Guessed, g.say(i18n.Guessed)
			}
			next = cur.Yes
		case answerNo:
			next = cur.No
		default:
			if err := g.say(i18n.WrongAnswer, "yes", g.msg(i18n.AnswerYes), "no", g.msg(i18n.AnswerNo)); err != nil {
				return 0, err
			}
			continue
		}
		if next == nil {
			return g.learn(cur)
		}
		cur = next
	}
}

func (g *Game) learn(cur *tree.Node) (Outcome, error) {
	name, err := g.ask(i18n.AskWho)
	if err != nil {
		return 0, err
	}
	name = sanitize(name)
	if !cur.IsLeaf() {
		cur.No = tree.Leaf(name)
	} else {
		question, err := g.ask(i18n.AskDifference, "name", name, "other", cur.Text)
		if err != nil {
			return 0, err
		}
		old := cur.Text
		cur.Text = sanitize(question)
		cur.Yes = tree.Leaf(name)
		cur.No = tree.Leaf(old)
	}
	g.opts.logger.Info("learned", "name", name, "nodes", g.root.Size())
	return Learned, g.say(i18n.Learned, "name", name)
}

// sanitize drops the bracket characters the text encoding reserves.
func sanitize(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}

// Describe prints the traits of name, prompting for it when empty.
func (g *Game) Describe(name string) error {
	if name == "" {
		var err error
		if name, err = g.ask(i18n.DescribeWho); err != nil {
			return err
		}
	}
	traits, err := Describe(g.root, name, g.optionList()...)
	if err != nil {
		g.reportLookup(err, name)
		return err
	}
	if err := g.say(i18n.DescribeIntro, "name", name); err != nil {
		return err
	}
	return g.printTraits(traits)
}

// Compare prints what a and b share and what sets them apart, prompting for
// missing names.
func (g *Game) Compare(a, b string) error {
	var err error
	if a == "" {
		if a, err = g.ask(i18n.CompareWho); err != nil {
			return err
		}
	}
	if b == "" {
		if b, err = g.ask(i18n.CompareWith); err != nil {
			return err
		}
	}
	c, err := Compare(g.root, a, b, g.optionList()...)
	if err != nil {
		g.reportLookup(err, a, b)
		return err
	}
	if len(c.Common) == 0 {
		err = g.say(i18n.NothingInCommon, "a", a, "b", b)
	} else {
		if err = g.say(i18n.CompareCommon, "a", a, "b", b); err == nil {
			err = g.printTraits(c.Common)
		}
	}
	if err != nil {
		return err
	}
	for _, side := range []struct {
		name   string
		traits []Trait
	}{{a, c.OnlyA}, {b, c.OnlyB}} {
		if len(side.traits) == 0 {
			continue
		}
		if err := g.say(i18n.CompareBesides, "name", side.name); err != nil {
			return err
		}
		if err := g.printTraits(side.traits); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) printTraits(traits []Trait) error {
	for _, t := range traits {
		key := i18n.Trait
		if !t.Holds {
			key = i18n.NotTrait
		}
		if err := g.say(key, "trait", t.Question); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) reportLookup(err error, names ...string) {
	switch {
	case errors.Is(err, ErrEmptyTree):
		_ = g.say(i18n.EmptyTree)
	case errors.Is(err, ErrNotFound):
		for _, n := range names {
			if !g.known(n) {
				_ = g.say(i18n.NotFound, "name", n)
			}
		}
	default:
		g.opts.logger.Error("path lookup failed", slog.Any("err", err))
	}
}

func (g *Game) known(name string) bool {
	var walk func(*tree.Node) bool
	walk = func(n *tree.Node) bool {
		return n != nil && (n.Text == name || walk(n.Yes) || walk(n.No))
	}
	return walk(g.root)
}

func (g *Game) optionList() []Option {
	o := g.opts
	return []Option{
		WithTranslator(o.tr),
		WithLogger(o.logger),
		WithStackOptions(o.stack...),
	}
}
