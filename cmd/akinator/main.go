// Command akinator plays the guessing game over a tree file and exposes the
// describe, compare, path and dump operations.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/guardstack"
	"github.com/reoring/guardstack/akinator"
	"github.com/reoring/guardstack/i18n"
	"github.com/reoring/guardstack/internal/config"
	"github.com/reoring/guardstack/internal/logging"
	"github.com/reoring/guardstack/tree"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the resolved configuration shared by every subcommand.
type app struct {
	configPath  string
	treePath    string
	outPath     string
	lang        string
	logLevel    string
	logFormat   string
	noGuards    bool
	noChecksums bool

	cfg    config.Config
	logger *slog.Logger
	tr     i18n.Translator

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}
	root := &cobra.Command{
		Use:   "akinator",
		Short: "Guess what you are thinking of by asking yes/no questions",
		Long: `akinator walks a binary tree of yes/no questions and learns new objects
when it fails to guess. Paths through the tree are recorded in self-checking
stacks; an integrity violation aborts the command with a diagnostic report.

Run without a subcommand to play one round.`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup(cmd) },
		RunE:              func(cmd *cobra.Command, args []string) error { return a.play() },
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.treePath, "tree", "", "tree file (.txt, .yaml, .json)")
	pf.StringVar(&a.outPath, "out", "", "where to save the tree (defaults to --tree)")
	pf.StringVar(&a.lang, "lang", "", "message language (en, ru)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "", "text or json")
	pf.BoolVar(&a.noGuards, "no-guards", false, "disable boundary guards on path stacks")
	pf.BoolVar(&a.noChecksums, "no-checksums", false, "disable checksums on path stacks")

	root.AddCommand(a.playCmd(), a.describeCmd(), a.compareCmd(), a.pathCmd(), a.dumpCmd())
	return root
}

// setup loads the config file and applies flag overrides on top of it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("tree") {
		cfg.Tree = a.treePath
	}
	if flags.Changed("lang") {
		cfg.Language = a.lang
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if a.noGuards {
		off := false
		cfg.Stack.Guards = &off
	}
	if a.noChecksums {
		off := false
		cfg.Stack.Checksums = &off
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(a.errOut, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	i18n.SetLanguage(cfg.Language)
	a.tr = i18n.Current()
	logger.Debug("configured",
		slog.String("tree", cfg.Tree),
		slog.String("lang", cfg.Language),
		slog.String("features", cfg.Stack.Features().String()),
	)
	return nil
}

func (a *app) stackOptions() []guardstack.Option {
	return append([]guardstack.Option{guardstack.WithLogger(a.logger)}, a.cfg.Stack.Options()...)
}

func (a *app) gameOptions() []akinator.Option {
	return []akinator.Option{
		akinator.WithTranslator(a.tr),
		akinator.WithLogger(a.logger),
		akinator.WithStackOptions(a.cfg.Stack.Options()...),
	}
}

func (a *app) loadTree() (*tree.Node, error) {
	root, err := tree.Load(a.cfg.Tree)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("tree loaded", slog.String("path", a.cfg.Tree), slog.Int("nodes", root.Size()))
	return root, nil
}

func (a *app) saveTree(root *tree.Node) error {
	path := a.outPath
	if path == "" {
		path = a.cfg.Tree
	}
	if err := tree.Save(path, root); err != nil {
		return err
	}
	a.logger.Info("tree saved", slog.String("path", path), slog.Int("nodes", root.Size()))
	return nil
}

func (a *app) newGame(root *tree.Node) *akinator.Game {
	return akinator.NewGame(root, a.in, a.out, a.gameOptions()...)
}

// reportCorruption prints the stack report carried by a corruption error.
func (a *app) reportCorruption(err error) error {
	if ce, ok := guardstack.AsCorruption(err); ok {
		fmt.Fprintln(a.errOut, a.tr.Message(ce.Kind.Code(), nil))
		_, _ = ce.Report.WriteTo(a.errOut)
	}
	return err
}
