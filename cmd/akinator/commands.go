package main

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/guardstack"
	"github.com/reoring/guardstack/akinator"
	"github.com/reoring/guardstack/tree"
)

func (a *app) playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play one round and save the tree if a new object was learned",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return a.play() },
	}
}

func (a *app) play() error {
	root, err := a.loadTree()
	if err != nil {
		return err
	}
	outcome, err := a.newGame(root).Guess()
	if err != nil {
		return err
	}
	a.logger.Debug("round finished", "outcome", outcome.String())
	if outcome == akinator.Learned {
		return a.saveTree(root)
	}
	return nil
}

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [name]",
		Short: "List the traits of an object",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.loadTree()
			if err != nil {
				return err
			}
			return a.reportCorruption(a.newGame(root).Describe(argAt(args, 0)))
		},
	}
}

func (a *app) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [a [b]]",
		Short: "Show what two objects share and what sets them apart",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.loadTree()
			if err != nil {
				return err
			}
			return a.reportCorruption(a.newGame(root).Compare(argAt(args, 0), argAt(args, 1)))
		},
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// pathResult is the --json output of the path command.
type pathResult struct {
	Name       string            `json:"name"`
	Directions []string          `json:"directions"`
	Report     guardstack.Report `json:"report"`
}

func (a *app) pathCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "path name",
		Short: "Print the yes/no directions from the root to an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.loadTree()
			if err != nil {
				return err
			}
			res, err := a.path(root, args[0])
			if err != nil {
				return a.reportCorruption(err)
			}
			if asJSON {
				data, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return fmt.Errorf("json marshal: %w", err)
				}
				_, err = fmt.Fprintf(a.out, "%s\n", data)
				return err
			}
			fmt.Fprintf(a.out, "%s: %s\n", res.Name, strings.Join(res.Directions, " "))
			_, err = res.Report.WriteTo(a.out)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// path records the route to name and captures the stack report before the
// directions are popped.
func (a *app) path(root *tree.Node, name string) (res pathResult, err error) {
	stk := guardstack.New[tree.Direction](guardstack.Here("path:"+name), tree.FormatDirection, a.stackOptions()...)
	defer func() {
		if derr := stk.Destroy(); err == nil {
			err = derr
		}
	}()
	found, err := tree.Path(root, name, stk)
	if err != nil {
		return res, err
	}
	if !found {
		return res, fmt.Errorf("%w: %q", akinator.ErrNotFound, name)
	}
	res = pathResult{Name: name, Report: stk.Report()}
	dirs, err := tree.Directions(stk)
	if err != nil {
		return res, err
	}
	res.Directions = make([]string, len(dirs))
	for i, d := range dirs {
		res.Directions[i] = d.String()
	}
	return res, nil
}

func (a *app) dumpCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the tree in another encoding",
		Long: `dump re-encodes the tree. Without --out it prints to stdout in --format
(text by default); with --out the format follows the file extension unless
--format is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.loadTree()
			if err != nil {
				return err
			}
			f := tree.FormatText
			if a.outPath != "" {
				f = tree.FormatFor(a.outPath)
			}
			if cmd.Flags().Changed("format") {
				if f, err = tree.ParseFormat(format); err != nil {
					return err
				}
			}
			data, err := tree.Marshal(root, f)
			if err != nil {
				return err
			}
			if a.outPath == "" {
				_, err = a.out.Write(data)
				return err
			}
			if err := os.WriteFile(a.outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", a.outPath, err)
			}
			a.logger.Info("tree written", "path", a.outPath, "format", string(f))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "text, yaml or json")
	return cmd
}
