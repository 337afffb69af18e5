package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

func newDumpCmd(opts *options) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "dump <document>",
		Short: "Build a document and print its node tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			l, err := newLoader(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			res, err := l.LoadFile(args[0])
			if err != nil {
				return err
			}
			writeResult(cmd.OutOrStdout(), res)
			if strict && len(res.Diagnostics) > 0 {
				return fmt.Errorf("%s: %d problem(s)", args[0], len(res.Diagnostics))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero if the build reported problems")
	return cmd
}

// writeResult prints the tree under res.Root followed by its diagnostics.
func writeResult(w io.Writer, res *canopy.Result) {
	if res.Root == nil {
		fmt.Fprintln(w, "(no root)")
	} else {
		writeTree(w, res.Root)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(w, "! %s %s: %v\n", d.Kind, d.Path, d.Err)
	}
}

// writeTree prints one line per node, indented by depth.
func writeTree(w io.Writer, root *canopy.Node) {
	root.Walk(func(n *canopy.Node, depth int) bool {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Kind)
		if n.Name != "" {
			fmt.Fprintf(&b, " %q", n.Name)
		}
		if n.Tag != canopy.NoTag {
			fmt.Fprintf(&b, " tag=%d", n.Tag)
		}
		wx, wy := n.LocalToWorld(n.AnchorX*n.Width, n.AnchorY*n.Height)
		fmt.Fprintf(&b, " pos=(%g,%g) world=(%g,%g)", n.X, n.Y, wx, wy)
		if n.Width != 0 || n.Height != 0 {
			fmt.Fprintf(&b, " size=%gx%g", n.Width, n.Height)
		}
		if n.Source != "" {
			fmt.Fprintf(&b, " src=%s", n.Source)
		}
		fmt.Fprintln(w, b.String())
		return true
	})
}
