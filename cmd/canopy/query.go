package main

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

func newQueryCmd(opts *options) *cobra.Command {
	var indent int
	cmd := &cobra.Command{
		Use:   "query <document> <jsonpath>",
		Short: "Print the records of a document matching a JSONPath selector",
		Long: `Query parses a document without building it and prints every object
matched by the selector, one JSON value per match.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			name, selector := args[0], args[1]
			data, err := canopy.NewDirSource(cfg.Root).ReadDocument(name)
			if err != nil {
				return err
			}
			rec, err := canopy.ParseDocument(data, canopy.FormatForPath(name), name)
			if err != nil {
				return err
			}
			matches, err := rec.Query(selector)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range matches {
				fmt.Fprintln(out, oj.JSON(m.Map(), &oj.Options{Indent: indent, Sort: true}))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&indent, "indent", 0, "JSON indentation")
	return cmd
}
