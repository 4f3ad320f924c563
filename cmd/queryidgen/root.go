// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canonical/querykit/internal/gen"
)

// RootOptions holds the flags of queryidgen.
type RootOptions struct {
	Output string
	List   bool
}

// NewRootCommand creates the queryidgen command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "queryidgen [flags] file.go...",
		Short: "Generate query ID methods for composite expressions",
		Long: "queryidgen reads Go source files and, for every struct type marked with\n" +
			"//queryid:derive, writes QueryID and HasStaticQueryID methods composed\n" +
			"from the type's own tag and the identities of its fields.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, types, err := parseFiles(args)
			if err != nil {
				return err
			}
			if opts.List {
				return listTypes(cmd.OutOrStdout(), types)
			}
			if len(types) == 0 {
				return errors.New("no types marked //queryid:derive")
			}
			src, err := gen.Generate(pkg, types)
			if err != nil {
				return err
			}
			out := opts.Output
			if !filepath.IsAbs(out) {
				out = filepath.Join(filepath.Dir(args[0]), out)
			}
			if err := os.WriteFile(out, src, 0o644); err != nil {
				return errors.Wrap(err, "cannot write output")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d types to %s\n", len(types), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "queryid_gen.go", "output file, relative to the directory of the first input")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list derived types instead of writing code")

	return cmd
}

// parseFiles parses every file in names, which must all belong to the same
// package, and returns the derived types in order.
func parseFiles(names []string) (string, []gen.Type, error) {
	var pkg string
	var types []gen.Type
	for _, name := range names {
		file, err := gen.ParseFile(name, nil)
		if err != nil {
			return "", nil, err
		}
		if pkg == "" {
			pkg = file.Package
		} else if pkg != file.Package {
			return "", nil, errors.Errorf("cannot mix packages %s and %s", pkg, file.Package)
		}
		types = append(types, file.Types...)
	}
	return pkg, types, nil
}

// listTypes writes a table of the derived types and their constituents.
func listTypes(w io.Writer, types []gen.Type) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"type", "field", "field type", "contributes"})
	for _, t := range types {
		if len(t.Fields) == 0 {
			table.Append([]string{t.Name, "", "", "tag only"})
			continue
		}
		for _, f := range t.Fields {
			table.Append([]string{t.Name, f.Name, f.Type, f.Kind.String()})
		}
	}
	table.Render()
	return nil
}
