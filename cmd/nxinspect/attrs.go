package main

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/scigolib/nexus"
	"github.com/scigolib/nexus/fileservice"
)

func init() {
	rootCmd.AddCommand(newAttrsCmd())
}

func newAttrsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attrs <file> <path>",
		Short: "List the attributes of a group or dataset",
		Long: `The attrs command prints the attributes of the group or dataset at
path, in file order.

Example:
  nxinspect attrs run.nxs /entry
  nxinspect attrs run.nxs /entry/data/counts --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttrs(args)
		},
	}
	return cmd
}

func runAttrs(args []string) error {
	root, err := openRoot(args[0])
	if err != nil {
		return err
	}
	defer root.Close()

	attrs, err := objectAttributes(root, args[1])
	if err != nil {
		return err
	}
	list := attributeList(attrs.Names(), attrs.Values())
	if jsonOut {
		return printJSON(list)
	}
	for _, a := range list {
		fmt.Fprintf(out, "%s = %s\n", a.Name, a.Value)
	}
	return nil
}

// objectAttributes opens the group or dataset at p and returns its
// attributes.
func objectAttributes(root *nexus.Root, p string) (*nexus.Attributes, error) {
	if path.Clean("/"+p) == "/" {
		return root.Attributes(), nil
	}
	dir, name := splitObjectPath(p)
	g, err := openGroupPath(root, dir)
	if err != nil {
		return nil, err
	}
	switch {
	case g.ContainsGroup(name):
		child, err := g.OpenSubgroup(name, "")
		if err != nil {
			return nil, err
		}
		return child.Attributes(), nil
	case g.ContainsDataSet(name):
		d, err := g.OpenDatasetAny(name)
		if err != nil {
			return nil, err
		}
		return d.Attributes(), nil
	default:
		return nil, fmt.Errorf("%s: %w", p, fileservice.ErrNotFound)
	}
}
