package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scigolib/nexus"
)

var treeDepth int

func init() {
	rootCmd.AddCommand(newTreeCmd())
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <file> [group]",
		Short: "Print the group tree",
		Long: `The tree command prints groups with their NeXus class and datasets
with their element type and dimensions, starting at the root or at the given
group.

Example:
  nxinspect tree run.nxs
  nxinspect tree run.nxs /entry/instrument --depth 1
  nxinspect tree run.nxs --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args)
		},
	}
	cmd.Flags().IntVar(&treeDepth, "depth", -1, "Maximum depth below the start group, 0 for unlimited (default from config)")
	return cmd
}

type treeNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Class    string      `json:"class,omitempty"`
	Type     string      `json:"type,omitempty"`
	Dims     []int       `json:"dims,omitempty"`
	Error    bool        `json:"error,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

func runTree(args []string) error {
	root, err := openRoot(args[0])
	if err != nil {
		return err
	}
	defer root.Close()

	start := "/"
	if len(args) == 2 {
		start = args[1]
	}
	g, err := openGroupPath(root, start)
	if err != nil {
		return err
	}

	depth := cfg.Tree.MaxDepth
	if treeDepth >= 0 {
		depth = treeDepth
	}
	node, err := walkGroup(g, depth, 0)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(node)
	}
	printTree(node, 0)
	return nil
}

// walkGroup collects g and its descendants down to maxDepth levels below
// the start group. Subgroups are opened locally from their open parent.
func walkGroup(g *nexus.Group, maxDepth, depth int) (*treeNode, error) {
	n := &treeNode{Name: g.Name(), Path: g.Path(), Class: g.NXClass()}
	if maxDepth > 0 && depth >= maxDepth {
		return n, nil
	}

	for _, e := range g.Groups() {
		child, err := g.OpenSubgroup(e.Name, "")
		if err != nil {
			return nil, err
		}
		cn, err := walkGroup(child, maxDepth, depth+1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}
	for _, info := range g.Datasets() {
		dn := &treeNode{Name: info.Name, Path: strings.TrimSuffix(g.Path(), "/") + "/" + info.Name}
		if info.OK() {
			dn.Type = info.Type.String()
			dn.Dims = info.Shape()
		} else {
			dn.Error = true
		}
		n.Children = append(n.Children, dn)
	}
	return n, nil
}

func printTree(n *treeNode, indent int) {
	pad := strings.Repeat("  ", indent)
	switch {
	case n.Error:
		fmt.Fprintf(out, "%s%s (unreadable)\n", pad, n.Name)
	case n.Type != "":
		fmt.Fprintf(out, "%s%s %s%v\n", pad, n.Name, n.Type, n.Dims)
	case n.Class != "":
		fmt.Fprintf(out, "%s%s [%s]\n", pad, n.Name, n.Class)
	default:
		fmt.Fprintf(out, "%s%s\n", pad, n.Name)
	}
	for _, c := range n.Children {
		printTree(c, indent+1)
	}
}
