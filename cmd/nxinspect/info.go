package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file> <dataset>",
		Short: "Show a dataset descriptor",
		Long: `The info command opens a dataset without reading its values and
prints its element type, rank, dimensions and attributes.

Example:
  nxinspect info run.nxs /entry/data/counts
  nxinspect info run.nxs /entry/data/counts --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type datasetReport struct {
	Path       string      `json:"path"`
	Type       string      `json:"type"`
	Rank       int         `json:"rank"`
	Dims       []int       `json:"dims"`
	Attributes []attribute `json:"attributes,omitempty"`
}

func runInfo(args []string) error {
	root, err := openRoot(args[0])
	if err != nil {
		return err
	}
	defer root.Close()

	dir, name := splitObjectPath(args[1])
	g, err := openGroupPath(root, dir)
	if err != nil {
		return err
	}
	d, err := g.OpenDatasetAny(name)
	if err != nil {
		return err
	}

	report := datasetReport{
		Path:       d.Path(),
		Type:       d.Type().String(),
		Rank:       d.Rank(),
		Dims:       d.Info().Shape(),
		Attributes: attributeList(d.Attributes().Names(), d.Attributes().Values()),
	}
	if jsonOut {
		return printJSON(report)
	}

	fmt.Fprintf(out, "Path: %s\n", report.Path)
	fmt.Fprintf(out, "Type: %s\n", report.Type)
	fmt.Fprintf(out, "Rank: %d\n", report.Rank)
	fmt.Fprintf(out, "Dims: %v\n", report.Dims)
	for _, a := range report.Attributes {
		fmt.Fprintf(out, "  @%s = %s\n", a.Name, a.Value)
	}
	return nil
}

func attributeList(names, values []string) []attribute {
	list := make([]attribute, len(names))
	for i := range names {
		list[i] = attribute{Name: names[i], Value: values[i]}
	}
	return list
}
