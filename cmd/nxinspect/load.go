package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scigolib/nexus"
)

var (
	loadBlock   int
	loadI       int
	loadJ       int
	loadIterate bool
)

func init() {
	rootCmd.AddCommand(newLoadCmd())
}

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <file> <dataset>",
		Short: "Load a dataset or one chunk of it",
		Long: `The load command reads values as float64. Without --i it loads the whole
dataset; with --i (and --j) it loads one chunk:

  without --j: outer slices [i, i+block), trailing axes in full
  with --j:    slice i, second-axis indices [j, j+block) (rank 2-4)

--iterate walks the dataset chunk by chunk instead.

Example:
  nxinspect load run.nxs /entry/data/tof --i 0 --block 100
  nxinspect load run.nxs /entry/data/counts --i 2 --block 1
  nxinspect load run.nxs /entry/data/tof --iterate --block 1000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd.Context(), args)
		},
	}
	cmd.Flags().IntVar(&loadBlock, "block", 0, "Chunk length (default from config)")
	cmd.Flags().IntVar(&loadI, "i", -1, "Outer index; negative loads everything")
	cmd.Flags().IntVar(&loadJ, "j", -1, "Second index; negative selects the whole slice")
	cmd.Flags().BoolVar(&loadIterate, "iterate", false, "Print every chunk of the dataset")
	return cmd
}

type loadReport struct {
	Path   string    `json:"path"`
	Offset int       `json:"offset"`
	Dims   []int     `json:"dims"`
	Values []float64 `json:"values"`
}

func runLoad(ctx context.Context, args []string) error {
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
	d, err := nexus.OpenDataset[float64](g, name)
	if err != nil {
		return err
	}

	block := loadBlock
	if block <= 0 {
		block = cfg.Load.Blocksize
	}
	if loadIterate {
		return iterateChunks(ctx, d, block)
	}

	if err := d.LoadChunk(block, loadI, loadJ); err != nil {
		return err
	}
	offset := loadI
	if offset < 0 {
		offset = 0
	}
	return printChunk(d, offset)
}

func iterateChunks(ctx context.Context, d *nexus.TypedDataset[float64], block int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	it, err := d.ChunkIterator(ctx, block)
	if err != nil {
		return err
	}
	it.OnProgress(func(current, total int) {
		logger.WithFields(logrus.Fields{"path": d.Path(), "chunk": current, "total": total}).Debug("chunk loaded")
	})
	for it.Next() {
		if _, err := it.Chunk(); err != nil {
			return err
		}
		if err := printChunk(d, it.Offset()); err != nil {
			return err
		}
	}
	return it.Err()
}

func printChunk(d *nexus.TypedDataset[float64], offset int) error {
	values, err := d.Data()
	if err != nil {
		return err
	}
	report := loadReport{Path: d.Path(), Offset: offset, Dims: d.LoadedDims(), Values: values}
	if jsonOut {
		return printJSON(report)
	}
	fmt.Fprintf(out, "%s @%d %v: %v\n", report.Path, report.Offset, report.Dims, report.Values)
	return nil
}
