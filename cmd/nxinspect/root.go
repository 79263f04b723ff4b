// Command nxinspect browses NeXus files: the group tree, dataset descriptors,
// attributes and chunked loads.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scigolib/nexus"
	"github.com/scigolib/nexus/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOut    bool
	showStats  bool

	cfg      = config.Default()
	logger   = logrus.New()
	registry = prometheus.NewRegistry()

	out      io.Writer = os.Stdout
	openFile           = nexus.Open
)

var rootCmd = &cobra.Command{
	Use:   "nxinspect",
	Short: "Inspect NeXus files",
	Long: `nxinspect reads HDF5 NeXus files through the nexus classes: it prints
the group tree, dataset descriptors and attributes, and loads whole datasets
or chunks of them.

Settings come from --config (YAML) and NXINSPECT_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if showStats {
			return printStats()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "Print service call counters after the command")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and configures the logger.
func setup() error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		c.Log.Level = logrus.DebugLevel.String()
	}
	logger.SetOutput(os.Stderr)
	if err := c.Configure(logger); err != nil {
		return err
	}
	cfg = c
	return nil
}

// openRoot opens file with the command's logger and counters.
func openRoot(file string) (*nexus.Root, error) {
	root, err := openFile(file,
		nexus.WithLogger(logger.WithField("file", file)),
		nexus.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	return root, nil
}

// openGroupPath descends from root to the group at p, one local open per
// path segment.
func openGroupPath(root *nexus.Root, p string) (*nexus.Group, error) {
	g := root.Group
	for _, name := range strings.Split(strings.Trim(path.Clean("/"+p), "/"), "/") {
		if name == "" {
			continue
		}
		child, err := g.OpenSubgroup(name, "")
		if err != nil {
			return nil, err
		}
		g = child
	}
	return g, nil
}

// splitObjectPath returns the parent group and last name of p.
func splitObjectPath(p string) (dir, name string) {
	p = path.Clean("/" + p)
	dir, name = path.Split(p)
	if dir != "/" {
		dir = strings.TrimSuffix(dir, "/")
	}
	return dir, name
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printStats() error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			fmt.Fprintf(out, "%s %g\n", name, m.GetCounter().GetValue())
		}
	}
	return nil
}
