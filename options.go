package nexus

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/scigolib/nexus/internal/metrics"
)

// Option configures a File when it is opened.
// This follows the functional options pattern.
//
// Example:
//
//	root, err := nexus.Open("run.nxs",
//	    nexus.WithLogger(logrus.StandardLogger()),
//	    nexus.WithRegisterer(prometheus.DefaultRegisterer),
//	)
type Option func(*File) error

// WithLogger sets the logger used for debug tracing of opens, cursor
// reseats and buffer allocations.
//
// Default: a logger that discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(f *File) error {
		if log == nil {
			return errors.New("nil logger")
		}
		f.log = log
		return nil
	}
}

// WithRegisterer exports the file's counters on reg.
//
// Several files may share one registerer; they then share counters.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	root, err := nexus.OpenService(svc, nexus.WithRegisterer(reg))
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(f *File) error {
		c, err := metrics.New(reg)
		if err != nil {
			return err
		}
		f.metrics = c
		return nil
	}
}

// WithMetrics uses an existing collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(f *File) error {
		f.metrics = c
		return nil
	}
}
