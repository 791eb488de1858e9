package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	sig "github.com/AnatoleLucet/signalgraph"
	"github.com/AnatoleLucet/signalgraph/metrics"
	"github.com/AnatoleLucet/signalgraph/tracing"
)

// session is one command run: a runtime configured from the loaded config,
// plus the registry its metrics land in.
type session struct {
	rt       *sig.Runtime
	registry *prometheus.Registry
}

func newSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	c := opts.Config

	logger, err := c.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	s := &session{}

	var observers []sig.Observer
	if c.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		observers = append(observers, metrics.New(
			metrics.WithRegistry(s.registry),
			metrics.WithNamespace(c.Metrics.Namespace),
		))
	}
	if c.Tracing.Enabled {
		observers = append(observers, tracing.New(
			tracing.WithTracerName(c.Tracing.TracerName),
			tracing.WithContext(cmd.Context()),
		))
	}

	s.rt = sig.NewRuntime(
		sig.WithLogger(logger),
		sig.WithMaxPasses(c.Runtime.MaxPasses),
		sig.WithObserver(observers...),
	)

	return s, nil
}

// report prints the optional stats and metrics once the scenario is done.
func (s *session) report(w io.Writer, opts *RootOptions) error {
	if opts.Stats {
		if err := writeStats(w, opts.Format, s.rt.Stats()); err != nil {
			return err
		}
	}

	if s.registry == nil {
		return nil
	}

	families, err := s.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return nil
}

// runScenario wires a demo into a command body.
func runScenario(opts *RootOptions, run func(rt *sig.Runtime, w io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := run(s.rt, out); err != nil {
			return err
		}

		return s.report(out, opts)
	}
}
