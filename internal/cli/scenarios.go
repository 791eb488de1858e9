package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	sig "github.com/AnatoleLucet/signalgraph"
	"github.com/AnatoleLucet/signalgraph/internal/demo"
)

// NewToggleCommand creates the toggle command.
func NewToggleCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle CLICKS",
		Short: "Flip a bool signal provided through a context",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = withCount(opts, demo.Toggle)

	return cmd
}

// NewControlledCommand creates the controlled command.
func NewControlledCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "controlled VALUE...",
		Short: "Write every typed value to the name signal",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = withArgs(opts, demo.Controlled)

	return cmd
}

// NewUncontrolledCommand creates the uncontrolled command.
func NewUncontrolledCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uncontrolled VALUE...",
		Short: "Buffer typed values and submit the last one",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = withArgs(opts, demo.Uncontrolled)

	return cmd
}

// NewOddCommand creates the odd command.
func NewOddCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "odd NUMBER...",
		Short: "Render a message whenever the value turns odd",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = withArgs(opts, demo.Odd)

	return cmd
}

// NewNumericCommand creates the numeric command.
func NewNumericCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "numeric INPUT...",
		Short: "Parse inputs behind an error boundary",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = withArgs(opts, demo.Numeric)

	return cmd
}

// NewProgressCommand creates the progress command.
func NewProgressCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress STEPS",
		Short: "Advance a progress bar clamped to 100",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = withCount(opts, demo.Progress)

	return cmd
}

func withArgs(opts *RootOptions, run func(*sig.Runtime, io.Writer, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runScenario(opts, func(rt *sig.Runtime, w io.Writer) error {
			return run(rt, w, args)
		})(cmd, args)
	}
}

// withCount parses the single argument as a non-negative count.
func withCount(opts *RootOptions, run func(*sig.Runtime, io.Writer, int) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid count %q: must be a non-negative integer", args[0])
		}

		return runScenario(opts, func(rt *sig.Runtime, w io.Writer) error {
			return run(rt, w, n)
		})(cmd, args)
	}
}
