// Package demo holds small reactive programs driven from the command line.
// Each one builds its graph on the given runtime, feeds it the inputs in order
// and writes what its effects render to w.
package demo

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	sig "github.com/AnatoleLucet/signalgraph"
)

// ErrNoSetter is returned when the toggle button is rendered outside the provider.
var ErrNoSetter = errors.New("demo: toggle setter not provided")

// Toggle provides a bool signal through a context. A nested owner looks it up
// and flips it times times.
func Toggle(rt *sig.Runtime, w io.Writer, times int) error {
	setter := sig.NewContext[*sig.Signal[bool]](rt, nil)

	app := sig.NewOwner(rt)
	defer app.Dispose()

	return app.Run(func() error {
		toggled := sig.NewSignal(rt, false)
		setter.Set(toggled)

		sig.NewRenderEffect(rt, func() {
			fmt.Fprintf(w, "Toggled? %t\n", toggled.Read())
		})

		button := sig.NewOwner(rt)
		return button.Run(func() error {
			set := setter.Value()
			if set == nil {
				return ErrNoSetter
			}

			for range times {
				set.Update(func(v bool) bool { return !v })
			}
			return nil
		})
	})
}

// Controlled writes every value straight into the name signal.
func Controlled(rt *sig.Runtime, w io.Writer, values []string) error {
	app := sig.NewOwner(rt)
	defer app.Dispose()

	return app.Run(func() error {
		name := sig.NewSignal(rt, "Controlled")

		sig.NewRenderEffect(rt, func() {
			fmt.Fprintf(w, "Name is: %q\n", name.Read())
		})

		for _, v := range values {
			name.Write(v)
		}
		return nil
	})
}

// Uncontrolled buffers the values in a signal nothing subscribes to,
// and only submits the last one to the name.
func Uncontrolled(rt *sig.Runtime, w io.Writer, values []string) error {
	app := sig.NewOwner(rt)
	defer app.Dispose()

	return app.Run(func() error {
		name := sig.NewSignal(rt, "Uncontrolled")
		input := sig.NewSignal(rt, name.Peek())

		sig.NewRenderEffect(rt, func() {
			fmt.Fprintf(w, "Name is: %q\n", name.Read())
		})

		for _, v := range values {
			input.Write(v)
		}

		// submit
		name.Write(sig.Untrack(rt, input.Read))
		return nil
	})
}

// Odd derives a message from whether the value is odd. The effect only
// renders when the message changes, not on every value.
func Odd(rt *sig.Runtime, w io.Writer, values []string) error {
	numbers, err := parseAll(values)
	if err != nil {
		return err
	}

	app := sig.NewOwner(rt)
	defer app.Dispose()

	return app.Run(func() error {
		value := sig.NewSignal(rt, 0)
		isOdd := sig.NewComputed(rt, func() bool { return value.Read()%2 != 0 })
		message := sig.NewComputed(rt, func() string {
			if isOdd.Read() {
				return "Ding ding ding!"
			}
			return ""
		})

		sig.NewRenderEffect(rt, func() {
			fmt.Fprintf(w, "Message: %q\n", message.Read())
		})

		for _, n := range numbers {
			value.Write(n)
		}
		return nil
	})
}

type parsed struct {
	n   int
	err error
}

// Numeric parses each input. The effect rendering the number panics on a parse
// failure and an error boundary owner collects the failures into a signal
// rendered as a fallback. The next valid input clears them.
func Numeric(rt *sig.Runtime, w io.Writer, inputs []string) error {
	app := sig.NewOwner(rt)
	defer app.Dispose()

	return app.Run(func() error {
		value := sig.NewSignal(rt, parsed{})
		errs := sig.NewSignal[[]string](rt, nil).WithEqual(slices.Equal[[]string])

		sig.NewRenderEffect(rt, func() {
			list := errs.Read()
			if len(list) == 0 {
				return
			}

			fmt.Fprintln(w, "Not a number! Errors:")
			for _, msg := range list {
				fmt.Fprintf(w, "  - %s\n", msg)
			}
		})

		boundary := sig.NewOwner(rt)
		boundary.OnError(func(err error) {
			errs.Update(func(list []string) []string {
				return append(slices.Clone(list), err.Error())
			})
		})

		err := boundary.Run(func() error {
			number := sig.NewComputed(rt, func() int { return value.Read().n })
			failure := sig.NewComputed(rt, func() error { return value.Read().err })

			sig.NewRenderEffect(rt, func() {
				if err := failure.Read(); err != nil {
					panic(err)
				}

				errs.Write(nil)
				fmt.Fprintf(w, "You entered %d\n", number.Read())
			})
			return nil
		})
		if err != nil {
			return err
		}

		for _, in := range inputs {
			n, err := strconv.Atoi(strings.TrimSpace(in))
			value.Write(parsed{n: n, err: err})
		}
		return nil
	})
}

// ProgressMax is the value the progress bar is clamped to.
const ProgressMax = 100

const progressWidth = 10

// Progress advances a counter steps times. The bar is fed by a memo clamped
// to ProgressMax, so it stops rendering once full.
func Progress(rt *sig.Runtime, w io.Writer, steps int) error {
	app := sig.NewOwner(rt)
	defer app.Dispose()

	return app.Run(func() error {
		count := sig.NewSignal(rt, 0)
		progress := sig.NewComputed(rt, func() int {
			return min(count.Read()*10, ProgressMax)
		})

		sig.NewRenderEffect(rt, func() {
			p := progress.Read()
			filled := p * progressWidth / ProgressMax

			bar := strings.Repeat("#", filled) + strings.Repeat(".", progressWidth-filled)
			fmt.Fprintf(w, "[%s] %3d/%d\n", bar, p, ProgressMax)
		})

		for range steps {
			count.Update(func(n int) int { return n + 1 })
		}
		return nil
	})
}

func parseAll(values []string) ([]int, error) {
	numbers := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("demo: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}
