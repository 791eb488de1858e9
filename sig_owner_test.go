package sig

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwner(t *testing.T) {
	t.Run("runs function and disposes", func(t *testing.T) {
		rt := NewRuntime()
		log := []string{}

		o := NewOwner(rt)

		o.Run(func() error {
			NewEffect(rt, func() {
				log = append(log, "effect")

				rt.OnCleanup(func() { log = append(log, "cleanup") })
			})

			return nil
		})

		log = append(log, "ran")
		o.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"effect",
			"ran",
			"cleanup",
			"disposed",
		}, log)
	})

	t.Run("returns the function error", func(t *testing.T) {
		rt := NewRuntime()
		errBoom := errors.New("boom")

		err := NewOwner(rt).Run(func() error { return errBoom })
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("nested owners", func(t *testing.T) {
		rt := NewRuntime()
		log := []string{}

		o := NewOwner(rt)
		o.OnDispose(func() {
			log = append(log, "parent disposed")
		})

		o.Run(func() error {
			NewOwner(rt).OnDispose(func() {
				log = append(log, "child disposed")
			})

			return nil
		})

		o.Dispose()

		assert.Equal(t, []string{
			"child disposed",
			"parent disposed",
		}, log)
	})

	t.Run("sibling effects disposal order", func(t *testing.T) {
		rt := NewRuntime()
		log := []string{}

		o := NewOwner(rt)

		o.Run(func() error {
			rt.OnCleanup(func() {
				log = append(log, "cleanup")
			})

			NewEffect(rt, func() {
				log = append(log, "running first")

				NewEffect(rt, func() {
					log = append(log, "running nested")
					rt.OnCleanup(func() { log = append(log, "cleanup nested") })
				})

				rt.OnCleanup(func() { log = append(log, "cleanup first") })
			})

			NewEffect(rt, func() {
				log = append(log, "running second")
				rt.OnCleanup(func() { log = append(log, "cleanup second") })
			})

			return nil
		})

		log = append(log, "ran")
		o.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"running first",
			"running nested",
			"running second",
			"ran",
			"cleanup second",
			"cleanup nested",
			"cleanup first",
			"cleanup",
			"disposed",
		}, log)
	})

	t.Run("cleanups run once, dispose hooks every time", func(t *testing.T) {
		rt := NewRuntime()
		log := []string{}

		o := NewOwner(rt)
		o.OnCleanup(func() { log = append(log, "cleanup") })
		o.OnDispose(func() { log = append(log, "dispose") })

		o.Dispose()
		o.Dispose()

		assert.Equal(t, []string{"cleanup", "dispose", "dispose"}, log)
	})

	t.Run("catches panics with OnError", func(t *testing.T) {
		rt := NewRuntime()
		log := []string{}

		o := NewOwner(rt)
		o.OnError(func(err error) {
			log = append(log, fmt.Sprintf("caught %v", err))
		})

		var errSignal *Signal[error]

		o.Run(func() error {
			// should propagate if owner has no error listener
			NewOwner(rt).Run(func() error {
				errSignal = NewSignal[error](rt, nil)

				NewEffect(rt, func() {
					if e := errSignal.Read(); e != nil {
						panic(e)
					}
				})

				return nil
			})

			return nil
		})

		// check if panic in effects are caught
		errSignal.Write(errors.New("oops"))

		assert.Equal(t, []string{
			"caught oops",
		}, log)
	})

	t.Run("catches panics in Run", func(t *testing.T) {
		rt := NewRuntime()
		var caught error

		o := NewOwner(rt)
		o.OnError(func(err error) { caught = err })

		err := o.Run(func() error {
			panic("boom")
		})

		assert.NoError(t, err)
		var perr *PanicError
		require.ErrorAs(t, caught, &perr)
		assert.Equal(t, "boom", perr.Value)
	})

	t.Run("re-raises panics without a catcher", func(t *testing.T) {
		rt := NewRuntime()

		assert.PanicsWithValue(t, "boom", func() {
			NewOwner(rt).Run(func() error {
				panic("boom")
			})
		})
	})

	t.Run("uncaught failures go to the error handler", func(t *testing.T) {
		var handled error
		rt := NewRuntime(WithErrorHandler(func(err error) { handled = err }))

		o := NewOwner(rt)
		o.Run(func() error {
			NewEffect(rt, func() { panic(errors.New("oops")) })
			return nil
		})

		var cerr *ComputationError
		require.ErrorAs(t, handled, &cerr)
		assert.Equal(t, KindEffect, cerr.Kind)
		assert.EqualError(t, cerr.Err, "oops")
	})

	t.Run("disposal prevents effect re-runs", func(t *testing.T) {
		rt := NewRuntime()
		log := []int{}

		o := NewOwner(rt)

		count := NewSignal(rt, 0)

		o.Run(func() error {
			NewEffect(rt, func() {
				log = append(log, count.Read())
			})

			return nil
		})

		count.Write(1)
		o.Dispose()

		// this should not trigger the effect
		count.Write(2)

		assert.Equal(t, []int{0, 1}, log)
	})

	t.Run("disposal during effect execution", func(t *testing.T) {
		rt := NewRuntime()
		log := []int{}

		o := NewOwner(rt)

		count := NewSignal(rt, 0)

		NewEffect(rt, func() {
			if count.Read() > 0 {
				o.Dispose()
			}
		})

		o.Run(func() error {
			NewEffect(rt, func() {
				log = append(log, count.Read())
			})

			return nil
		})

		count.Write(1)

		assert.Equal(t, []int{0}, log)
	})
}
