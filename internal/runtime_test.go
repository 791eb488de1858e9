package internal

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeHeights(t *testing.T) {
	t.Run("stay bounded in a feedback loop", func(t *testing.T) {
		config := DefaultConfig()
		config.Logger = slog.New(slog.DiscardHandler)
		config.MaxPasses = 50
		r := NewRuntime(config)

		enabled := r.NewSignal(false)

		var y *Computed
		x := r.NewComputed(func() any {
			if enabled.Read().(bool) {
				return y.Read().(int) + 1
			}
			return 0
		})
		y = r.NewComputed(func() any { return x.Read().(int) + 1 })

		enabled.Write(true)
		for range 20 {
			r.Flush()
		}

		assert.Equal(t, 21, r.Stats().CycleWarnings)
		assert.LessOrEqual(t, x.GetHeight(), r.maxHeight())
		assert.LessOrEqual(t, y.GetHeight(), r.maxHeight())
		assert.Len(t, r.heap.nodes, 64)
	})

	t.Run("follow a chain", func(t *testing.T) {
		r := NewRuntime(DefaultConfig())

		s := r.NewSignal(1)
		a := r.NewComputed(func() any { return s.Read().(int) + 1 })
		b := r.NewComputed(func() any { return a.Read().(int) + 1 })
		c := r.NewComputed(func() any { return b.Read().(int) + 1 })

		assert.Equal(t, 0, s.GetHeight())
		assert.Equal(t, 1, a.GetHeight())
		assert.Equal(t, 2, b.GetHeight())
		assert.Equal(t, 3, c.GetHeight())
	})
}
