package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityHeap(t *testing.T) {
	newAt := func(r *Runtime, height int) *Computed {
		c := &Computed{ReactiveNode: r.newNode(KindMemo), r: r}
		c.height = height
		return c
	}

	t.Run("pops lowest height first, insertion order within a height", func(t *testing.T) {
		r := NewRuntime(DefaultConfig())
		h := NewHeap()

		a, b, c, d := newAt(r, 3), newAt(r, 1), newAt(r, 3), newAt(r, 2)
		for _, n := range []*Computed{a, b, c, d} {
			h.Insert(n)
		}
		assert.Equal(t, 4, h.Len())

		order := []*Computed{}
		h.Drain(func(n *Computed) { order = append(order, n) })

		assert.Equal(t, []*Computed{b, d, a, c}, order)
		assert.Equal(t, 0, h.Len())
	})

	t.Run("insert is idempotent", func(t *testing.T) {
		r := NewRuntime(DefaultConfig())
		h := NewHeap()

		a := newAt(r, 1)
		h.Insert(a)
		h.Insert(a)

		assert.Equal(t, 1, h.Len())
		assert.True(t, a.HasFlag(FlagInHeap))
	})

	t.Run("remove", func(t *testing.T) {
		r := NewRuntime(DefaultConfig())
		h := NewHeap()

		a, b, c := newAt(r, 1), newAt(r, 1), newAt(r, 1)
		h.Insert(a)
		h.Insert(b)
		h.Insert(c)

		h.Remove(b)
		h.Remove(b)
		assert.False(t, b.HasFlag(FlagInHeap))
		assert.Equal(t, []*Computed{a, c}, []*Computed{h.Pop(), h.Pop()})
		assert.Nil(t, h.Pop())
	})

	t.Run("move rebuckets queued nodes", func(t *testing.T) {
		r := NewRuntime(DefaultConfig())
		h := NewHeap()

		a, b := newAt(r, 1), newAt(r, 2)
		h.Insert(a)
		h.Insert(b)

		h.Move(a, 5)
		assert.Equal(t, 5, a.GetHeight())
		assert.Same(t, b, h.Pop())
		assert.Same(t, a, h.Pop())

		// not queued, only the height changes
		h.Move(b, 7)
		assert.Equal(t, 7, b.GetHeight())
		assert.Equal(t, 0, h.Len())
	})

	t.Run("grows past the initial buckets", func(t *testing.T) {
		r := NewRuntime(DefaultConfig())
		h := NewHeap()

		high := newAt(r, 500)
		low := newAt(r, 0)
		h.Insert(high)
		h.Insert(low)

		assert.Same(t, low, h.Pop())
		assert.Same(t, high, h.Pop())
	})

	t.Run("drain picks up nodes inserted while draining", func(t *testing.T) {
		r := NewRuntime(DefaultConfig())
		h := NewHeap()

		a, b := newAt(r, 2), newAt(r, 1)
		h.Insert(a)

		order := []*Computed{}
		h.Drain(func(n *Computed) {
			order = append(order, n)
			if n == a {
				h.Insert(b)
			}
		})

		assert.Equal(t, []*Computed{a, b}, order)
	})
}
