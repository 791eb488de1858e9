package internal

type EffectType int

const (
	EffectRender EffectType = iota
	EffectUser
)

func (t EffectType) String() string {
	if t == EffectRender {
		return "render"
	}
	return "user"
}

// NewEffect creates a computation with no value. It runs right away, then
// after the memos of every pass that touches one of its dependencies.
// Render effects of a pass run before user effects.
func (r *Runtime) NewEffect(typ EffectType, effect func()) *Computed {
	return r.newComputation(KindEffect, typ, func() any {
		effect()
		return nil
	})
}
