package system

import (
	"github.com/milk9111/skirmish/actor"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/trait"
)

// TraitTickSystem ticks the enabled traits of every living actor. Players
// are ticked too; they are never in the world but never die either.
type TraitTickSystem struct{}

func NewTraitTickSystem() *TraitTickSystem {
	return &TraitTickSystem{}
}

func (s *TraitTickSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, trait.SetComponent.Kind(), func(e ecs.Entity, set *trait.Set) {
		if a, ok := ecs.Get(w, e, actor.ActorComponent.Kind()); ok && a.Dead {
			return
		}
		set.Tick(w)
	})
}
