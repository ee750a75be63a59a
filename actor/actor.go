// Package actor holds the per-entity identity components every simulated
// actor and player carries, plus ownership queries over them.
package actor

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// Actor identifies an entity as an instance of a ruleset actor type.
type Actor struct {
	Type     string
	Owner    ecs.Entity
	Location component.CPos
	Dead     bool
	InWorld  bool
}

// Player marks the player actor that owns other actors.
type Player struct {
	InternalName string
	Name         string
	Faction      string
	Color        component.Color
	Spawn        int
	Team         int
	BotType      string
	NonCombatant bool
}

// IsBot reports whether the player is controlled by an AI.
func (p *Player) IsBot() bool {
	return p != nil && p.BotType != ""
}

var ActorComponent = component.NewComponent[Actor]()
var PlayerComponent = component.NewComponent[Player]()

// Living reports whether e is an actor that is alive and in the world.
func Living(w *ecs.World, e ecs.Entity) bool {
	a, ok := ecs.Get(w, e, ActorComponent.Kind())
	return ok && !a.Dead && a.InWorld
}

// OwnerOf returns the owning player entity of e.
func OwnerOf(w *ecs.World, e ecs.Entity) (ecs.Entity, bool) {
	a, ok := ecs.Get(w, e, ActorComponent.Kind())
	if !ok {
		return 0, false
	}
	return a.Owner, true
}

// ForEachOwned visits every living, in-world actor owned by owner.
func ForEachOwned(w *ecs.World, owner ecs.Entity, fn func(e ecs.Entity, a *Actor)) {
	ecs.ForEach(w, ActorComponent.Kind(), func(e ecs.Entity, a *Actor) {
		if a.Owner != owner || a.Dead || !a.InWorld {
			return
		}
		fn(e, a)
	})
}

// Owned returns the living, in-world actors owned by owner.
func Owned(w *ecs.World, owner ecs.Entity) []ecs.Entity {
	var out []ecs.Entity
	ForEachOwned(w, owner, func(e ecs.Entity, _ *Actor) {
		out = append(out, e)
	})
	return out
}

// PlayerByName finds a player entity by internal name.
func PlayerByName(w *ecs.World, internalName string) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	ecs.ForEach(w, PlayerComponent.Kind(), func(e ecs.Entity, p *Player) {
		if !ok && p.InternalName == internalName {
			found, ok = e, true
		}
	})
	return found, ok
}
