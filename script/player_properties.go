package script

import (
	"fmt"

	"github.com/milk9111/skirmish/actor"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/trait"
)

// PlayerProperties is the receiver of the Player group for one player.
type PlayerProperties struct {
	ctx    *Context
	player ecs.Entity

	// constructed flips in a frame-end task queued at bind time, after
	// every trait of the world was created.
	constructed bool
	ai          *trait.BotAI
	aiSet       *trait.Set
	aiRevision  uint64
	aiResolved  bool
}

func bindPlayer(ctx *Context, e ecs.Entity) (*PlayerProperties, bool) {
	if !ecs.Has(ctx.World, e, actor.PlayerComponent.Kind()) {
		return nil, false
	}
	p := &PlayerProperties{ctx: ctx, player: e}
	ctx.World.AddFrameEndTask(func(*ecs.World) error {
		p.constructed = true
		return nil
	})
	return p, true
}

func (p *PlayerProperties) info() (*actor.Player, error) {
	info, ok := ecs.Get(p.ctx.World, p.player, actor.PlayerComponent.Kind())
	if !ok {
		return nil, &BindingError{Group: GroupPlayer, Err: ErrStaleEntity}
	}
	return info, nil
}

// botAI returns the player's first enabled AI. The lookup is cached until
// the trait set changes.
func (p *PlayerProperties) botAI() (*trait.BotAI, bool) {
	if !p.constructed {
		return nil, false
	}
	set, ok := trait.SetOf(p.ctx.World, p.player)
	if !ok {
		return nil, false
	}
	if !p.aiResolved || p.aiSet != set || p.aiRevision != set.Revision() {
		p.ai, _ = trait.FirstEnabled[*trait.BotAI](set)
		p.aiSet = set
		p.aiRevision = set.Revision()
		p.aiResolved = true
	}
	return p.ai, p.ai != nil
}

func (p *PlayerProperties) str(get func(*actor.Player) string) (Value, error) {
	info, err := p.info()
	if err != nil {
		return Value{}, err
	}
	return String(get(info)), nil
}

func (p *PlayerProperties) InternalName() (Value, error) {
	return p.str(func(i *actor.Player) string { return i.InternalName })
}

func (p *PlayerProperties) Name() (Value, error) {
	return p.str(func(i *actor.Player) string { return i.Name })
}

func (p *PlayerProperties) Faction() (Value, error) {
	return p.str(func(i *actor.Player) string { return i.Faction })
}

func (p *PlayerProperties) Color() (Value, error) {
	info, err := p.info()
	if err != nil {
		return Value{}, err
	}
	return ColorValue(info.Color), nil
}

func (p *PlayerProperties) Spawn() (Value, error) {
	info, err := p.info()
	if err != nil {
		return Value{}, err
	}
	return Int(info.Spawn), nil
}

func (p *PlayerProperties) Team() (Value, error) {
	info, err := p.info()
	if err != nil {
		return Value{}, err
	}
	return Int(info.Team), nil
}

func (p *PlayerProperties) IsBot() (Value, error) {
	info, err := p.info()
	if err != nil {
		return Value{}, err
	}
	return Bool(info.IsBot()), nil
}

func (p *PlayerProperties) IsNonCombatant() (Value, error) {
	info, err := p.info()
	if err != nil {
		return Value{}, err
	}
	return Bool(info.NonCombatant), nil
}

// IsLocalPlayer compares against the render player, falling back to the
// local player when nothing is being rendered.
func (p *PlayerProperties) IsLocalPlayer() (Value, error) {
	local := p.ctx.RenderPlayer
	if !local.Valid() {
		local = p.ctx.LocalPlayer
	}
	return Bool(local.Valid() && local == p.player), nil
}

func (p *PlayerProperties) GetActors() (Value, error) {
	return Actors(actor.Owned(p.ctx.World, p.player)), nil
}

// GetGroundAttackers returns owned ground units with an enabled attack.
func (p *PlayerProperties) GetGroundAttackers() (Value, error) {
	var out []ecs.Entity
	actor.ForEachOwned(p.ctx.World, p.player, func(e ecs.Entity, a *actor.Actor) {
		info, ok := p.ctx.Rules.Actor(a.Type)
		if !ok || !info.HasCapability(trait.CapMobile) {
			return
		}
		if _, ok := trait.FirstEnabledOn(p.ctx.World, e, trait.CapAttack); ok {
			out = append(out, e)
		}
	})
	return Actors(out), nil
}

func (p *PlayerProperties) GetActorsByType(actorType string) (Value, error) {
	var out []ecs.Entity
	actor.ForEachOwned(p.ctx.World, p.player, func(e ecs.Entity, a *actor.Actor) {
		if a.Type == actorType {
			out = append(out, e)
		}
	})
	return Actors(out), nil
}

func (p *PlayerProperties) HasPrerequisites(prerequisites []string) (Value, error) {
	set, ok := trait.SetOf(p.ctx.World, p.player)
	if !ok {
		return Bool(false), nil
	}
	tt, ok := trait.FirstEnabled[*trait.TechTree](set)
	if !ok {
		return Bool(false), nil
	}
	return Bool(tt.HasPrerequisites(prerequisites)), nil
}

// QueueProductionItem defers a production request to the player's AI. It
// returns false, and queues nothing, for players without an enabled AI. The
// actor type is only checked once an AI is known.
func (p *PlayerProperties) QueueProductionItem(actorType string, cell component.CPos) (Value, error) {
	info, err := p.info()
	if err != nil {
		return Value{}, err
	}
	if !info.IsBot() {
		return Bool(false), nil
	}
	bot, ok := p.botAI()
	if !ok {
		return Bool(false), nil
	}
	if err := p.checkActorType(actorType); err != nil {
		return Value{}, err
	}
	player := p.player
	p.ctx.World.AddFrameEndTask(func(*ecs.World) error {
		if !bot.QueueProductionItem(actorType, cell) {
			return fmt.Errorf("player %s: production of %q at %s rejected", player, actorType, cell)
		}
		return nil
	})
	return Bool(true), nil
}

func (p *PlayerProperties) GetRandomBaseCenter() (Value, error) {
	bot, ok := p.botAI()
	if !ok {
		return Cell(component.CPos{}), nil
	}
	return Cell(bot.GetRandomBaseCenter()), nil
}

// PlayerGroup declares the Player property group.
func PlayerGroup() Group {
	return NewGroup(GroupPlayer, bindPlayer).
		Property("InternalName", "The player's internal name.", KindString, (*PlayerProperties).InternalName).
		Property("Name", "The player's display name.", KindString, (*PlayerProperties).Name).
		Property("Color", "The player's color.", KindColor, (*PlayerProperties).Color).
		Property("Race", "The player's faction.", KindString, (*PlayerProperties).Faction).
		Deprecated("Faction").
		Property("Faction", "The player's faction.", KindString, (*PlayerProperties).Faction).
		Property("Spawn", "The player's spawn point index.", KindInt, (*PlayerProperties).Spawn).
		Property("Team", "The player's team number.", KindInt, (*PlayerProperties).Team).
		Property("IsBot", "Returns true if the player is a bot.", KindBool, (*PlayerProperties).IsBot).
		Property("IsNonCombatant", "Returns true if the player is non combatant.", KindBool, (*PlayerProperties).IsNonCombatant).
		Property("IsLocalPlayer", "Returns true if this is the player controlled by this client.", KindBool, (*PlayerProperties).IsLocalPlayer).
		Method("GetActors", "Returns all living actors staying inside the world for this player.", KindActors, nil,
			func(p *PlayerProperties, _ []Value) (Value, error) { return p.GetActors() }).
		Method("GetGroundAttackers", "Returns all living ground units able to attack for this player.", KindActors, nil,
			func(p *PlayerProperties, _ []Value) (Value, error) { return p.GetGroundAttackers() }).
		Method("GetActorsByType", "Returns all living actors of the specified type of this player.", KindActors, []Kind{KindString},
			func(p *PlayerProperties, args []Value) (Value, error) {
				if err := p.checkActorType(args[0].Str); err != nil {
					return Value{}, err
				}
				return p.GetActorsByType(args[0].Str)
			}).
		Method("HasPrerequisites", "Check whether the player provides all of the given prerequisites.", KindBool, []Kind{KindStrings},
			func(p *PlayerProperties, args []Value) (Value, error) { return p.HasPrerequisites(args[0].Strings) }).
		Method("QueueProductionItem", "Ask the player's AI to produce an actor at a cell. Returns false without an AI.", KindBool, []Kind{KindString, KindCell},
			func(p *PlayerProperties, args []Value) (Value, error) {
				if err := p.checkActorType(args[0].Str); err != nil {
					return Value{}, err
				}
				return p.QueueProductionItem(args[0].Str, args[1].Cell)
			}).
		Method("GetRandomBaseCenter", "Returns a random base center suggested by the player's AI, or the origin cell.", KindCell, nil,
			func(p *PlayerProperties, _ []Value) (Value, error) { return p.GetRandomBaseCenter() }).
		Build()
}

// checkActorType resolves actorType against the ruleset. An unknown type is
// a binding error.
func (p *PlayerProperties) checkActorType(actorType string) error {
	if _, ok := p.ctx.Rules.Actor(actorType); !ok {
		return notFound(GroupPlayer, actorType)
	}
	return nil
}
