package script

import (
	"fmt"

	"github.com/milk9111/skirmish/actor"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/trait"
)

// ActorProperties is the receiver of the Actor group for one actor.
type ActorProperties struct {
	ctx  *Context
	self ecs.Entity
}

func bindActor(ctx *Context, e ecs.Entity) (*ActorProperties, bool) {
	if !ecs.Has(ctx.World, e, actor.ActorComponent.Kind()) {
		return nil, false
	}
	return &ActorProperties{ctx: ctx, self: e}, true
}

func (a *ActorProperties) info() (*actor.Actor, error) {
	info, ok := ecs.Get(a.ctx.World, a.self, actor.ActorComponent.Kind())
	if !ok {
		return nil, &BindingError{Group: GroupActor, Err: ErrStaleEntity}
	}
	return info, nil
}

func (a *ActorProperties) Type() (Value, error) {
	info, err := a.info()
	if err != nil {
		return Value{}, err
	}
	return String(info.Type), nil
}

func (a *ActorProperties) Owner() (Value, error) {
	info, err := a.info()
	if err != nil {
		return Value{}, err
	}
	return PlayerRef(info.Owner), nil
}

// IsDead is true for killed actors and for handles whose entity is gone.
func (a *ActorProperties) IsDead() (Value, error) {
	info, ok := ecs.Get(a.ctx.World, a.self, actor.ActorComponent.Kind())
	return Bool(!ok || info.Dead), nil
}

func (a *ActorProperties) IsInWorld() (Value, error) {
	info, ok := ecs.Get(a.ctx.World, a.self, actor.ActorComponent.Kind())
	return Bool(ok && info.InWorld), nil
}

func (a *ActorProperties) Location() (Value, error) {
	info, err := a.info()
	if err != nil {
		return Value{}, err
	}
	return Cell(info.Location), nil
}

// TooltipName is the world tooltip as seen by the render player, or "".
func (a *ActorProperties) TooltipName() (Value, error) {
	set, ok := trait.SetOf(a.ctx.World, a.self)
	if !ok {
		return String(""), nil
	}
	tp, ok := trait.WorldTooltip(set)
	if !ok {
		return String(""), nil
	}
	stance := actor.StanceBetween(a.ctx.World, a.ctx.RenderPlayer, tp.Owner())
	return String(tp.TooltipText().TooltipForPlayerStance(stance)), nil
}

func (a *ActorProperties) HasCondition(name string) (Value, error) {
	set, ok := trait.SetOf(a.ctx.World, a.self)
	if !ok {
		return Bool(false), nil
	}
	return Bool(set.Conditions().Active(name)), nil
}

// GrantCondition asserts name at the end of the tick.
func (a *ActorProperties) GrantCondition(name string) (Value, error) {
	if _, err := a.info(); err != nil {
		return Value{}, err
	}
	self := a.self
	a.ctx.World.AddFrameEndTask(func(w *ecs.World) error {
		set, ok := trait.SetOf(w, self)
		if !ok {
			return fmt.Errorf("grant %q: actor %s no longer exists", name, self)
		}
		set.Conditions().AssertCondition(name)
		return nil
	})
	return Nil(), nil
}

// RevokeCondition revokes name at the end of the tick. Revoking an inactive
// condition is reported as a task failure.
func (a *ActorProperties) RevokeCondition(name string) (Value, error) {
	if _, err := a.info(); err != nil {
		return Value{}, err
	}
	self := a.self
	a.ctx.World.AddFrameEndTask(func(w *ecs.World) error {
		set, ok := trait.SetOf(w, self)
		if !ok {
			return fmt.Errorf("revoke %q: actor %s no longer exists", name, self)
		}
		if !set.Conditions().RevokeCondition(name) {
			return fmt.Errorf("revoke %q on actor %s: condition is not active", name, self)
		}
		return nil
	})
	return Nil(), nil
}

func conditionArg(method string, args []Value) (string, error) {
	if args[0].Str == "" {
		return "", &ArgumentError{Group: GroupActor, Name: method, Index: 0, Reason: "condition name must not be empty"}
	}
	return args[0].Str, nil
}

// ActorGroup declares the Actor property group.
func ActorGroup() Group {
	return NewGroup(GroupActor, bindActor).
		Property("Type", "The type of the actor.", KindString, (*ActorProperties).Type).
		Property("Owner", "The player that owns the actor.", KindPlayer, (*ActorProperties).Owner).
		Property("IsDead", "Specifies whether the actor is alive or dead.", KindBool, (*ActorProperties).IsDead).
		Property("IsInWorld", "Specifies whether the actor is in the world.", KindBool, (*ActorProperties).IsInWorld).
		Property("Location", "The actor's cell position.", KindCell, (*ActorProperties).Location).
		Property("TooltipName", "The actor's tooltip text as seen by the rendering player.", KindString, (*ActorProperties).TooltipName).
		Method("HasCondition", "Returns true if the named condition is active on the actor.", KindBool, []Kind{KindString},
			func(a *ActorProperties, args []Value) (Value, error) { return a.HasCondition(args[0].Str) }).
		Method("GrantCondition", "Grant a condition at the end of the tick.", KindNil, []Kind{KindString},
			func(a *ActorProperties, args []Value) (Value, error) {
				name, err := conditionArg("GrantCondition", args)
				if err != nil {
					return Value{}, err
				}
				return a.GrantCondition(name)
			}).
		Method("RevokeCondition", "Revoke a previously granted condition at the end of the tick.", KindNil, []Kind{KindString},
			func(a *ActorProperties, args []Value) (Value, error) {
				name, err := conditionArg("RevokeCondition", args)
				if err != nil {
					return Value{}, err
				}
				return a.RevokeCondition(name)
			}).
		Build()
}
