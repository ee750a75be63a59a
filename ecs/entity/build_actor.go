package entity

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/actor"
	"github.com/milk9111/skirmish/ai"
	"github.com/milk9111/skirmish/condition"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/rules"
	"github.com/milk9111/skirmish/trait"
)

var ErrUnknownOwner = errors.New("entity: unknown owner")

// BotCondition is asserted on a bot player's actor so rules can gate the
// matching bot_ai trait with requires_condition.
func BotCondition(botType string) string {
	return "bot." + botType
}

// Builder instantiates ruleset actor types as entities.
type Builder struct {
	Rules    *rules.Ruleset
	Planners ai.PlannerFactory
	Log      logrus.FieldLogger
}

func (b *Builder) logger() logrus.FieldLogger {
	if b.Log == nil {
		return logrus.StandardLogger()
	}
	return b.Log
}

// CreatePlayer builds the player actor for spec. The player entity owns
// itself and is not in the world.
func (b *Builder) CreatePlayer(w *ecs.World, spec rules.PlayerSpec) (ecs.Entity, error) {
	if _, ok := actor.PlayerByName(w, spec.InternalName); ok {
		return 0, fmt.Errorf("entity: duplicate player %q", spec.InternalName)
	}
	e := ecs.CreateEntity(w)
	player := &actor.Player{
		InternalName: spec.InternalName,
		Name:         spec.Name,
		Faction:      spec.Faction,
		Color:        spec.Color,
		Spawn:        spec.Spawn,
		Team:         spec.Team,
		BotType:      spec.Bot,
		NonCombatant: spec.NonCombatant,
	}
	if err := ecs.Add(w, e, actor.PlayerComponent.Kind(), player); err != nil {
		return 0, err
	}
	var initial []string
	if player.IsBot() {
		initial = append(initial, BotCondition(player.BotType))
	}
	if err := b.attach(w, e, e, rules.PlayerActorType, component.CPos{}, false, initial); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// CreateActor builds an in-world actor of actorType owned by owner.
func (b *Builder) CreateActor(w *ecs.World, actorType string, owner ecs.Entity, location component.CPos) (ecs.Entity, error) {
	if !ecs.Has(w, owner, actor.PlayerComponent.Kind()) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownOwner, owner)
	}
	e := ecs.CreateEntity(w)
	if err := b.attach(w, e, owner, actorType, location, true, nil); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// attach adds the actor component and the trait set, creating instances in
// declaration order, then starts the set so initial enables fire.
func (b *Builder) attach(w *ecs.World, e, owner ecs.Entity, actorType string, location component.CPos, inWorld bool, initial []string) error {
	info, ok := b.Rules.Actor(actorType)
	if !ok {
		return fmt.Errorf("%w: %q", rules.ErrUnknownActor, actorType)
	}
	log := b.logger().WithFields(logrus.Fields{"entity": e.String(), "actor": actorType})

	if err := ecs.Add(w, e, actor.ActorComponent.Kind(), &actor.Actor{
		Type:     actorType,
		Owner:    owner,
		Location: location,
		InWorld:  inWorld,
	}); err != nil {
		return err
	}

	conditions := condition.NewState()
	conditions.SetLogger(log)
	for _, name := range initial {
		conditions.AssertCondition(name)
	}
	set := trait.NewSet(e, conditions, log)
	tinit := &trait.Init{
		World:      w,
		Self:       e,
		Owner:      owner,
		ActorType:  actorType,
		Conditions: conditions,
		Planners:   b.Planners,
		Log:        log,
	}
	for _, entry := range info.Traits {
		inst := entry.Info.Create(tinit)
		if inst == nil {
			continue
		}
		set.Add(inst)
	}
	if err := ecs.Add(w, e, trait.ConditionsComponent.Kind(), conditions); err != nil {
		return err
	}
	if err := ecs.Add(w, e, trait.SetComponent.Kind(), set); err != nil {
		return err
	}
	set.Start()
	log.WithField("traits", set.Len()).Debug("entity: actor created")
	return nil
}

// Kill marks e dead and removes it from the world immediately; the entity
// itself is destroyed at the end of the tick so handles held by scripts
// keep resolving until then.
func Kill(w *ecs.World, e ecs.Entity) bool {
	a, ok := ecs.Get(w, e, actor.ActorComponent.Kind())
	if !ok || a.Dead {
		return false
	}
	a.Dead = true
	a.InWorld = false
	w.AddFrameEndTask(func(w *ecs.World) error {
		ecs.DestroyEntity(w, e)
		return nil
	})
	return true
}
