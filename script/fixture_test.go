package script

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/milk9111/skirmish/ai"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/entity"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/rules"
)

type fixture struct {
	world   *ecs.World
	host    *Host
	hook    *test.Hook
	planner *ai.StaticPlanner
	human   ecs.Entity
	bot     ecs.Entity
	actors  map[string]ecs.Entity
	failed  []ecs.TaskError
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	rs, err := rules.LoadRuleset("default.yaml", nil)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}

	f := &fixture{
		world:   ecs.NewWorld(),
		hook:    hook,
		planner: ai.NewStaticPlanner(1, component.CPos{X: 12, Y: 40}),
		actors:  map[string]ecs.Entity{},
	}
	f.world.SetLogger(log)
	f.world.SetTaskErrorHandler(func(te ecs.TaskError) { f.failed = append(f.failed, te) })
	f.world.AddSystem(system.NewTraitTickSystem())

	b := &entity.Builder{
		Rules:    rs,
		Planners: func(ecs.Entity, string) ai.Planner { return f.planner },
		Log:      log,
	}
	f.human, err = b.CreatePlayer(f.world, rules.PlayerSpec{InternalName: "Multi0", Name: "Commander", Faction: "allies", Team: 1, Spawn: 1})
	if err != nil {
		t.Fatal(err)
	}
	f.bot, err = b.CreatePlayer(f.world, rules.PlayerSpec{InternalName: "Multi1", Name: "Bot", Faction: "soviet", Team: 2, Spawn: 2, Bot: "normal"})
	if err != nil {
		t.Fatal(err)
	}

	place := []struct {
		key, typ string
		owner    ecs.Entity
	}{
		{"yard", "construction_yard", f.human},
		{"rifleman", "rifleman", f.human},
		{"tank", "tank", f.human},
		{"barracks", "barracks", f.bot},
		{"engineer", "engineer", f.bot},
		{"enemy_rifleman", "rifleman", f.bot},
	}
	for i, p := range place {
		e, err := b.CreateActor(f.world, p.typ, p.owner, component.CPos{X: i, Y: i})
		if err != nil {
			t.Fatalf("create %s: %v", p.typ, err)
		}
		f.actors[p.key] = e
	}

	ctx := &Context{World: f.world, Rules: rs, LocalPlayer: f.human, RenderPlayer: f.human, Log: log}
	f.host = NewHost(DefaultRegistry(log), ctx)
	return f
}

func (f *fixture) player(t *testing.T, e ecs.Entity) *Bridge {
	t.Helper()
	b, err := f.host.Player(e)
	if err != nil {
		t.Fatalf("bind player: %v", err)
	}
	return b
}

func (f *fixture) actor(t *testing.T, key string) *Bridge {
	t.Helper()
	b, err := f.host.Actor(f.actors[key])
	if err != nil {
		t.Fatalf("bind actor %s: %v", key, err)
	}
	return b
}

func mustGet(t *testing.T, b *Bridge, name string) Value {
	t.Helper()
	v, err := b.Get(name)
	if err != nil {
		t.Fatalf("%s.%s: %v", b.Group(), name, err)
	}
	return v
}

func mustCall(t *testing.T, b *Bridge, name string, args ...Value) Value {
	t.Helper()
	v, err := b.Call(name, args...)
	if err != nil {
		t.Fatalf("%s.%s: %v", b.Group(), name, err)
	}
	return v
}
