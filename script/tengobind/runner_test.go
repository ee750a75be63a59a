package tengobind_test

import (
	"strings"
	"testing"

	"github.com/d5/tengo/v2"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/milk9111/skirmish/match"
	"github.com/milk9111/skirmish/script/tengobind"
)

func newMatch(t *testing.T) *match.Match {
	t.Helper()
	log, _ := test.NewNullLogger()
	m, err := match.Load("skirmish.scenario.yaml", match.Options{Script: "-", Log: log})
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	return m
}

func newRunner(t *testing.T, m *match.Match, src string) *tengobind.Runner {
	t.Helper()
	log, _ := test.NewNullLogger()
	r, err := tengobind.NewRunner(m.Host, "test.tengo", []byte(src), log)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return r
}

func stateValue(t *testing.T, r *tengobind.Runner, key string) any {
	t.Helper()
	v, ok := r.State(key)
	if !ok {
		t.Fatalf("state.%s not set", key)
	}
	return tengo.ToInterface(v)
}

func TestRunnerReadsBindings(t *testing.T) {
	m := newMatch(t)
	r := newRunner(t, m, `
world_loaded := func(engine, state) {
	bot := engine.player("Multi1")
	local := engine.local_player()
	state.name = bot.Name
	state.faction = bot.Faction
	state.team = bot.Team
	state.is_bot = bot.IsBot
	state.center_x = bot.GetRandomBaseCenter().x
	state.players = len(engine.players())
	state.same = local == engine.player("Multi0")
	state.attackers = len(local.GetGroundAttackers())
	owned := true
	for a in local.GetActors() {
		if a.Owner != local {
			owned = false
		}
	}
	state.owned = owned
	state.prereq = local.HasPrerequisites(["base"])
	state.color = local.Color
}

tick := func(engine, state) {
	state.frame = engine.frame()
}
`)
	if err := r.WorldLoaded(); err != nil {
		t.Fatalf("world_loaded: %v", err)
	}

	tests := []struct {
		key  string
		want any
	}{
		{"name", "Bot"},
		{"faction", "soviet"},
		{"team", int64(2)},
		{"is_bot", true},
		{"players", int64(3)},
		{"same", true},
		{"attackers", int64(2)},
		{"owned", true},
		{"prereq", true},
		{"color", "3366FF"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := stateValue(t, r, tt.key); got != tt.want {
				t.Fatalf("state.%s = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
	if x := stateValue(t, r, "center_x"); x != int64(12) && x != int64(18) {
		t.Fatalf("center_x = %v", x)
	}

	m.World.AddSystem(r)
	m.Tick()
	m.Tick()
	if got := stateValue(t, r, "frame"); got != int64(1) {
		t.Fatalf("frame = %v, want 1", got)
	}
}

func TestRunnerBindingErrorsAreValues(t *testing.T) {
	m := newMatch(t)
	r := newRunner(t, m, `
world_loaded := func(engine, state) {
	bot := engine.player("Multi1")
	state.missing_player = is_error(engine.player("Nobody"))
	state.missing_property = is_error(bot.Nope)
	state.bad_argument = is_error(bot.GetActorsByType(5))
	state.unknown_type = is_error(bot.GetActorsByType("mammoth"))
	state.arity = is_error(bot.GetActors(1))
	msg := bot.Nope
	state.message = string(msg)
}

tick := func(engine, state) {}
`)
	if err := r.WorldLoaded(); err != nil {
		t.Fatalf("world_loaded: %v", err)
	}
	for _, key := range []string{"missing_player", "missing_property", "bad_argument", "unknown_type", "arity"} {
		if got := stateValue(t, r, key); got != true {
			t.Fatalf("state.%s = %v, want true", key, got)
		}
	}
	if msg, _ := stateValue(t, r, "message").(string); !strings.Contains(msg, "Player.Nope") {
		t.Fatalf("message = %q", msg)
	}
}

func TestRunnerQueuesProduction(t *testing.T) {
	m := newMatch(t)
	r := newRunner(t, m, `
world_loaded := func(engine, state) {}

tick := func(engine, state) {
	bot := engine.player("Multi1")
	state.queued = bot.QueueProductionItem("rifleman", engine.cell(4, 5))
}
`)
	m.World.AddSystem(r)
	m.Tick()

	if got := stateValue(t, r, "queued"); got != true {
		t.Fatalf("queued = %v", got)
	}
	bot, _ := m.Player("Multi1")
	planner, ok := m.Planner(bot)
	if !ok || len(planner.Requests) != 1 {
		t.Fatalf("planner requests = %+v", planner)
	}
	if req := planner.Requests[0]; req.ActorType != "rifleman" || req.Cell.X != 4 || req.Cell.Y != 5 {
		t.Fatalf("request = %+v", req)
	}
}

func TestNewRunnerRequiresLifecycleFunctions(t *testing.T) {
	m := newMatch(t)
	_, err := tengobind.NewRunner(m.Host, "broken.tengo", []byte(`world_loaded := func(engine, state) {}`), nil)
	if err == nil {
		t.Fatal("expected a compile error without tick")
	}
}

func TestRunnerRuntimeError(t *testing.T) {
	m := newMatch(t)
	r := newRunner(t, m, `
world_loaded := func(engine, state) {
	engine.player()
}

tick := func(engine, state) {}
`)
	if err := r.WorldLoaded(); err == nil {
		t.Fatal("expected a runtime error")
	}
}
