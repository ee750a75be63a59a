package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/entity"
)

func TestPlayerProperties(t *testing.T) {
	f := newFixture(t)
	human := f.player(t, f.human)
	bot := f.player(t, f.bot)

	tests := []struct {
		name string
		b    *Bridge
		prop string
		want Value
	}{
		{"internal name", human, "InternalName", String("Multi0")},
		{"name", bot, "Name", String("Bot")},
		{"faction", bot, "Faction", String("soviet")},
		{"team", human, "Team", Int(1)},
		{"spawn", bot, "Spawn", Int(2)},
		{"human is not a bot", human, "IsBot", Bool(false)},
		{"bot", bot, "IsBot", Bool(true)},
		{"combatant", bot, "IsNonCombatant", Bool(false)},
		{"local", human, "IsLocalPlayer", Bool(true)},
		{"remote", bot, "IsLocalPlayer", Bool(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustGet(t, tt.b, tt.prop)
			if got.Kind != tt.want.Kind || got.String() != tt.want.String() {
				t.Fatalf("%s = %v, want %v", tt.prop, got, tt.want)
			}
		})
	}
}

func TestPlayerActorQueries(t *testing.T) {
	f := newFixture(t)
	human := f.player(t, f.human)
	bot := f.player(t, f.bot)

	if got := mustCall(t, human, "GetActors"); len(got.Entities) != 3 {
		t.Fatalf("GetActors = %v", got.Entities)
	}
	if got := mustCall(t, human, "GetGroundAttackers"); len(got.Entities) != 2 {
		t.Fatalf("human ground attackers = %v", got.Entities)
	}
	// engineer has no attack
	if got := mustCall(t, bot, "GetGroundAttackers"); len(got.Entities) != 1 || got.Entities[0] != f.actors["enemy_rifleman"] {
		t.Fatalf("bot ground attackers = %v", got.Entities)
	}
	if got := mustCall(t, bot, "GetActorsByType", String("barracks")); len(got.Entities) != 1 || got.Entities[0] != f.actors["barracks"] {
		t.Fatalf("GetActorsByType = %v", got.Entities)
	}
	if got := mustCall(t, human, "GetActorsByType", String("barracks")); got.Kind != KindActors || len(got.Entities) != 0 {
		t.Fatalf("empty GetActorsByType = %+v", got)
	}

	tank := f.actor(t, "tank")
	if _, err := tank.Call("GrantCondition", String("suppressed")); err != nil {
		t.Fatal(err)
	}
	f.world.Update()
	if got := mustCall(t, human, "GetGroundAttackers"); len(got.Entities) != 1 || got.Entities[0] != f.actors["rifleman"] {
		t.Fatalf("suppressed tank should not attack, got %v", got.Entities)
	}
}

func TestPlayerHasPrerequisites(t *testing.T) {
	f := newFixture(t)
	human := f.player(t, f.human)
	bot := f.player(t, f.bot)

	tests := []struct {
		name string
		b    *Bridge
		reqs []string
		want bool
	}{
		{"none", human, nil, true},
		{"owned type", human, []string{"construction_yard", "tank"}, true},
		{"provided prerequisite", human, []string{"base"}, true},
		{"missing", human, []string{"barracks"}, false},
		{"gated provider", bot, []string{"infantry_production"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustCall(t, tt.b, "HasPrerequisites", Strings(tt.reqs))
			if got.Bool != tt.want {
				t.Fatalf("HasPrerequisites(%v) = %v", tt.reqs, got.Bool)
			}
		})
	}

	for i := 0; i < 25; i++ {
		f.world.Update()
	}
	if !mustCall(t, bot, "HasPrerequisites", Strings([]string{"infantry_production"})).Bool {
		t.Fatalf("barracks should provide infantry_production after its delay")
	}
}

func TestBotAIResolvedAfterConstruction(t *testing.T) {
	f := newFixture(t)
	bot := f.player(t, f.bot)

	if got := mustCall(t, bot, "GetRandomBaseCenter"); got.Cell != (component.CPos{}) {
		t.Fatalf("AI must not resolve before the end of the tick, got %v", got.Cell)
	}
	if got := mustCall(t, bot, "QueueProductionItem", String("rifleman"), Cell(component.CPos{X: 1, Y: 1})); got.Bool {
		t.Fatalf("production before construction should return false")
	}

	f.world.FlushFrameEndTasks()

	if got := mustCall(t, bot, "GetRandomBaseCenter"); got.Cell != (component.CPos{X: 12, Y: 40}) {
		t.Fatalf("base center = %v", got.Cell)
	}
	if got := mustCall(t, bot, "QueueProductionItem", String("rifleman"), Cell(component.CPos{X: 1, Y: 1})); !got.Bool {
		t.Fatalf("production should be accepted")
	}
	if len(f.planner.Requests) != 0 {
		t.Fatalf("production must be deferred to the end of the tick")
	}
	f.world.Update()
	if len(f.planner.Requests) != 1 || f.planner.Requests[0].ActorType != "rifleman" {
		t.Fatalf("requests = %+v", f.planner.Requests)
	}
}

func TestQueueProductionWithoutAI(t *testing.T) {
	f := newFixture(t)
	human := f.player(t, f.human)
	f.world.FlushFrameEndTasks()

	if got := mustCall(t, human, "QueueProductionItem", String("tank"), Cell(component.CPos{})); got.Bool {
		t.Fatalf("human players have no AI")
	}
	if got := mustCall(t, human, "GetRandomBaseCenter"); got.Cell != (component.CPos{}) {
		t.Fatalf("base center without AI = %v", got.Cell)
	}
	if f.world.PendingFrameEndTasks() != 0 {
		t.Fatalf("nothing should be queued")
	}
}

func TestQueueProductionRejected(t *testing.T) {
	f := newFixture(t)
	f.planner.Reject = map[string]bool{"tank": true}
	bot := f.player(t, f.bot)
	f.world.FlushFrameEndTasks()

	if !mustCall(t, bot, "QueueProductionItem", String("tank"), Cell(component.CPos{})).Bool {
		t.Fatalf("request should be accepted for later processing")
	}
	f.world.Update()
	if len(f.failed) != 1 || !strings.Contains(f.failed[0].Error(), "rejected") {
		t.Fatalf("expected one rejected task, got %v", f.failed)
	}
}

func TestActorProperties(t *testing.T) {
	f := newFixture(t)
	tank := f.actor(t, "tank")

	if got := mustGet(t, tank, "Type"); got.Str != "tank" {
		t.Fatalf("Type = %q", got.Str)
	}
	if got := mustGet(t, tank, "Owner"); got.Kind != KindPlayer || got.Entity != f.human {
		t.Fatalf("Owner = %v", got)
	}
	if got := mustGet(t, tank, "Location"); got.Cell != (component.CPos{X: 2, Y: 2}) {
		t.Fatalf("Location = %v", got.Cell)
	}
	if !mustGet(t, tank, "IsInWorld").Bool || mustGet(t, tank, "IsDead").Bool {
		t.Fatalf("fresh tank should be alive and in world")
	}

	player, err := f.host.Actor(f.human)
	if err != nil {
		t.Fatal(err)
	}
	if mustGet(t, player, "IsInWorld").Bool {
		t.Fatalf("player actors are not in the world")
	}
}

func TestActorTooltipName(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		actor  string
		render ecs.Entity
		want   string
	}{
		{"tank", f.human, "Tank"},
		{"tank", f.bot, "Vehicle"},
		{"enemy_rifleman", f.human, "Enemy Soldier"},
		{"enemy_rifleman", f.bot, "Rifleman"},
		{"barracks", 0, "Barracks"},
	}
	for _, tt := range tests {
		t.Run(tt.actor+"/"+tt.want, func(t *testing.T) {
			f.host.Context().RenderPlayer = tt.render
			if got := mustGet(t, f.actor(t, tt.actor), "TooltipName"); got.Str != tt.want {
				t.Fatalf("TooltipName = %q, want %q", got.Str, tt.want)
			}
		})
	}
}

func TestActorVeteranTooltip(t *testing.T) {
	f := newFixture(t)
	tank := f.actor(t, "tank")

	mustCall(t, tank, "GrantCondition", String("veteran"))
	f.world.Update()
	if got := mustGet(t, tank, "TooltipName"); got.Str != "Veteran Tank" {
		t.Fatalf("earlier declared tooltip should win once enabled, got %q", got.Str)
	}
}

func TestActorConditionsAreDeferred(t *testing.T) {
	f := newFixture(t)
	rifleman := f.actor(t, "rifleman")

	mustCall(t, rifleman, "GrantCondition", String("suppressed"))
	if mustCall(t, rifleman, "HasCondition", String("suppressed")).Bool {
		t.Fatalf("grant must apply at the end of the tick")
	}
	f.world.Update()
	if !mustCall(t, rifleman, "HasCondition", String("suppressed")).Bool {
		t.Fatalf("grant should be applied after the tick")
	}

	mustCall(t, rifleman, "RevokeCondition", String("suppressed"))
	mustCall(t, rifleman, "RevokeCondition", String("suppressed"))
	f.world.Update()
	if mustCall(t, rifleman, "HasCondition", String("suppressed")).Bool {
		t.Fatalf("condition should be revoked")
	}
	if len(f.failed) != 1 || !strings.Contains(f.failed[0].Error(), "not active") {
		t.Fatalf("second revoke should fail its task, got %v", f.failed)
	}

	var ae *ArgumentError
	if _, err := rifleman.Call("GrantCondition", String("")); !errors.As(err, &ae) {
		t.Fatalf("empty condition name: %v", err)
	}
}

func TestActorHandleAfterDeath(t *testing.T) {
	f := newFixture(t)
	e := f.actors["engineer"]
	engineer := f.actor(t, "engineer")

	if !entity.Kill(f.world, e) {
		t.Fatal("kill failed")
	}
	if !mustGet(t, engineer, "IsDead").Bool || mustGet(t, engineer, "IsInWorld").Bool {
		t.Fatalf("killed actor should be dead and out of world")
	}
	f.world.Update()

	if !mustGet(t, engineer, "IsDead").Bool {
		t.Fatalf("destroyed handle should read as dead")
	}
	if _, err := engineer.Get("Type"); !errors.Is(err, ErrStaleEntity) {
		t.Fatalf("reading a destroyed actor: %v", err)
	}
	if _, err := f.host.Actor(e); !errors.Is(err, ErrStaleEntity) {
		t.Fatalf("binding a destroyed actor: %v", err)
	}

	bot := f.player(t, f.bot)
	if got := mustCall(t, bot, "GetActorsByType", String("engineer")); len(got.Entities) != 0 {
		t.Fatalf("dead actors must not be listed, got %v", got.Entities)
	}
}

func TestIsLocalPlayerFollowsRenderPlayer(t *testing.T) {
	f := newFixture(t)
	human := f.player(t, f.human)
	bot := f.player(t, f.bot)

	tests := []struct {
		name      string
		render    ecs.Entity
		wantHuman bool
		wantBot   bool
	}{
		{"render is local", f.human, true, false},
		{"render is another player", f.bot, false, true},
		{"no render player", 0, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.host.Context().RenderPlayer = tt.render
			if got := mustGet(t, human, "IsLocalPlayer").Bool; got != tt.wantHuman {
				t.Fatalf("human IsLocalPlayer = %v, want %v", got, tt.wantHuman)
			}
			if got := mustGet(t, bot, "IsLocalPlayer").Bool; got != tt.wantBot {
				t.Fatalf("bot IsLocalPlayer = %v, want %v", got, tt.wantBot)
			}
		})
	}
}

func TestUnknownActorType(t *testing.T) {
	f := newFixture(t)
	human := f.player(t, f.human)
	bot := f.player(t, f.bot)
	f.world.FlushFrameEndTasks()

	t.Run("GetActorsByType", func(t *testing.T) {
		for _, b := range []*Bridge{human, bot} {
			if _, err := b.Call("GetActorsByType", String("unknown_type")); !errors.Is(err, ErrBindingNotFound) {
				t.Fatalf("expected a binding error, got %v", err)
			}
		}
	})
	t.Run("QueueProductionItem on a bot", func(t *testing.T) {
		if _, err := bot.Call("QueueProductionItem", String("unknown_type"), Cell(component.CPos{})); !errors.Is(err, ErrBindingNotFound) {
			t.Fatalf("expected a binding error, got %v", err)
		}
	})
	t.Run("QueueProductionItem without an AI", func(t *testing.T) {
		v, err := human.Call("QueueProductionItem", String("unknown_type"), Cell(component.CPos{}))
		if err != nil {
			t.Fatalf("players without an AI should fail quietly: %v", err)
		}
		if v.Kind != KindBool || v.Bool {
			t.Fatalf("QueueProductionItem = %v, want false", v)
		}
	})

	if n := f.world.PendingFrameEndTasks(); n != 0 {
		t.Fatalf("failed calls queued %d tasks", n)
	}
	f.world.Update()
	if len(f.planner.Requests) != 0 || len(f.failed) != 0 {
		t.Fatalf("requests = %+v, failed = %v", f.planner.Requests, f.failed)
	}
}

func TestConditionsOnDestroyedActor(t *testing.T) {
	f := newFixture(t)
	engineer := f.actor(t, "engineer")
	if !entity.Kill(f.world, f.actors["engineer"]) {
		t.Fatal("kill failed")
	}
	f.world.Update()

	for _, method := range []string{"GrantCondition", "RevokeCondition"} {
		t.Run(method, func(t *testing.T) {
			if _, err := engineer.Call(method, String("veteran")); !errors.Is(err, ErrStaleEntity) {
				t.Fatalf("expected ErrStaleEntity, got %v", err)
			}
			if n := f.world.PendingFrameEndTasks(); n != 0 {
				t.Fatalf("stale handle queued %d tasks", n)
			}
		})
	}
}
