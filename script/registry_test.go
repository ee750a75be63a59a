package script

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/milk9111/skirmish/ecs"
)

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	dupEntry := NewGroup("Dup", func(*Context, ecs.Entity) (*ActorProperties, bool) { return nil, false }).
		Property("A", "", KindInt, func(*ActorProperties) (Value, error) { return Int(1), nil }).
		Property("A", "", KindInt, func(*ActorProperties) (Value, error) { return Int(2), nil }).
		Build()

	tests := []struct {
		name   string
		groups []Group
	}{
		{"duplicate group", []Group{PlayerGroup(), PlayerGroup()}},
		{"duplicate entry", []Group{dupEntry}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(nil, tt.groups...)
			if !errors.Is(err, ErrDuplicateBinding) {
				t.Fatalf("expected ErrDuplicateBinding, got %v", err)
			}
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	r := DefaultRegistry(nil)

	if groups := r.Groups(); len(groups) != 2 || groups[0] != GroupActor || groups[1] != GroupPlayer {
		t.Fatalf("groups = %v", groups)
	}

	d, err := r.Lookup(GroupPlayer, "QueueProductionItem")
	if err != nil {
		t.Fatal(err)
	}
	if d.Member != Method || d.Signature() != "QueueProductionItem(string, cell) bool" {
		t.Fatalf("unexpected descriptor %s %s", d.Member, d.Signature())
	}

	tests := []struct {
		group, name string
	}{
		{GroupPlayer, "Nope"},
		{"Nope", "Name"},
		{GroupActor, "InternalName"},
	}
	for _, tt := range tests {
		t.Run(tt.group+"."+tt.name, func(t *testing.T) {
			_, err := r.Lookup(tt.group, tt.name)
			var be *BindingError
			if !errors.As(err, &be) || !errors.Is(err, ErrBindingNotFound) {
				t.Fatalf("expected a not found BindingError, got %v", err)
			}
			if be.Group != tt.group || be.Name != tt.name {
				t.Fatalf("error names %s.%s", be.Group, be.Name)
			}
		})
	}
}

func TestRegistryDescribe(t *testing.T) {
	desc := DefaultRegistry(nil).Describe()
	if len(desc) != 2 || desc[0].Name != GroupActor {
		t.Fatalf("unexpected groups %+v", desc)
	}
	for _, g := range desc {
		for i := 1; i < len(g.Descriptors); i++ {
			if g.Descriptors[i-1].Name >= g.Descriptors[i].Name {
				t.Fatalf("%s descriptors not sorted at %s", g.Name, g.Descriptors[i].Name)
			}
		}
		for _, d := range g.Descriptors {
			if d.Description == "" {
				t.Fatalf("%s.%s has no description", g.Name, d.Name)
			}
		}
	}
}

func TestDeprecatedBindingWarnsOnce(t *testing.T) {
	f := newFixture(t)
	log, hook := test.NewNullLogger()
	f.host = NewHost(DefaultRegistry(log), f.host.Context())
	p := f.player(t, f.human)

	for i := 0; i < 3; i++ {
		if got := mustGet(t, p, "Race"); got.Str != "allies" {
			t.Fatalf("Race = %q", got.Str)
		}
	}
	mustGet(t, p, "Faction")

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "script: deprecated binding used" {
			warnings++
			if e.Data["replacement"] != "Faction" {
				t.Fatalf("replacement = %v", e.Data["replacement"])
			}
		}
	}
	if warnings != 1 {
		t.Fatalf("warnings = %d, want 1", warnings)
	}
}

func TestInvokeValidatesArguments(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, f.bot)

	tests := []struct {
		name      string
		call      func() error
		wantIndex int
	}{
		{"arity", func() error { _, err := p.Call("GetActorsByType"); return err }, -1},
		{"kind", func() error { _, err := p.Call("GetActorsByType", Int(3)); return err }, 0},
		{"cell kind", func() error { _, err := p.Call("QueueProductionItem", String("rifleman"), String("x")); return err }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ae *ArgumentError
			if err := tt.call(); !errors.As(err, &ae) {
				t.Fatalf("expected ArgumentError, got %v", err)
			}
			if ae.Index != tt.wantIndex {
				t.Fatalf("index = %d, want %d", ae.Index, tt.wantIndex)
			}
		})
	}
	if len(f.planner.Requests) != 0 || f.world.PendingFrameEndTasks() != 1 {
		t.Fatalf("rejected calls must not queue work")
	}
}

func TestBridgeMemberKind(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, f.human)

	if _, err := p.Call("InternalName"); !errors.Is(err, ErrWrongMemberKind) {
		t.Fatalf("calling a property: %v", err)
	}
	if _, err := p.Get("GetActors"); !errors.Is(err, ErrWrongMemberKind) {
		t.Fatalf("reading a method: %v", err)
	}
	if _, err := p.Get("Nope"); !errors.Is(err, ErrBindingNotFound) {
		t.Fatalf("unknown name: %v", err)
	}
}

func TestBindErrors(t *testing.T) {
	f := newFixture(t)

	if _, err := f.host.Player(f.actors["tank"]); !errors.Is(err, ErrNotBindable) {
		t.Fatalf("player group on a unit: %v", err)
	}
	if _, err := f.host.PlayerByName("Multi9"); !errors.Is(err, ErrBindingNotFound) {
		t.Fatalf("unknown player: %v", err)
	}
	gone := ecs.CreateEntity(f.world)
	ecs.DestroyEntity(f.world, gone)
	if _, err := f.host.Actor(gone); !errors.Is(err, ErrStaleEntity) {
		t.Fatalf("destroyed entity: %v", err)
	}
}
