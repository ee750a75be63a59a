package script

import (
	"sort"

	"github.com/milk9111/skirmish/actor"
	"github.com/milk9111/skirmish/ecs"
)

const (
	GroupPlayer = "Player"
	GroupActor  = "Actor"
)

type bridgeKey struct {
	group  string
	entity ecs.Entity
}

// Host hands out bridges for one simulation. Bridges are cached per entity
// so per-entity receiver state, such as the lazily resolved AI, survives
// between script calls.
type Host struct {
	registry *Registry
	ctx      *Context
	bridges  map[bridgeKey]*Bridge
}

func NewHost(registry *Registry, ctx *Context) *Host {
	return &Host{registry: registry, ctx: ctx, bridges: map[bridgeKey]*Bridge{}}
}

func (h *Host) Registry() *Registry { return h.registry }
func (h *Host) Context() *Context   { return h.ctx }

// Bridge returns the bridge exposing group for e.
func (h *Host) Bridge(group string, e ecs.Entity) (*Bridge, error) {
	key := bridgeKey{group: group, entity: e}
	if b, ok := h.bridges[key]; ok {
		if ecs.IsAlive(h.ctx.World, e) {
			return b, nil
		}
		delete(h.bridges, key)
	}
	self, err := h.registry.Bind(h.ctx, group, e)
	if err != nil {
		return nil, err
	}
	b := &Bridge{host: h, group: group, entity: e, self: self}
	h.bridges[key] = b
	return b, nil
}

func (h *Host) Player(e ecs.Entity) (*Bridge, error) { return h.Bridge(GroupPlayer, e) }
func (h *Host) Actor(e ecs.Entity) (*Bridge, error)  { return h.Bridge(GroupActor, e) }

// PlayerByName resolves a player by internal name.
func (h *Host) PlayerByName(internalName string) (*Bridge, error) {
	e, ok := actor.PlayerByName(h.ctx.World, internalName)
	if !ok {
		return nil, notFound(GroupPlayer, internalName)
	}
	return h.Player(e)
}

// Players returns every player entity sorted by internal name.
func (h *Host) Players() []ecs.Entity {
	type named struct {
		e    ecs.Entity
		name string
	}
	var players []named
	ecs.ForEach(h.ctx.World, actor.PlayerComponent.Kind(), func(e ecs.Entity, p *actor.Player) {
		players = append(players, named{e: e, name: p.InternalName})
	})
	sort.Slice(players, func(i, j int) bool { return players[i].name < players[j].name })
	out := make([]ecs.Entity, len(players))
	for i, p := range players {
		out[i] = p.e
	}
	return out
}

// Forget drops cached bridges of destroyed entities.
func (h *Host) Forget() {
	for key := range h.bridges {
		if !ecs.IsAlive(h.ctx.World, key.entity) {
			delete(h.bridges, key)
		}
	}
}

// Bridge resolves names of one group against one entity.
type Bridge struct {
	host   *Host
	group  string
	entity ecs.Entity
	self   any
}

func (b *Bridge) Group() string      { return b.group }
func (b *Bridge) Entity() ecs.Entity { return b.entity }
func (b *Bridge) Host() *Host        { return b.host }

// Describe resolves name without invoking it.
func (b *Bridge) Describe(name string) (*Descriptor, error) {
	return b.host.registry.Lookup(b.group, name)
}

// Get reads a property.
func (b *Bridge) Get(name string) (Value, error) {
	d, err := b.Describe(name)
	if err != nil {
		return Value{}, err
	}
	if d.Member != Property {
		return Value{}, &BindingError{Group: b.group, Name: name, Err: ErrWrongMemberKind}
	}
	return b.host.registry.Invoke(d, b.self, nil)
}

// Call invokes a method.
func (b *Bridge) Call(name string, args ...Value) (Value, error) {
	d, err := b.Describe(name)
	if err != nil {
		return Value{}, err
	}
	if d.Member != Method {
		return Value{}, &BindingError{Group: b.group, Name: name, Err: ErrWrongMemberKind}
	}
	return b.host.registry.Invoke(d, b.self, args)
}
