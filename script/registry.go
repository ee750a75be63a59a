package script

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ecs"
)

type registryGroup struct {
	group  Group
	byName map[string]*Descriptor
}

// Registry holds every scriptable entry. It is built once at startup and is
// read-only afterwards, so it may be shared between script runtimes.
type Registry struct {
	groups     map[string]*registryGroup
	advisories map[*Descriptor]*sync.Once
	log        logrus.FieldLogger
}

// NewRegistry indexes groups. A duplicate group name or a duplicate entry
// within a group is an error.
func NewRegistry(log logrus.FieldLogger, groups ...Group) (*Registry, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Registry{
		groups:     map[string]*registryGroup{},
		advisories: map[*Descriptor]*sync.Once{},
		log:        log,
	}
	for _, g := range groups {
		if _, ok := r.groups[g.Name]; ok {
			return nil, &BindingError{Group: g.Name, Err: ErrDuplicateBinding}
		}
		rg := &registryGroup{group: g, byName: map[string]*Descriptor{}}
		for _, d := range g.Descriptors {
			if _, ok := rg.byName[d.Name]; ok {
				return nil, &BindingError{Group: g.Name, Name: d.Name, Err: ErrDuplicateBinding}
			}
			rg.byName[d.Name] = d
			if d.DeprecatedBy != "" {
				r.advisories[d] = &sync.Once{}
			}
		}
		r.groups[g.Name] = rg
	}
	return r, nil
}

// MustRegistry is NewRegistry for startup code; it panics on error.
func MustRegistry(log logrus.FieldLogger, groups ...Group) *Registry {
	r, err := NewRegistry(log, groups...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRegistry registers the Player and Actor groups.
func DefaultRegistry(log logrus.FieldLogger) *Registry {
	return MustRegistry(log, PlayerGroup(), ActorGroup())
}

// Lookup resolves an entry by group and name.
func (r *Registry) Lookup(group, name string) (*Descriptor, error) {
	rg, ok := r.groups[group]
	if !ok {
		return nil, notFound(group, name)
	}
	d, ok := rg.byName[name]
	if !ok {
		return nil, notFound(group, name)
	}
	return d, nil
}

// Groups returns the registered group names, sorted.
func (r *Registry) Groups() []string {
	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind creates the receiver group needs for e.
func (r *Registry) Bind(ctx *Context, group string, e ecs.Entity) (any, error) {
	rg, ok := r.groups[group]
	if !ok {
		return nil, notFound(group, "")
	}
	if ctx == nil || !ecs.IsAlive(ctx.World, e) {
		return nil, &BindingError{Group: group, Err: ErrStaleEntity}
	}
	self, ok := rg.group.Bind(ctx, e)
	if !ok {
		return nil, &BindingError{Group: group, Err: ErrNotBindable}
	}
	return self, nil
}

// Invoke validates args against d and runs its accessor on self.
func (r *Registry) Invoke(d *Descriptor, self any, args []Value) (Value, error) {
	if d.Member == Property && len(args) > 0 {
		return Value{}, &ArgumentError{Group: d.Group, Name: d.Name, Index: -1, Reason: "property takes no arguments"}
	}
	if d.Member == Method {
		if len(args) != len(d.Params) {
			return Value{}, &ArgumentError{
				Group:  d.Group,
				Name:   d.Name,
				Index:  -1,
				Reason: fmt.Sprintf("want %d arguments, got %d", len(d.Params), len(args)),
			}
		}
		for i, want := range d.Params {
			if !args[i].accepts(want) {
				return Value{}, &ArgumentError{
					Group:  d.Group,
					Name:   d.Name,
					Index:  i,
					Reason: fmt.Sprintf("want %s, got %s", want, args[i].Kind),
				}
			}
		}
	}
	if once, ok := r.advisories[d]; ok {
		once.Do(func() {
			r.log.WithFields(logrus.Fields{
				"group":       d.Group,
				"name":        d.Name,
				"replacement": d.DeprecatedBy,
			}).Warn("script: deprecated binding used")
		})
	}
	return d.access(self, args)
}

// GroupDescription lists one group for API documentation.
type GroupDescription struct {
	Name        string
	Descriptors []*Descriptor
}

// Describe returns every group and entry, sorted by name.
func (r *Registry) Describe() []GroupDescription {
	out := make([]GroupDescription, 0, len(r.groups))
	for _, name := range r.Groups() {
		out = append(out, GroupDescription{
			Name:        name,
			Descriptors: sortedDescriptors(r.groups[name].byName),
		})
	}
	return out
}
