package script

import (
	"fmt"
	"sort"

	"github.com/milk9111/skirmish/ecs"
)

// Member distinguishes read-only properties from callable methods.
type Member int

const (
	Property Member = iota
	Method
)

func (m Member) String() string {
	if m == Method {
		return "method"
	}
	return "property"
}

type accessor func(self any, args []Value) (Value, error)

// Descriptor is one named, typed, documented entry of a property group.
type Descriptor struct {
	Group        string
	Name         string
	Description  string
	Member       Member
	Returns      Kind
	Params       []Kind
	DeprecatedBy string

	access accessor
}

// Signature renders the descriptor for API listings.
func (d *Descriptor) Signature() string {
	if d.Member == Property {
		return fmt.Sprintf("%s %s", d.Name, d.Returns)
	}
	params := ""
	for i, p := range d.Params {
		if i > 0 {
			params += ", "
		}
		params += p.String()
	}
	return fmt.Sprintf("%s(%s) %s", d.Name, params, d.Returns)
}

// Binder creates the per-entity receiver of a group. ok is false when the
// entity does not carry what the group reads.
type Binder func(ctx *Context, e ecs.Entity) (self any, ok bool)

// Group is a named set of descriptors sharing one receiver type.
type Group struct {
	Name        string
	Descriptors []*Descriptor
	Bind        Binder
}

// GroupBuilder collects typed descriptors for receivers of type S.
type GroupBuilder[S any] struct {
	name  string
	bind  func(ctx *Context, e ecs.Entity) (S, bool)
	descs []*Descriptor
}

func NewGroup[S any](name string, bind func(ctx *Context, e ecs.Entity) (S, bool)) *GroupBuilder[S] {
	return &GroupBuilder[S]{name: name, bind: bind}
}

// Property adds a read-only entry.
func (b *GroupBuilder[S]) Property(name, description string, returns Kind, get func(S) (Value, error)) *GroupBuilder[S] {
	b.descs = append(b.descs, &Descriptor{
		Group:       b.name,
		Name:        name,
		Description: description,
		Member:      Property,
		Returns:     returns,
		access: func(self any, _ []Value) (Value, error) {
			s, ok := self.(S)
			if !ok {
				return Value{}, &BindingError{Group: b.name, Name: name, Err: ErrNotBindable}
			}
			return get(s)
		},
	})
	return b
}

// Method adds a callable entry. Arguments are checked against params before
// call runs.
func (b *GroupBuilder[S]) Method(name, description string, returns Kind, params []Kind, call func(S, []Value) (Value, error)) *GroupBuilder[S] {
	b.descs = append(b.descs, &Descriptor{
		Group:       b.name,
		Name:        name,
		Description: description,
		Member:      Method,
		Returns:     returns,
		Params:      params,
		access: func(self any, args []Value) (Value, error) {
			s, ok := self.(S)
			if !ok {
				return Value{}, &BindingError{Group: b.name, Name: name, Err: ErrNotBindable}
			}
			return call(s, args)
		},
	})
	return b
}

// Deprecated marks the most recently added entry as superseded by
// replacement.
func (b *GroupBuilder[S]) Deprecated(replacement string) *GroupBuilder[S] {
	if len(b.descs) > 0 {
		b.descs[len(b.descs)-1].DeprecatedBy = replacement
	}
	return b
}

func (b *GroupBuilder[S]) Build() Group {
	bind := b.bind
	return Group{
		Name:        b.name,
		Descriptors: append([]*Descriptor(nil), b.descs...),
		Bind: func(ctx *Context, e ecs.Entity) (any, bool) {
			if bind == nil {
				return nil, false
			}
			return bind(ctx, e)
		},
	}
}

func sortedDescriptors(descs map[string]*Descriptor) []*Descriptor {
	out := make([]*Descriptor, 0, len(descs))
	for _, d := range descs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
