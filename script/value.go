package script

import (
	"fmt"
	"strings"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// Kind is the script-visible type of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindString
	KindCell
	KindColor
	KindActor
	KindPlayer
	KindActors
	KindStrings
)

var kindNames = map[Kind]string{
	KindNil:     "nil",
	KindBool:    "bool",
	KindInt:     "int",
	KindString:  "string",
	KindCell:    "cell",
	KindColor:   "color",
	KindActor:   "actor",
	KindPlayer:  "player",
	KindActors:  "actor[]",
	KindStrings: "string[]",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value crosses the script boundary. Only the field matching Kind is set.
type Value struct {
	Kind     Kind
	Bool     bool
	Int      int
	Str      string
	Cell     component.CPos
	Color    component.Color
	Entity   ecs.Entity
	Entities []ecs.Entity
	Strings  []string
}

func Nil() Value                         { return Value{} }
func Bool(b bool) Value                  { return Value{Kind: KindBool, Bool: b} }
func Int(i int) Value                    { return Value{Kind: KindInt, Int: i} }
func String(s string) Value              { return Value{Kind: KindString, Str: s} }
func Cell(c component.CPos) Value        { return Value{Kind: KindCell, Cell: c} }
func ColorValue(c component.Color) Value { return Value{Kind: KindColor, Color: c} }
func ActorRef(e ecs.Entity) Value        { return Value{Kind: KindActor, Entity: e} }
func PlayerRef(e ecs.Entity) Value       { return Value{Kind: KindPlayer, Entity: e} }

func Actors(es []ecs.Entity) Value {
	if es == nil {
		es = []ecs.Entity{}
	}
	return Value{Kind: KindActors, Entities: es}
}

func Strings(ss []string) Value {
	if ss == nil {
		ss = []string{}
	}
	return Value{Kind: KindStrings, Strings: ss}
}

// accepts reports whether v can be passed where want is declared. An empty
// actor array and an empty string array are interchangeable since scripts
// cannot tell them apart.
func (v Value) accepts(want Kind) bool {
	if v.Kind == want {
		return true
	}
	switch {
	case want == KindStrings && v.Kind == KindActors && len(v.Entities) == 0:
		return true
	case want == KindActors && v.Kind == KindStrings && len(v.Strings) == 0:
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprint(v.Bool)
	case KindInt:
		return fmt.Sprint(v.Int)
	case KindString:
		return v.Str
	case KindCell:
		return v.Cell.String()
	case KindColor:
		return v.Color.String()
	case KindActor, KindPlayer:
		return v.Kind.String() + "(" + v.Entity.String() + ")"
	case KindActors:
		parts := make([]string, len(v.Entities))
		for i, e := range v.Entities {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindStrings:
		return "[" + strings.Join(v.Strings, " ") + "]"
	}
	return v.Kind.String()
}
