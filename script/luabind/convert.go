package luabind

import (
	"fmt"
	"math"

	"github.com/Shopify/go-lua"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/script"
)

func pushValue(l *lua.State, host *script.Host, v script.Value) {
	switch v.Kind {
	case script.KindBool:
		l.PushBoolean(v.Bool)
	case script.KindInt:
		l.PushInteger(v.Int)
	case script.KindString:
		l.PushString(v.Str)
	case script.KindColor:
		l.PushString(v.Color.String())
	case script.KindCell:
		pushCell(l, v.Cell)
	case script.KindActor:
		pushEntity(l, host, script.GroupActor, v.Entity)
	case script.KindPlayer:
		pushEntity(l, host, script.GroupPlayer, v.Entity)
	case script.KindActors:
		l.CreateTable(len(v.Entities), 0)
		for i, e := range v.Entities {
			pushEntity(l, host, script.GroupActor, e)
			l.RawSetInt(-2, i+1)
		}
	case script.KindStrings:
		l.CreateTable(len(v.Strings), 0)
		for i, s := range v.Strings {
			l.PushString(s)
			l.RawSetInt(-2, i+1)
		}
	default:
		l.PushNil()
	}
}

func pushEntity(l *lua.State, host *script.Host, group string, e ecs.Entity) {
	b, err := host.Bridge(group, e)
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
		return
	}
	pushHandle(l, b)
}

func pushCell(l *lua.State, c component.CPos) {
	l.CreateTable(0, 2)
	l.PushInteger(c.X)
	l.SetField(-2, "x")
	l.PushInteger(c.Y)
	l.SetField(-2, "y")
}

func toValue(l *lua.State, index int) (script.Value, error) {
	switch l.TypeOf(index) {
	case lua.TypeNil, lua.TypeNone:
		return script.Nil(), nil
	case lua.TypeBoolean:
		return script.Bool(l.ToBoolean(index)), nil
	case lua.TypeNumber:
		n, _ := l.ToNumber(index)
		if math.Mod(n, 1) != 0 {
			return script.Value{}, fmt.Errorf("want integer, got %v", n)
		}
		return script.Int(int(n)), nil
	case lua.TypeString:
		s, _ := l.ToString(index)
		return script.String(s), nil
	case lua.TypeUserData:
		h, ok := toHandle(l, index)
		if !ok {
			return script.Value{}, fmt.Errorf("unsupported userdata")
		}
		if h.bridge.Group() == script.GroupPlayer {
			return script.PlayerRef(h.bridge.Entity()), nil
		}
		return script.ActorRef(h.bridge.Entity()), nil
	case lua.TypeTable:
		return tableValue(l, index)
	}
	return script.Value{}, fmt.Errorf("unsupported value of type %s", lua.TypeNameOf(l, index))
}

// tableValue converts {x=, y=} to a cell and sequences to string or actor
// arrays. An empty table converts to an empty string array.
func tableValue(l *lua.State, index int) (script.Value, error) {
	index = l.AbsIndex(index)
	n := l.RawLength(index)
	if n == 0 {
		l.Field(index, "x")
		l.Field(index, "y")
		x, okX := l.ToInteger(-2)
		y, okY := l.ToInteger(-1)
		isCell := l.TypeOf(-2) == lua.TypeNumber && l.TypeOf(-1) == lua.TypeNumber
		l.Pop(2)
		if isCell && okX && okY {
			return script.Cell(component.CPos{X: x, Y: y}), nil
		}
		return script.Strings(nil), nil
	}

	l.RawGetInt(index, 1)
	_, handles := toHandle(l, -1)
	l.Pop(1)
	if handles {
		out := make([]ecs.Entity, 0, n)
		for i := 1; i <= n; i++ {
			l.RawGetInt(index, i)
			h, ok := toHandle(l, -1)
			l.Pop(1)
			if !ok || h.bridge.Group() != script.GroupActor {
				return script.Value{}, fmt.Errorf("element %d: want actor", i)
			}
			out = append(out, h.bridge.Entity())
		}
		return script.Actors(out), nil
	}
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		l.RawGetInt(index, i)
		if l.TypeOf(-1) != lua.TypeString {
			l.Pop(1)
			return script.Value{}, fmt.Errorf("element %d: want string", i)
		}
		s, _ := l.ToString(-1)
		l.Pop(1)
		out = append(out, s)
	}
	return script.Strings(out), nil
}
