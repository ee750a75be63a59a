// Package luabind exposes script bridges to a Lua runtime. Player and Actor
// handles are userdata whose fields resolve through the descriptor
// registry; failed resolutions raise Lua errors that pcall can catch.
package luabind

import (
	"github.com/Shopify/go-lua"

	"github.com/milk9111/skirmish/script"
)

const handleTypeName = "skirmish.handle"

type handle struct {
	bridge *script.Bridge
}

func registerHandleType(l *lua.State) {
	lua.NewMetaTable(l, handleTypeName)
	l.PushGoFunction(handleIndex)
	l.SetField(-2, "__index")
	l.PushGoFunction(handleEq)
	l.SetField(-2, "__eq")
	l.PushGoFunction(handleToString)
	l.SetField(-2, "__tostring")
	l.Pop(1)
}

func pushHandle(l *lua.State, b *script.Bridge) {
	l.PushUserData(&handle{bridge: b})
	lua.SetMetaTableNamed(l, handleTypeName)
}

func checkHandle(l *lua.State, index int) *handle {
	ud := lua.CheckUserData(l, index, handleTypeName)
	if h, ok := ud.(*handle); ok && h != nil {
		return h
	}
	lua.ArgumentError(l, index, "handle expected")
	return nil
}

func toHandle(l *lua.State, index int) (*handle, bool) {
	if l.TypeOf(index) != lua.TypeUserData {
		return nil, false
	}
	h, ok := l.ToUserData(index).(*handle)
	return h, ok && h != nil
}

func handleIndex(l *lua.State) int {
	h := checkHandle(l, 1)
	name := lua.CheckString(l, 2)
	desc, err := h.bridge.Describe(name)
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
		return 0
	}
	if desc.Member == script.Property {
		v, err := h.bridge.Get(name)
		if err != nil {
			lua.Errorf(l, "%s", err.Error())
			return 0
		}
		pushValue(l, h.bridge.Host(), v)
		return 1
	}
	bridge := h.bridge
	l.PushGoFunction(func(l *lua.State) int {
		first := 1
		// Accept both handle.Method(...) and handle:Method(...).
		if self, ok := toHandle(l, 1); ok && self.bridge == bridge {
			first = 2
		}
		var args []script.Value
		for i := first; i <= l.Top(); i++ {
			v, err := toValue(l, i)
			if err != nil {
				lua.Errorf(l, "%s", (&script.ArgumentError{
					Group:  bridge.Group(),
					Name:   name,
					Index:  i - first,
					Reason: err.Error(),
				}).Error())
				return 0
			}
			args = append(args, v)
		}
		v, err := bridge.Call(name, args...)
		if err != nil {
			lua.Errorf(l, "%s", err.Error())
			return 0
		}
		pushValue(l, bridge.Host(), v)
		return 1
	})
	return 1
}

func handleEq(l *lua.State) int {
	a, okA := toHandle(l, 1)
	b, okB := toHandle(l, 2)
	l.PushBoolean(okA && okB && a.bridge.Group() == b.bridge.Group() && a.bridge.Entity() == b.bridge.Entity())
	return 1
}

func handleToString(l *lua.State) int {
	h := checkHandle(l, 1)
	l.PushString(h.bridge.Group() + "(" + h.bridge.Entity().String() + ")")
	return 1
}
