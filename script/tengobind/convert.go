package tengobind

import (
	"fmt"

	"github.com/d5/tengo/v2"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/script"
)

func toObject(host *script.Host, v script.Value) tengo.Object {
	switch v.Kind {
	case script.KindBool:
		if v.Bool {
			return tengo.TrueValue
		}
		return tengo.FalseValue
	case script.KindInt:
		return &tengo.Int{Value: int64(v.Int)}
	case script.KindString:
		return &tengo.String{Value: v.Str}
	case script.KindColor:
		return &tengo.String{Value: v.Color.String()}
	case script.KindCell:
		return cellObject(v.Cell)
	case script.KindActor:
		return handleObject(host, script.GroupActor, v.Entity)
	case script.KindPlayer:
		return handleObject(host, script.GroupPlayer, v.Entity)
	case script.KindActors:
		arr := make([]tengo.Object, 0, len(v.Entities))
		for _, e := range v.Entities {
			arr = append(arr, handleObject(host, script.GroupActor, e))
		}
		return &tengo.Array{Value: arr}
	case script.KindStrings:
		arr := make([]tengo.Object, 0, len(v.Strings))
		for _, s := range v.Strings {
			arr = append(arr, &tengo.String{Value: s})
		}
		return &tengo.Array{Value: arr}
	}
	return tengo.UndefinedValue
}

func handleObject(host *script.Host, group string, e ecs.Entity) tengo.Object {
	b, err := host.Bridge(group, e)
	if err != nil {
		return errorObject(err)
	}
	return newHandle(b)
}

func cellObject(c component.CPos) tengo.Object {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"x": &tengo.Int{Value: int64(c.X)},
		"y": &tengo.Int{Value: int64(c.Y)},
	}}
}

func fromObject(o tengo.Object) (script.Value, error) {
	switch o := o.(type) {
	case *tengo.Undefined:
		return script.Nil(), nil
	case *tengo.Bool:
		return script.Bool(!o.IsFalsy()), nil
	case *tengo.Int:
		return script.Int(int(o.Value)), nil
	case *tengo.String:
		return script.String(o.Value), nil
	case *tengo.Map:
		return cellFromMap(o.Value)
	case *tengo.ImmutableMap:
		return cellFromMap(o.Value)
	case *tengo.Array:
		return arrayValue(o.Value)
	case *tengo.ImmutableArray:
		return arrayValue(o.Value)
	case *Handle:
		if o.bridge.Group() == script.GroupPlayer {
			return script.PlayerRef(o.bridge.Entity()), nil
		}
		return script.ActorRef(o.bridge.Entity()), nil
	}
	return script.Value{}, fmt.Errorf("unsupported value of type %s", o.TypeName())
}

func cellFromMap(m map[string]tengo.Object) (script.Value, error) {
	x, okX := m["x"].(*tengo.Int)
	y, okY := m["y"].(*tengo.Int)
	if !okX || !okY || len(m) != 2 {
		return script.Value{}, fmt.Errorf("cell must be a map with integer x and y")
	}
	return script.Cell(component.CPos{X: int(x.Value), Y: int(y.Value)}), nil
}

// arrayValue accepts arrays of strings or of actor handles. An empty array
// converts to an empty string array.
func arrayValue(items []tengo.Object) (script.Value, error) {
	if len(items) == 0 {
		return script.Strings(nil), nil
	}
	if _, ok := items[0].(*Handle); ok {
		out := make([]ecs.Entity, len(items))
		for i, item := range items {
			h, ok := item.(*Handle)
			if !ok || h.bridge.Group() != script.GroupActor {
				return script.Value{}, fmt.Errorf("element %d: want actor", i+1)
			}
			out[i] = h.bridge.Entity()
		}
		return script.Actors(out), nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(*tengo.String)
		if !ok {
			return script.Value{}, fmt.Errorf("element %d: want string", i+1)
		}
		out[i] = s.Value
	}
	return script.Strings(out), nil
}
