// Package tengobind exposes script bridges to the tengo runtime. Player and
// Actor handles are tengo objects whose fields resolve through the
// descriptor registry; failed resolutions are returned as tengo error
// values, so scripts check them with is_error.
package tengobind

import (
	"fmt"

	"github.com/d5/tengo/v2"

	"github.com/milk9111/skirmish/script"
)

// Handle is the tengo object for one bridge.
type Handle struct {
	tengo.ObjectImpl
	bridge *script.Bridge
}

func newHandle(b *script.Bridge) *Handle {
	return &Handle{bridge: b}
}

// Bridge returns the wrapped bridge.
func (h *Handle) Bridge() *script.Bridge { return h.bridge }

func (h *Handle) TypeName() string { return h.bridge.Group() }

func (h *Handle) String() string {
	return fmt.Sprintf("%s(%s)", h.bridge.Group(), h.bridge.Entity())
}

func (h *Handle) IsFalsy() bool { return false }

func (h *Handle) Equals(other tengo.Object) bool {
	o, ok := other.(*Handle)
	return ok && o.bridge.Group() == h.bridge.Group() && o.bridge.Entity() == h.bridge.Entity()
}

// Copy returns h itself; handles are references to simulation state.
func (h *Handle) Copy() tengo.Object { return h }

// IndexGet resolves a property value or a bound method.
func (h *Handle) IndexGet(index tengo.Object) (tengo.Object, error) {
	name, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	desc, err := h.bridge.Describe(name)
	if err != nil {
		return errorObject(err), nil
	}
	if desc.Member == script.Property {
		v, err := h.bridge.Get(name)
		if err != nil {
			return errorObject(err), nil
		}
		return toObject(h.bridge.Host(), v), nil
	}
	return &tengo.UserFunction{
		Name: name,
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			vals := make([]script.Value, len(args))
			for i, arg := range args {
				v, err := fromObject(arg)
				if err != nil {
					return errorObject(&script.ArgumentError{
						Group:  h.bridge.Group(),
						Name:   name,
						Index:  i,
						Reason: err.Error(),
					}), nil
				}
				vals[i] = v
			}
			v, err := h.bridge.Call(name, vals...)
			if err != nil {
				return errorObject(err), nil
			}
			return toObject(h.bridge.Host(), v), nil
		},
	}, nil
}

func errorObject(err error) tengo.Object {
	return &tengo.Error{Value: &tengo.String{Value: err.Error()}}
}
