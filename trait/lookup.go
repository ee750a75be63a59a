package trait

import "github.com/milk9111/skirmish/ecs"

// FirstEnabled returns the first enabled instance in s implementing T, in
// declaration order.
func FirstEnabled[T any](s *Set) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.enabled() {
			continue
		}
		if v, ok := sl.inst.(T); ok {
			return v, true
		}
	}
	return zero, false
}

// SetOf returns the trait set attached to e.
func SetOf(w *ecs.World, e ecs.Entity) (*Set, bool) {
	return ecs.Get(w, e, SetComponent.Kind())
}

// FirstEnabledOn resolves the entity's set and returns the first enabled
// instance with cap.
func FirstEnabledOn(w *ecs.World, e ecs.Entity, cap Capability) (Instance, bool) {
	s, ok := SetOf(w, e)
	if !ok {
		return nil, false
	}
	return s.FirstEnabled(cap)
}
