package trait

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/condition"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// maxSettleSteps bounds a single condition cascade.
const maxSettleSteps = 4096

type slot struct {
	inst Instance
	caps Capability
	cond *Conditional
}

func (s *slot) enabled() bool {
	return s.cond == nil || s.cond.enabled
}

// Set is the ordered trait list of one entity. Declaration order is the
// order instances were added and is the tie-break for every lookup.
type Set struct {
	self       ecs.Entity
	conditions *condition.State
	slots      []slot
	watchers   map[string][]int
	revision   uint64
	started    bool

	pending  []string
	settling bool
	log      logrus.FieldLogger
}

var SetComponent = component.NewComponent[Set]()
var ConditionsComponent = component.NewComponent[condition.State]()

// NewSet creates an empty set bound to self and its condition state.
func NewSet(self ecs.Entity, conditions *condition.State, log logrus.FieldLogger) *Set {
	if conditions == nil {
		conditions = condition.NewState()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Set{
		self:       self,
		conditions: conditions,
		watchers:   map[string][]int{},
		log:        log.WithField("entity", self.String()),
	}
	conditions.Watch(s.conditionChanged)
	return s
}

// Self returns the owning entity.
func (s *Set) Self() ecs.Entity {
	return s.self
}

// Conditions returns the owning entity's condition state.
func (s *Set) Conditions() *condition.State {
	return s.conditions
}

// Revision changes whenever an instance is added or removed or an enabled
// flag flips, so lookups may be cached against it.
func (s *Set) Revision() uint64 {
	return s.revision
}

// Len returns the number of instances.
func (s *Set) Len() int {
	return len(s.slots)
}

// Add appends inst in declaration order. Conditions referenced by its
// gating expression are declared on the state. Once the set is started a
// conditional instance is evaluated immediately.
func (s *Set) Add(inst Instance) {
	if inst == nil {
		return
	}
	sl := slot{inst: inst}
	if info := inst.TraitInfo(); info != nil {
		sl.caps = info.Capabilities()
	}
	if ci, ok := inst.(conditionalInstance); ok {
		sl.cond = ci.conditionalBase()
		sl.cond.enabled = false
		vars := sl.cond.RequiresCondition().Variables()
		s.conditions.Declare(vars...)
		for _, name := range vars {
			s.watchers[name] = append(s.watchers[name], len(s.slots))
		}
	}
	s.slots = append(s.slots, sl)
	s.revision++
	if s.started && sl.cond != nil {
		s.refresh(len(s.slots) - 1)
		s.settle()
	}
}

// Start evaluates every conditional instance in declaration order and fires
// TraitEnabled for those that start enabled. Call once after all of the
// entity's instances were added.
func (s *Set) Start() {
	if s.started {
		return
	}
	s.started = true
	s.settling = true
	for i := range s.slots {
		if s.slots[i].cond != nil {
			s.refresh(i)
		}
	}
	s.settling = false
	s.settle()
}

// Remove drops inst. An enabled conditional instance is notified that it
// was disabled.
func (s *Set) Remove(inst Instance) bool {
	idx := -1
	for i := range s.slots {
		if s.slots[i].inst == inst {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	sl := s.slots[idx]
	s.slots = append(s.slots[:idx], s.slots[idx+1:]...)
	s.rebuildWatchers()
	s.revision++
	if sl.cond != nil && sl.cond.enabled {
		sl.cond.enabled = false
		if n, ok := sl.inst.(EnabledNotifier); ok {
			n.TraitDisabled(s.self)
		}
		s.settle()
	}
	return true
}

// IsEnabled reports whether inst is in the set and enabled.
func (s *Set) IsEnabled(inst Instance) bool {
	for i := range s.slots {
		if s.slots[i].inst == inst {
			return s.slots[i].enabled()
		}
	}
	return false
}

// FirstEnabled returns the first enabled instance whose trait type has cap.
func (s *Set) FirstEnabled(cap Capability) (Instance, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.caps.Has(cap) && sl.enabled() {
			return sl.inst, true
		}
	}
	return nil, false
}

// EachEnabled visits enabled instances with cap in declaration order until
// fn returns false.
func (s *Set) EachEnabled(cap Capability, fn func(Instance) bool) {
	if s == nil {
		return
	}
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.caps.Has(cap) && sl.enabled() {
			if !fn(sl.inst) {
				return
			}
		}
	}
}

// Instances returns every instance in declaration order.
func (s *Set) Instances() []Instance {
	out := make([]Instance, len(s.slots))
	for i := range s.slots {
		out[i] = s.slots[i].inst
	}
	return out
}

// Tick runs every enabled Ticker in declaration order.
func (s *Set) Tick(w *ecs.World) {
	for i := 0; i < len(s.slots); i++ {
		sl := &s.slots[i]
		if !sl.enabled() {
			continue
		}
		if t, ok := sl.inst.(Ticker); ok {
			t.Tick(w)
		}
	}
}

func (s *Set) conditionChanged(name string) {
	if !s.started {
		return
	}
	s.pending = append(s.pending, name)
	s.settle()
}

// settle drains pending condition changes. Notifications fired while
// settling may change further conditions; those are queued behind.
func (s *Set) settle() {
	if s.settling {
		return
	}
	s.settling = true
	defer func() { s.settling = false }()

	steps := 0
	for len(s.pending) > 0 {
		name := s.pending[0]
		s.pending = s.pending[1:]
		for _, idx := range s.watchers[name] {
			s.refresh(idx)
		}
		steps++
		if steps > maxSettleSteps {
			s.log.WithField("condition", name).Error("trait: condition cascade did not settle")
			s.pending = nil
			return
		}
	}
	s.pending = s.pending[:0]
}

func (s *Set) refresh(idx int) {
	if idx >= len(s.slots) {
		return
	}
	sl := &s.slots[idx]
	if sl.cond == nil {
		return
	}
	want := sl.cond.requires.True(s.conditions)
	if want == sl.cond.enabled {
		return
	}
	sl.cond.enabled = want
	s.revision++
	n, notify := sl.inst.(EnabledNotifier)
	if want {
		if r, ok := sl.inst.(Resetter); ok {
			r.Reset()
		}
		if notify {
			n.TraitEnabled(s.self)
		}
		return
	}
	if notify {
		n.TraitDisabled(s.self)
	}
}

func (s *Set) rebuildWatchers() {
	s.watchers = map[string][]int{}
	for i := range s.slots {
		if s.slots[i].cond == nil {
			continue
		}
		for _, name := range s.slots[i].cond.RequiresCondition().Variables() {
			s.watchers[name] = append(s.watchers[name], i)
		}
	}
}
