// Package trait composes behavior onto simulation entities. An Info is the
// immutable, configured description of a behavior shared by every actor of
// a type; an Instance is the live state Info.Create builds for one entity.
package trait

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ai"
	"github.com/milk9111/skirmish/condition"
	"github.com/milk9111/skirmish/ecs"
)

// Info is a decoded trait definition. Implementations must not be mutated
// after decoding.
type Info interface {
	TraitType() string
	Capabilities() Capability
	// Create returns the per-entity instance, or nil for info-only traits.
	Create(init *Init) Instance
}

// Init carries what an Info needs to build an instance for one entity.
type Init struct {
	World      *ecs.World
	Self       ecs.Entity
	Owner      ecs.Entity
	ActorType  string
	Conditions *condition.State
	Planners   ai.PlannerFactory
	Log        logrus.FieldLogger
}

// Instance is the live trait bound to one entity.
type Instance interface {
	TraitInfo() Info
}

// Ticker is implemented by instances with per-tick behavior. Only enabled
// instances are ticked.
type Ticker interface {
	Tick(w *ecs.World)
}

// EnabledNotifier receives conditional activity transitions, exactly once
// per transition.
type EnabledNotifier interface {
	TraitEnabled(self ecs.Entity)
	TraitDisabled(self ecs.Entity)
}

// Resetter clears transient state. It is called right before a disabled
// conditional trait is enabled again.
type Resetter interface {
	Reset()
}

// ConditionalInfo is embedded (inline) by infos whose instances are gated on
// a condition expression.
type ConditionalInfo struct {
	RequiresCondition string `yaml:"requires_condition"`

	requires *condition.Expr
}

// CompileConditions parses RequiresCondition. Decoders call it once.
func (c *ConditionalInfo) CompileConditions() error {
	expr, err := condition.Parse(c.RequiresCondition)
	if err != nil {
		return err
	}
	c.requires = expr
	return nil
}

// Requires returns the compiled gating expression.
func (c *ConditionalInfo) Requires() *condition.Expr {
	if c.requires == nil {
		return &condition.Expr{}
	}
	return c.requires
}
