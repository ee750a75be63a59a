package trait

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/skirmish/condition"
	"github.com/milk9111/skirmish/ecs"
)

// GrantConditionInfo asserts Condition on its actor while enabled.
type GrantConditionInfo struct {
	ConditionalInfo `yaml:",inline"`

	Condition string `yaml:"condition"`
}

func decodeGrantCondition(node *yaml.Node) (Info, error) {
	info := &GrantConditionInfo{}
	if err := DecodeInto(node, info); err != nil {
		return nil, err
	}
	if info.Condition == "" {
		return nil, fmt.Errorf("grant_condition: condition is required")
	}
	return info, info.CompileConditions()
}

func (i *GrantConditionInfo) TraitType() string        { return "grant_condition" }
func (i *GrantConditionInfo) Capabilities() Capability { return CapConditionGranter }

func (i *GrantConditionInfo) Create(init *Init) Instance {
	return &GrantCondition{Conditional: NewConditional(&i.ConditionalInfo), info: i, state: init.Conditions}
}

type GrantCondition struct {
	Conditional
	info    *GrantConditionInfo
	state   *condition.State
	granted bool
}

func (g *GrantCondition) TraitInfo() Info { return g.info }

func (g *GrantCondition) TraitEnabled(ecs.Entity) {
	if g.granted {
		return
	}
	g.granted = true
	g.state.AssertCondition(g.info.Condition)
}

func (g *GrantCondition) TraitDisabled(ecs.Entity) {
	if !g.granted {
		return
	}
	g.granted = false
	g.state.RevokeCondition(g.info.Condition)
}

// GrantConditionAfterDelayInfo asserts Condition once the trait has been
// enabled for Delay consecutive ticks. Disabling revokes it and restarts
// the countdown.
type GrantConditionAfterDelayInfo struct {
	ConditionalInfo `yaml:",inline"`

	Condition string `yaml:"condition"`
	Delay     int    `yaml:"delay"`
}

func decodeGrantConditionAfterDelay(node *yaml.Node) (Info, error) {
	info := &GrantConditionAfterDelayInfo{Delay: 50}
	if err := DecodeInto(node, info); err != nil {
		return nil, err
	}
	if info.Condition == "" {
		return nil, fmt.Errorf("grant_condition_after_delay: condition is required")
	}
	if info.Delay < 0 {
		return nil, fmt.Errorf("grant_condition_after_delay: delay must not be negative")
	}
	return info, info.CompileConditions()
}

func (i *GrantConditionAfterDelayInfo) TraitType() string        { return "grant_condition_after_delay" }
func (i *GrantConditionAfterDelayInfo) Capabilities() Capability { return CapConditionGranter }

func (i *GrantConditionAfterDelayInfo) Create(init *Init) Instance {
	g := &GrantConditionAfterDelay{
		Conditional: NewConditional(&i.ConditionalInfo),
		info:        i,
		state:       init.Conditions,
		log:         init.Log,
	}
	g.Reset()
	return g
}

type GrantConditionAfterDelay struct {
	Conditional
	info      *GrantConditionAfterDelayInfo
	state     *condition.State
	log       logrus.FieldLogger
	remaining int
	granted   bool
}

func (g *GrantConditionAfterDelay) TraitInfo() Info { return g.info }

// Remaining returns the ticks left before the condition is granted.
func (g *GrantConditionAfterDelay) Remaining() int { return g.remaining }

func (g *GrantConditionAfterDelay) Reset() {
	g.remaining = g.info.Delay
}

func (g *GrantConditionAfterDelay) Tick(*ecs.World) {
	if g.granted {
		return
	}
	if g.remaining > 0 {
		g.remaining--
	}
	if g.remaining == 0 {
		g.granted = true
		if g.log != nil {
			g.log.WithField("condition", g.info.Condition).Debug("trait: delayed condition granted")
		}
		g.state.AssertCondition(g.info.Condition)
	}
}

func (g *GrantConditionAfterDelay) TraitEnabled(ecs.Entity) {}

func (g *GrantConditionAfterDelay) TraitDisabled(ecs.Entity) {
	if !g.granted {
		return
	}
	g.granted = false
	g.state.RevokeCondition(g.info.Condition)
}
