package trait

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/skirmish/ai"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// BotAIInfo attaches a bot planner to a player actor. Rules gate it on the
// "bot.<type>" condition the player builder asserts for bot players.
type BotAIInfo struct {
	ConditionalInfo `yaml:",inline"`

	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

func decodeBotAI(node *yaml.Node) (Info, error) {
	info := &BotAIInfo{}
	if err := DecodeInto(node, info); err != nil {
		return nil, err
	}
	if info.Type == "" {
		return nil, fmt.Errorf("bot_ai: type is required")
	}
	return info, info.CompileConditions()
}

func (i *BotAIInfo) TraitType() string        { return "bot_ai" }
func (i *BotAIInfo) Capabilities() Capability { return CapBotAI }

func (i *BotAIInfo) Create(init *Init) Instance {
	b := &BotAI{Conditional: NewConditional(&i.ConditionalInfo), info: i, player: init.Self}
	if init.Planners != nil {
		b.planner = init.Planners(init.Self, i.Type)
	}
	return b
}

// BotAI forwards production and base queries to the external planner.
type BotAI struct {
	Conditional
	info    *BotAIInfo
	player  ecs.Entity
	planner ai.Planner
}

func (b *BotAI) TraitInfo() Info { return b.info }

// BotType returns the configured bot type.
func (b *BotAI) BotType() string { return b.info.Type }

// QueueProductionItem asks the planner to build actorType at cell.
func (b *BotAI) QueueProductionItem(actorType string, cell component.CPos) bool {
	if b.planner == nil || !b.IsTraitEnabled() {
		return false
	}
	return b.planner.QueueProduction(actorType, cell)
}

// GetRandomBaseCenter returns the planner's suggestion or the zero cell.
func (b *BotAI) GetRandomBaseCenter() component.CPos {
	if b.planner == nil || !b.IsTraitEnabled() {
		return component.CPos{}
	}
	cell, ok := b.planner.RandomBaseCenter()
	if !ok {
		return component.CPos{}
	}
	return cell
}
