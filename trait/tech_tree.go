package trait

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/skirmish/actor"
	"github.com/milk9111/skirmish/ecs"
)

// TechTreeInfo answers prerequisite queries for a player actor.
type TechTreeInfo struct{}

func decodeTechTree(node *yaml.Node) (Info, error) {
	info := &TechTreeInfo{}
	return info, DecodeInto(node, info)
}

func (i *TechTreeInfo) TraitType() string        { return "tech_tree" }
func (i *TechTreeInfo) Capabilities() Capability { return CapTechTree }

func (i *TechTreeInfo) Create(init *Init) Instance {
	return &TechTree{info: i, world: init.World, player: init.Self}
}

type TechTree struct {
	info   *TechTreeInfo
	world  *ecs.World
	player ecs.Entity
}

func (t *TechTree) TraitInfo() Info { return t.info }

// HasPrerequisites reports whether every named prerequisite is provided by
// a living actor of the player. A prerequisite is provided by an actor of
// that type or by an enabled provides_prerequisite trait naming it.
// Prerequisites prefixed with '~' are optional and always satisfied.
func (t *TechTree) HasPrerequisites(prerequisites []string) bool {
	provided := map[string]bool{}
	actor.ForEachOwned(t.world, t.player, func(e ecs.Entity, a *actor.Actor) {
		provided[a.Type] = true
		set, ok := SetOf(t.world, e)
		if !ok {
			return
		}
		set.EachEnabled(CapPrerequisite, func(inst Instance) bool {
			if p, ok := inst.(*ProvidesPrerequisite); ok {
				provided[p.info.Prerequisite] = true
			}
			return true
		})
	})
	for _, name := range prerequisites {
		if len(name) > 0 && name[0] == '~' {
			continue
		}
		if !provided[name] {
			return false
		}
	}
	return true
}

// ProvidesPrerequisiteInfo makes its actor count as Prerequisite while
// enabled.
type ProvidesPrerequisiteInfo struct {
	ConditionalInfo `yaml:",inline"`

	Prerequisite string `yaml:"prerequisite"`
}

func decodeProvidesPrerequisite(node *yaml.Node) (Info, error) {
	info := &ProvidesPrerequisiteInfo{}
	if err := DecodeInto(node, info); err != nil {
		return nil, err
	}
	if info.Prerequisite == "" {
		return nil, fmt.Errorf("provides_prerequisite: prerequisite is required")
	}
	return info, info.CompileConditions()
}

func (i *ProvidesPrerequisiteInfo) TraitType() string        { return "provides_prerequisite" }
func (i *ProvidesPrerequisiteInfo) Capabilities() Capability { return CapPrerequisite }

func (i *ProvidesPrerequisiteInfo) Create(*Init) Instance {
	return &ProvidesPrerequisite{Conditional: NewConditional(&i.ConditionalInfo), info: i}
}

type ProvidesPrerequisite struct {
	Conditional
	info *ProvidesPrerequisiteInfo
}

func (p *ProvidesPrerequisite) TraitInfo() Info { return p.info }
