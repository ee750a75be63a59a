package trait

import (
	"gopkg.in/yaml.v3"

	"github.com/milk9111/skirmish/actor"
	"github.com/milk9111/skirmish/ecs"
)

// TooltipText is what a tooltip widget needs from an info.
type TooltipText interface {
	TooltipForPlayerStance(stance actor.Stance) string
	IsOwnerRowVisible() bool
}

// TooltipProvider is implemented by tooltip instances.
type TooltipProvider interface {
	Instance
	TooltipText() TooltipText
	Owner() ecs.Entity
}

// TooltipInfo is shown in the game world, or in the build palette when the
// actor has no build_palette_tooltip, while the cursor hovers the actor.
type TooltipInfo struct {
	ConditionalInfo `yaml:",inline"`

	Name string `yaml:"name"`
	// GenericName is shown instead of Name to the stances in GenericVisibility.
	GenericName         string       `yaml:"generic_name"`
	GenericStancePrefix bool         `yaml:"generic_stance_prefix"`
	GenericVisibility   actor.Stance `yaml:"generic_visibility"`
	ShowOwnerRow        bool         `yaml:"show_owner_row"`
}

func decodeTooltip(node *yaml.Node) (Info, error) {
	info := &TooltipInfo{GenericStancePrefix: true, ShowOwnerRow: true}
	if err := DecodeInto(node, info); err != nil {
		return nil, err
	}
	return info, info.CompileConditions()
}

func (i *TooltipInfo) TraitType() string        { return "tooltip" }
func (i *TooltipInfo) Capabilities() Capability { return CapTooltip }

func (i *TooltipInfo) Create(init *Init) Instance {
	return &Tooltip{Conditional: NewConditional(&i.ConditionalInfo), info: i, owner: init.Owner}
}

func (i *TooltipInfo) TooltipForPlayerStance(stance actor.Stance) string {
	if stance == actor.StanceNone || !i.GenericVisibility.HasStance(stance) {
		return i.Name
	}
	if i.GenericStancePrefix && stance == actor.StanceAlly {
		return "Allied " + i.GenericName
	}
	if i.GenericStancePrefix && stance == actor.StanceEnemy {
		return "Enemy " + i.GenericName
	}
	return i.GenericName
}

func (i *TooltipInfo) IsOwnerRowVisible() bool { return i.ShowOwnerRow }

type Tooltip struct {
	Conditional
	info  *TooltipInfo
	owner ecs.Entity
}

func (t *Tooltip) TraitInfo() Info          { return t.info }
func (t *Tooltip) TooltipText() TooltipText { return t.info }
func (t *Tooltip) Owner() ecs.Entity        { return t.owner }

// BuildPaletteTooltipInfo is shown in the build palette widget.
type BuildPaletteTooltipInfo struct {
	ConditionalInfo `yaml:",inline"`

	Name string `yaml:"name"`
}

func decodeBuildPaletteTooltip(node *yaml.Node) (Info, error) {
	info := &BuildPaletteTooltipInfo{}
	if err := DecodeInto(node, info); err != nil {
		return nil, err
	}
	return info, info.CompileConditions()
}

func (i *BuildPaletteTooltipInfo) TraitType() string        { return "build_palette_tooltip" }
func (i *BuildPaletteTooltipInfo) Capabilities() Capability { return CapBuildPaletteTooltip }

func (i *BuildPaletteTooltipInfo) Create(init *Init) Instance {
	return &BuildPaletteTooltip{Conditional: NewConditional(&i.ConditionalInfo), info: i, owner: init.Owner}
}

func (i *BuildPaletteTooltipInfo) TooltipForPlayerStance(actor.Stance) string { return "" }
func (i *BuildPaletteTooltipInfo) IsOwnerRowVisible() bool                    { return false }

type BuildPaletteTooltip struct {
	Conditional
	info  *BuildPaletteTooltipInfo
	owner ecs.Entity
}

func (t *BuildPaletteTooltip) TraitInfo() Info          { return t.info }
func (t *BuildPaletteTooltip) TooltipText() TooltipText { return t.info }
func (t *BuildPaletteTooltip) Owner() ecs.Entity        { return t.owner }

// EditorOnlyTooltipInfo is shown in the map editor. It has no instance.
type EditorOnlyTooltipInfo struct {
	Name string `yaml:"name"`
}

func decodeEditorOnlyTooltip(node *yaml.Node) (Info, error) {
	info := &EditorOnlyTooltipInfo{}
	return info, DecodeInto(node, info)
}

func (i *EditorOnlyTooltipInfo) TraitType() string        { return "editor_only_tooltip" }
func (i *EditorOnlyTooltipInfo) Capabilities() Capability { return CapEditorTooltip }
func (i *EditorOnlyTooltipInfo) Create(*Init) Instance    { return nil }

// PaletteTooltip returns the build palette tooltip of an actor, falling back
// to its world tooltip.
func PaletteTooltip(s *Set) (TooltipProvider, bool) {
	if inst, ok := s.FirstEnabled(CapBuildPaletteTooltip); ok {
		if tp, ok := inst.(TooltipProvider); ok {
			return tp, true
		}
	}
	return WorldTooltip(s)
}

// WorldTooltip returns the first enabled world tooltip.
func WorldTooltip(s *Set) (TooltipProvider, bool) {
	inst, ok := s.FirstEnabled(CapTooltip)
	if !ok {
		return nil, false
	}
	tp, ok := inst.(TooltipProvider)
	return tp, ok
}
