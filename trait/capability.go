package trait

import "strings"

// Capability is a set of behavior tags a trait type satisfies. Lookups filter
// by tag, so a trait type never has to extend another to be found.
type Capability uint64

const (
	CapTooltip Capability = 1 << iota
	CapBuildPaletteTooltip
	CapEditorTooltip
	CapConditionGranter
	CapBotAI
	CapTechTree
	CapPrerequisite
	CapAttack
	CapMobile
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapTooltip, "tooltip"},
	{CapBuildPaletteTooltip, "build_palette_tooltip"},
	{CapEditorTooltip, "editor_tooltip"},
	{CapConditionGranter, "condition_granter"},
	{CapBotAI, "bot_ai"},
	{CapTechTree, "tech_tree"},
	{CapPrerequisite, "prerequisite"},
	{CapAttack, "attack"},
	{CapMobile, "mobile"},
}

// Has reports whether c includes every tag in other.
func (c Capability) Has(other Capability) bool {
	return other != 0 && c&other == other
}

func (c Capability) String() string {
	var parts []string
	for _, n := range capabilityNames {
		if c&n.cap != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
