package trait

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownTraitType   = errors.New("trait: unknown trait type")
	ErrDuplicateTraitType = errors.New("trait: duplicate trait type")
)

// Decoder turns a YAML definition into an Info. node is nil when the trait
// is declared without fields.
type Decoder func(node *yaml.Node) (Info, error)

// Types maps trait type names to decoders. It is filled once at startup and
// only read afterwards.
type Types struct {
	decoders map[string]Decoder
}

func NewTypes() *Types {
	return &Types{decoders: map[string]Decoder{}}
}

// Register adds a decoder. Registering a name twice is an error.
func (t *Types) Register(name string, dec Decoder) error {
	if name == "" || dec == nil {
		return fmt.Errorf("trait: register %q: empty name or nil decoder", name)
	}
	if _, ok := t.decoders[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTraitType, name)
	}
	t.decoders[name] = dec
	return nil
}

// MustRegister is Register for startup tables; it panics on error.
func (t *Types) MustRegister(name string, dec Decoder) {
	if err := t.Register(name, dec); err != nil {
		panic(err)
	}
}

// Decode builds the Info for a trait type.
func (t *Types) Decode(name string, node *yaml.Node) (Info, error) {
	dec, ok := t.decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTraitType, name)
	}
	info, err := dec(node)
	if err != nil {
		return nil, fmt.Errorf("trait: decode %q: %w", name, err)
	}
	return info, nil
}

// Names returns the registered type names, sorted.
func (t *Types) Names() []string {
	names := make([]string, 0, len(t.decoders))
	for name := range t.decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeInto decodes node over the defaults already set in out.
func DecodeInto[T any](node *yaml.Node, out *T) error {
	if node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil
	}
	if err := node.Decode(out); err != nil {
		return err
	}
	return nil
}

// DefaultTypes returns the registry of every built-in trait type.
func DefaultTypes() *Types {
	t := NewTypes()
	t.MustRegister("tooltip", decodeTooltip)
	t.MustRegister("build_palette_tooltip", decodeBuildPaletteTooltip)
	t.MustRegister("editor_only_tooltip", decodeEditorOnlyTooltip)
	t.MustRegister("grant_condition", decodeGrantCondition)
	t.MustRegister("grant_condition_after_delay", decodeGrantConditionAfterDelay)
	t.MustRegister("bot_ai", decodeBotAI)
	t.MustRegister("tech_tree", decodeTechTree)
	t.MustRegister("provides_prerequisite", decodeProvidesPrerequisite)
	t.MustRegister("attack", decodeAttack)
	t.MustRegister("mobile", decodeMobile)
	return t
}
