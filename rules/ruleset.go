package rules

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/skirmish/trait"
)

// PlayerActorType is the ruleset entry every player actor is built from.
const PlayerActorType = "player"

var ErrUnknownActor = errors.New("rules: unknown actor type")

// TraitEntry is one configured trait of an actor type. Key is the YAML key,
// which is the trait type optionally followed by "@suffix" so one actor can
// carry several traits of the same type.
type TraitEntry struct {
	Key  string
	Type string
	Info trait.Info
}

// ActorInfo is the immutable definition of an actor type.
type ActorInfo struct {
	Name   string
	Traits []TraitEntry
}

// HasCapability reports whether any configured trait has cap.
func (a *ActorInfo) HasCapability(cap trait.Capability) bool {
	_, ok := a.FirstInfo(cap)
	return ok
}

// FirstInfo returns the first configured info with cap.
func (a *ActorInfo) FirstInfo(cap trait.Capability) (trait.Info, bool) {
	for _, t := range a.Traits {
		if t.Info.Capabilities().Has(cap) {
			return t.Info, true
		}
	}
	return nil, false
}

// Ruleset is the set of instantiable actor types. Abstract templates (names
// starting with '^') are only reachable through inherits.
type Ruleset struct {
	actors map[string]*ActorInfo
	names  []string
}

// Actor looks up an actor type by name.
func (r *Ruleset) Actor(name string) (*ActorInfo, bool) {
	if r == nil {
		return nil, false
	}
	a, ok := r.actors[name]
	return a, ok
}

// ActorNames returns actor type names in declaration order.
func (r *Ruleset) ActorNames() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

// LoadRuleset loads and parses a rules file.
func LoadRuleset(filename string, types *trait.Types) (*Ruleset, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("rules: load %s: %w", filename, err)
	}
	rs, err := Parse(data, types)
	if err != nil {
		return nil, fmt.Errorf("rules: %s: %w", filename, err)
	}
	return rs, nil
}

type rawEntry struct {
	key    string
	node   *yaml.Node
	remove bool
}

type rawActor struct {
	inherits []string
	entries  []rawEntry
}

// Parse decodes a ruleset. Identical input always yields identical actor
// and trait order.
func Parse(data []byte, types *trait.Types) (*Ruleset, error) {
	if types == nil {
		types = trait.DefaultTypes()
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	rs := &Ruleset{actors: map[string]*ActorInfo{}}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return rs, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top level must be a mapping of actor types", root.Line)
	}

	raws := map[string]*rawActor{}
	var order []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		if _, dup := raws[name]; dup {
			return nil, fmt.Errorf("line %d: duplicate actor %q", root.Content[i].Line, name)
		}
		raw, err := parseRawActor(name, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		raws[name] = raw
		order = append(order, name)
	}

	for _, name := range order {
		if strings.HasPrefix(name, "^") {
			continue
		}
		entries, err := resolveEntries(name, raws, nil)
		if err != nil {
			return nil, err
		}
		info := &ActorInfo{Name: name}
		for _, e := range entries {
			typ, _, _ := strings.Cut(e.key, "@")
			ti, err := types.Decode(typ, e.node)
			if err != nil {
				return nil, fmt.Errorf("actor %q: %s: %w", name, e.key, err)
			}
			info.Traits = append(info.Traits, TraitEntry{Key: e.key, Type: typ, Info: ti})
		}
		rs.actors[name] = info
		rs.names = append(rs.names, name)
	}
	return rs, nil
}

func parseRawActor(name string, node *yaml.Node) (*rawActor, error) {
	raw := &rawActor{}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return raw, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: actor %q must be a mapping of traits", node.Line, name)
	}
	seen := map[string]bool{}
	for j := 0; j+1 < len(node.Content); j += 2 {
		key := node.Content[j].Value
		val := node.Content[j+1]
		if seen[key] {
			return nil, fmt.Errorf("line %d: actor %q: duplicate trait %q", node.Content[j].Line, name, key)
		}
		seen[key] = true
		switch {
		case key == "inherits":
			var parents []string
			if val.Kind == yaml.SequenceNode {
				if err := val.Decode(&parents); err != nil {
					return nil, fmt.Errorf("actor %q: inherits: %w", name, err)
				}
			} else {
				parents = []string{val.Value}
			}
			raw.inherits = append(raw.inherits, parents...)
		case strings.HasPrefix(key, "-"):
			raw.entries = append(raw.entries, rawEntry{key: strings.TrimPrefix(key, "-"), remove: true})
		default:
			raw.entries = append(raw.entries, rawEntry{key: key, node: val})
		}
	}
	return raw, nil
}

// resolveEntries flattens inheritance: parents first, in order; an own entry
// with an inherited key replaces it in place; "-key" removes it.
func resolveEntries(name string, raws map[string]*rawActor, stack []string) ([]rawEntry, error) {
	for _, s := range stack {
		if s == name {
			return nil, fmt.Errorf("actor %q: inheritance cycle %s", name, strings.Join(append(stack, name), " -> "))
		}
	}
	raw, ok := raws[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActor, name)
	}
	stack = append(stack, name)

	var out []rawEntry
	index := map[string]int{}
	put := func(e rawEntry) {
		if i, ok := index[e.key]; ok {
			out[i] = e
			return
		}
		index[e.key] = len(out)
		out = append(out, e)
	}
	for _, parent := range raw.inherits {
		inherited, err := resolveEntries(parent, raws, stack)
		if err != nil {
			return nil, fmt.Errorf("actor %q: %w", name, err)
		}
		for _, e := range inherited {
			put(e)
		}
	}
	for _, e := range raw.entries {
		if e.remove {
			if i, ok := index[e.key]; ok {
				out = append(out[:i], out[i+1:]...)
				delete(index, e.key)
				for k, v := range index {
					if v > i {
						index[k] = v - 1
					}
				}
			}
			continue
		}
		put(e)
	}
	return out, nil
}
