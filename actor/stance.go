package actor

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/skirmish/ecs"
)

// Stance is a set of diplomatic relationships between two players.
type Stance uint8

const (
	StanceNone    Stance = 0
	StanceEnemy   Stance = 1 << 0
	StanceNeutral Stance = 1 << 1
	StanceAlly    Stance = 1 << 2
)

func (s Stance) HasStance(other Stance) bool {
	return s&other != 0
}

func (s Stance) String() string {
	if s == StanceNone {
		return "None"
	}
	var parts []string
	if s.HasStance(StanceEnemy) {
		parts = append(parts, "Enemy")
	}
	if s.HasStance(StanceNeutral) {
		parts = append(parts, "Neutral")
	}
	if s.HasStance(StanceAlly) {
		parts = append(parts, "Ally")
	}
	return strings.Join(parts, ", ")
}

// ParseStance accepts a comma separated list such as "Ally, Enemy".
func ParseStance(s string) (Stance, error) {
	var out Stance
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "", "none":
		case "enemy":
			out |= StanceEnemy
		case "neutral":
			out |= StanceNeutral
		case "ally":
			out |= StanceAlly
		default:
			return StanceNone, fmt.Errorf("unknown stance %q", part)
		}
	}
	return out, nil
}

func (s *Stance) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseStance(value.Value)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	case yaml.SequenceNode:
		var out Stance
		for _, item := range value.Content {
			parsed, err := ParseStance(item.Value)
			if err != nil {
				return err
			}
			out |= parsed
		}
		*s = out
		return nil
	}
	return fmt.Errorf("stance must be a string or a list")
}

// StanceBetween returns how viewer regards target. Players on the same
// non-zero team, or the same player, are allies; non-combatants are neutral.
func StanceBetween(w *ecs.World, viewer, target ecs.Entity) Stance {
	if viewer == target {
		return StanceAlly
	}
	vp, ok := ecs.Get(w, viewer, PlayerComponent.Kind())
	if !ok {
		return StanceNone
	}
	tp, ok := ecs.Get(w, target, PlayerComponent.Kind())
	if !ok {
		return StanceNone
	}
	if vp.NonCombatant || tp.NonCombatant {
		return StanceNeutral
	}
	if vp.Team != 0 && vp.Team == tp.Team {
		return StanceAlly
	}
	return StanceEnemy
}
