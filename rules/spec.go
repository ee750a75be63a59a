package rules

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/skirmish/ecs/component"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("rules: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("rules: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PlayerSpec declares one player slot of a scenario.
type PlayerSpec struct {
	InternalName string          `yaml:"internal_name"`
	Name         string          `yaml:"name"`
	Faction      string          `yaml:"faction"`
	Color        component.Color `yaml:"color"`
	Team         int             `yaml:"team"`
	Spawn        int             `yaml:"spawn"`
	Bot          string          `yaml:"bot"`
	NonCombatant bool            `yaml:"non_combatant"`
	Local        bool            `yaml:"local"`
}

// ActorSpec places one actor at scenario start.
type ActorSpec struct {
	Type     string         `yaml:"type"`
	Owner    string         `yaml:"owner"`
	Location component.CPos `yaml:"location"`
}

// ScenarioSpec is the starting state a match is built from.
type ScenarioSpec struct {
	Name        string           `yaml:"name"`
	Rules       string           `yaml:"rules"`
	Script      string           `yaml:"script"`
	Players     []PlayerSpec     `yaml:"players"`
	Actors      []ActorSpec      `yaml:"actors"`
	BaseCenters []component.CPos `yaml:"base_centers"`
}

func LoadScenario(filename string) (ScenarioSpec, error) {
	spec, err := LoadSpec[ScenarioSpec](filename)
	if err != nil {
		return spec, err
	}
	seen := map[string]bool{}
	for _, p := range spec.Players {
		if p.InternalName == "" {
			return spec, fmt.Errorf("rules: scenario %s: player without internal_name", filename)
		}
		if seen[p.InternalName] {
			return spec, fmt.Errorf("rules: scenario %s: duplicate player %q", filename, p.InternalName)
		}
		seen[p.InternalName] = true
	}
	return spec, nil
}
