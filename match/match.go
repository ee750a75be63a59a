// Package match assembles a playable simulation from a scenario: ruleset,
// world, players, starting actors, map script and the tick loop.
package match

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ai"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/entity"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/rules"
	"github.com/milk9111/skirmish/script"
	"github.com/milk9111/skirmish/script/luabind"
	"github.com/milk9111/skirmish/script/tengobind"
	"github.com/milk9111/skirmish/trait"
)

// ScriptRunner is a loaded map script. Update runs its tick phase as a
// world system.
type ScriptRunner interface {
	ecs.System
	WorldLoaded() error
	Tick() error
}

// Options configures New. Zero values select the defaults.
type Options struct {
	// Ruleset overrides the one named by the scenario.
	Ruleset *rules.Ruleset
	Types   *trait.Types
	// Planners overrides the static planners built from the scenario's
	// base centers.
	Planners ai.PlannerFactory
	Registry *script.Registry
	// Script overrides the scenario's script path; "-" disables scripting.
	Script string
	Seed   int64
	Log    logrus.FieldLogger
}

type Match struct {
	ID      uuid.UUID
	World   *ecs.World
	Rules   *rules.Ruleset
	Host    *script.Host
	Builder *entity.Builder

	players    map[string]ecs.Entity
	planners   map[ecs.Entity]*ai.StaticPlanner
	runner     ScriptRunner
	taskErrors []ecs.TaskError
	log        logrus.FieldLogger
}

// Load reads a scenario file and builds the match.
func Load(scenarioFile string, opts Options) (*Match, error) {
	spec, err := rules.LoadScenario(scenarioFile)
	if err != nil {
		return nil, err
	}
	return New(spec, opts)
}

// New builds the world for spec, creates every player and actor, flushes
// construction tasks and runs the script's world-loaded phase.
func New(spec rules.ScenarioSpec, opts Options) (*Match, error) {
	id := uuid.New()
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("match", id.String())

	rs := opts.Ruleset
	if rs == nil {
		types := opts.Types
		if types == nil {
			types = trait.DefaultTypes()
		}
		var err error
		rs, err = rules.LoadRuleset(spec.Rules, types)
		if err != nil {
			return nil, err
		}
	}

	m := &Match{
		ID:       id,
		World:    ecs.NewWorld(),
		Rules:    rs,
		players:  map[string]ecs.Entity{},
		planners: map[ecs.Entity]*ai.StaticPlanner{},
		log:      log,
	}
	m.World.SetLogger(log)
	m.World.SetTaskErrorHandler(func(te ecs.TaskError) {
		m.taskErrors = append(m.taskErrors, te)
	})

	planners := opts.Planners
	if planners == nil {
		planners = m.staticPlanners(spec, opts.Seed)
	}
	m.Builder = &entity.Builder{Rules: rs, Planners: planners, Log: log}

	ctx := &script.Context{World: m.World, Rules: rs, Log: log}
	for _, ps := range spec.Players {
		e, err := m.Builder.CreatePlayer(m.World, ps)
		if err != nil {
			return nil, fmt.Errorf("match: player %q: %w", ps.InternalName, err)
		}
		m.players[ps.InternalName] = e
		if ps.Local {
			ctx.LocalPlayer = e
			ctx.RenderPlayer = e
		}
	}
	for i, as := range spec.Actors {
		owner, ok := m.players[as.Owner]
		if !ok {
			return nil, fmt.Errorf("match: actor %d (%s): %w: %q", i, as.Type, entity.ErrUnknownOwner, as.Owner)
		}
		if _, err := m.Builder.CreateActor(m.World, as.Type, owner, as.Location); err != nil {
			return nil, fmt.Errorf("match: actor %d: %w", i, err)
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = script.DefaultRegistry(log)
	}
	m.Host = script.NewHost(registry, ctx)
	// Player bridges exist before construction completes so their
	// deferred setup runs in the flush below.
	for _, e := range m.Host.Players() {
		if _, err := m.Host.Player(e); err != nil {
			return nil, err
		}
	}

	m.World.AddSystem(system.NewTraitTickSystem())

	scriptPath := spec.Script
	if opts.Script != "" {
		scriptPath = opts.Script
	}
	if scriptPath != "" && scriptPath != "-" {
		runner, err := m.loadScript(scriptPath)
		if err != nil {
			return nil, err
		}
		m.runner = runner
		m.World.AddSystem(runner)
	}

	m.World.FlushFrameEndTasks()
	if m.runner != nil {
		if err := m.runner.WorldLoaded(); err != nil {
			return nil, err
		}
	}
	log.WithFields(logrus.Fields{
		"players": len(m.players),
		"actors":  len(spec.Actors),
		"script":  scriptPath,
	}).Info("match: world loaded")
	return m, nil
}

func (m *Match) loadScript(scriptPath string) (ScriptRunner, error) {
	src, err := rules.LoadScript(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("match: load script %s: %w", scriptPath, err)
	}
	return NewScriptRunner(m.Host, scriptPath, src, m.log)
}

// NewScriptRunner picks the runtime by file extension.
func NewScriptRunner(host *script.Host, name string, src []byte, log logrus.FieldLogger) (ScriptRunner, error) {
	switch path.Ext(name) {
	case ".tengo":
		return tengobind.NewRunner(host, name, src, log)
	case ".lua":
		return luabind.NewRunner(host, name, src, log)
	}
	return nil, fmt.Errorf("match: unsupported script %q", name)
}

func (m *Match) staticPlanners(spec rules.ScenarioSpec, seed int64) ai.PlannerFactory {
	return func(player ecs.Entity, botType string) ai.Planner {
		p, ok := m.planners[player]
		if !ok {
			p = ai.NewStaticPlanner(seed+int64(len(m.planners)), spec.BaseCenters...)
			m.planners[player] = p
		}
		return p
	}
}

// Tick advances the simulation by one frame.
func (m *Match) Tick() {
	m.World.Update()
	m.Host.Forget()
}

// Run ticks until ticks frames have run or ctx is done. ticks <= 0 runs
// until ctx is done.
func (m *Match) Run(ctx context.Context, ticks int) error {
	for i := 0; ticks <= 0 || i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.Tick()
	}
	return nil
}

// Player returns the player entity with internalName.
func (m *Match) Player(internalName string) (ecs.Entity, bool) {
	e, ok := m.players[internalName]
	return e, ok
}

// PlayerNames returns the internal names of all players, sorted.
func (m *Match) PlayerNames() []string {
	names := make([]string, 0, len(m.players))
	for name := range m.players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Planner returns the static planner of a bot player, when the default
// planners are in use.
func (m *Match) Planner(player ecs.Entity) (*ai.StaticPlanner, bool) {
	p, ok := m.planners[player]
	return p, ok
}

// TaskErrors returns the frame-end task failures reported so far.
func (m *Match) TaskErrors() []ecs.TaskError {
	return append([]ecs.TaskError(nil), m.taskErrors...)
}

// Script returns the loaded map script, if any.
func (m *Match) Script() ScriptRunner {
	return m.runner
}
