package tengobind

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/script"
)

// Scripts define world_loaded(engine, state) and tick(engine, state). The
// whole program reruns for each phase; state is the map kept between runs.
const lifecycleDispatchScript = `
if __phase == "world_loaded" {
	world_loaded(__engine, __state)
} else if __phase == "tick" {
	tick(__engine, __state)
}
`

// Runner runs one tengo map script against a host.
type Runner struct {
	name     string
	host     *script.Host
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap
	log      logrus.FieldLogger
}

// NewRunner compiles src. Compilation errors, including a missing
// world_loaded or tick function, are returned here.
func NewRunner(host *script.Host, name string, src []byte, log logrus.FieldLogger) (*Runner, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := tengo.NewScript([]byte(string(src) + "\n" + lifecycleDispatchScript))
	_ = s.Add("__phase", "")
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("tengobind: compile %s: %w", name, err)
	}

	r := &Runner{
		name:     name,
		host:     host,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		log:      log.WithField("script", name),
	}
	r.engine = r.buildEngine()
	return r, nil
}

// State returns the value stored under key in the script state map.
func (r *Runner) State(key string) (tengo.Object, bool) {
	v, ok := r.state.Value[key]
	return v, ok
}

func (r *Runner) WorldLoaded() error {
	return r.runPhase("world_loaded")
}

func (r *Runner) Tick() error {
	return r.runPhase("tick")
}

// Update runs the tick phase as a world system. Failures are logged and do
// not stop the simulation.
func (r *Runner) Update(*ecs.World) {
	if err := r.Tick(); err != nil {
		r.log.WithError(err).Error("tengobind: tick failed")
	}
}

func (r *Runner) runPhase(phase string) error {
	if err := r.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := r.compiled.Set("__engine", r.engine); err != nil {
		return err
	}
	if err := r.compiled.Set("__state", r.state); err != nil {
		return err
	}
	if err := r.compiled.Run(); err != nil {
		return fmt.Errorf("tengobind: %s %s: %w", r.name, phase, err)
	}
	return nil
}

func (r *Runner) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["player"] = &tengo.UserFunction{Name: "player", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, ok := tengo.ToString(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "name", Expected: "string", Found: args[0].TypeName()}
		}
		b, err := r.host.PlayerByName(name)
		if err != nil {
			return errorObject(err), nil
		}
		return newHandle(b), nil
	}}

	values["players"] = &tengo.UserFunction{Name: "players", Value: func(args ...tengo.Object) (tengo.Object, error) {
		players := r.host.Players()
		arr := make([]tengo.Object, 0, len(players))
		for _, e := range players {
			arr = append(arr, handleObject(r.host, script.GroupPlayer, e))
		}
		return &tengo.Array{Value: arr}, nil
	}}

	values["local_player"] = &tengo.UserFunction{Name: "local_player", Value: func(args ...tengo.Object) (tengo.Object, error) {
		local := r.host.Context().LocalPlayer
		if !local.Valid() {
			return tengo.UndefinedValue, nil
		}
		return handleObject(r.host, script.GroupPlayer, local), nil
	}}

	values["frame"] = &tengo.UserFunction{Name: "frame", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(r.host.Context().World.Frame())}, nil
	}}

	values["cell"] = &tengo.UserFunction{Name: "cell", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		x, okX := tengo.ToInt(args[0])
		y, okY := tengo.ToInt(args[1])
		if !okX || !okY {
			return nil, tengo.ErrInvalidArgumentType{Name: "cell", Expected: "int", Found: args[0].TypeName()}
		}
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"x": &tengo.Int{Value: int64(x)},
			"y": &tengo.Int{Value: int64(y)},
		}}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			s, _ := tengo.ToString(arg)
			parts = append(parts, s)
		}
		r.log.WithField("frame", r.host.Context().World.Frame()).Info(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
