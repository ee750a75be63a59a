package luabind

import (
	"fmt"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/script"
)

// Runner runs one Lua map script against a host. The script's top level
// runs once at load; the optional globals WorldLoaded and Tick are called
// for the matching lifecycle phase.
type Runner struct {
	name  string
	host  *script.Host
	state *lua.State
	log   logrus.FieldLogger
}

func NewRunner(host *script.Host, name string, src []byte, log logrus.FieldLogger) (*Runner, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Runner{
		name:  name,
		host:  host,
		state: lua.NewState(),
		log:   log.WithField("script", name),
	}
	lua.OpenLibraries(r.state)
	registerHandleType(r.state)
	r.registerEngine()

	if err := lua.LoadBuffer(r.state, string(src), name, "t"); err != nil {
		return nil, fmt.Errorf("luabind: load %s: %w", name, err)
	}
	if err := r.protectedCall(0); err != nil {
		return nil, fmt.Errorf("luabind: run %s: %w", name, err)
	}
	return r, nil
}

// State exposes the Lua state for inspection.
func (r *Runner) State() *lua.State { return r.state }

func (r *Runner) WorldLoaded() error {
	return r.callGlobal("WorldLoaded")
}

func (r *Runner) Tick() error {
	return r.callGlobal("Tick")
}

// Update runs Tick as a world system. Failures are logged and do not stop
// the simulation.
func (r *Runner) Update(*ecs.World) {
	if err := r.Tick(); err != nil {
		r.log.WithError(err).Error("luabind: tick failed")
	}
}

func (r *Runner) callGlobal(name string) error {
	r.state.Global(name)
	if !r.state.IsFunction(-1) {
		r.state.Pop(1)
		return nil
	}
	if err := r.protectedCall(0); err != nil {
		return fmt.Errorf("luabind: %s %s: %w", r.name, name, err)
	}
	return nil
}

// protectedCall calls the function below nargs arguments and restores the
// stack, turning a Lua error into a Go error.
func (r *Runner) protectedCall(nargs int) error {
	l := r.state
	top := l.Top() - nargs - 1
	defer l.SetTop(top)
	if err := l.ProtectedCall(nargs, 0, 0); err != nil {
		if msg, ok := l.ToString(-1); ok && msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	return nil
}

func (r *Runner) registerEngine() {
	l := r.state
	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "Player", Function: r.enginePlayer},
		{Name: "Players", Function: r.enginePlayers},
		{Name: "LocalPlayer", Function: r.engineLocalPlayer},
		{Name: "Frame", Function: r.engineFrame},
		{Name: "Cell", Function: r.engineCell},
		{Name: "Log", Function: r.engineLog},
	}, 0)
	l.SetGlobal("Engine")
}

func (r *Runner) enginePlayer(l *lua.State) int {
	name := lua.CheckString(l, 1)
	b, err := r.host.PlayerByName(name)
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
		return 0
	}
	pushHandle(l, b)
	return 1
}

func (r *Runner) enginePlayers(l *lua.State) int {
	players := r.host.Players()
	l.CreateTable(len(players), 0)
	for i, e := range players {
		pushEntity(l, r.host, script.GroupPlayer, e)
		l.RawSetInt(-2, i+1)
	}
	return 1
}

func (r *Runner) engineLocalPlayer(l *lua.State) int {
	local := r.host.Context().LocalPlayer
	if !local.Valid() {
		l.PushNil()
		return 1
	}
	pushEntity(l, r.host, script.GroupPlayer, local)
	return 1
}

func (r *Runner) engineFrame(l *lua.State) int {
	l.PushInteger(int(r.host.Context().World.Frame()))
	return 1
}

func (r *Runner) engineCell(l *lua.State) int {
	x := lua.CheckInteger(l, 1)
	y := lua.CheckInteger(l, 2)
	l.CreateTable(0, 2)
	l.PushInteger(x)
	l.SetField(-2, "x")
	l.PushInteger(y)
	l.SetField(-2, "y")
	return 1
}

func (r *Runner) engineLog(l *lua.State) int {
	parts := make([]string, 0, l.Top())
	for i := 1; i <= l.Top(); i++ {
		s, _ := lua.ToStringMeta(l, i)
		l.Pop(1)
		parts = append(parts, s)
	}
	r.log.WithField("frame", r.host.Context().World.Frame()).Info(strings.Join(parts, " "))
	return 0
}
