// Package script exposes simulation state to embedded scripting runtimes
// through a registry of named, typed and documented property groups.
package script

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/rules"
)

// Context is the simulation handle every bridge call reads through.
type Context struct {
	World *ecs.World
	Rules *rules.Ruleset
	// LocalPlayer is the player this client controls; zero for servers.
	LocalPlayer ecs.Entity
	// RenderPlayer is the player whose view tooltips are rendered for.
	RenderPlayer ecs.Entity
	Log          logrus.FieldLogger
}

func (c *Context) logger() logrus.FieldLogger {
	if c == nil || c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
