// Package ai declares the narrow capability the simulation core needs from a
// bot implementation. Decision making itself lives outside this module.
package ai

import (
	"math/rand"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// Planner is the bot collaborator a BotAI trait drives.
type Planner interface {
	// QueueProduction asks the bot to build actorType at cell.
	QueueProduction(actorType string, cell component.CPos) bool
	// RandomBaseCenter suggests a base location. ok is false when the bot
	// has no base yet.
	RandomBaseCenter() (cell component.CPos, ok bool)
}

// PlannerFactory creates the planner for a bot player.
type PlannerFactory func(player ecs.Entity, botType string) Planner

// Request is one production request recorded by StaticPlanner.
type Request struct {
	ActorType string
	Cell      component.CPos
}

// StaticPlanner accepts every request and picks base centers from a fixed
// list. It stands in for a real bot in tools and tests.
type StaticPlanner struct {
	Centers  []component.CPos
	Requests []Request
	Reject   map[string]bool

	rnd *rand.Rand
}

func NewStaticPlanner(seed int64, centers ...component.CPos) *StaticPlanner {
	return &StaticPlanner{
		Centers: centers,
		rnd:     rand.New(rand.NewSource(seed)),
	}
}

func (p *StaticPlanner) QueueProduction(actorType string, cell component.CPos) bool {
	if p.Reject[actorType] {
		return false
	}
	p.Requests = append(p.Requests, Request{ActorType: actorType, Cell: cell})
	return true
}

func (p *StaticPlanner) RandomBaseCenter() (component.CPos, bool) {
	if len(p.Centers) == 0 {
		return component.CPos{}, false
	}
	if p.rnd == nil {
		return p.Centers[0], true
	}
	return p.Centers[p.rnd.Intn(len(p.Centers))], true
}
