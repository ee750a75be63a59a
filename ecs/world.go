package ecs

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ecs/component"
)

// World owns entities, component stores, system order and the frame-end
// task queue. Everything but AddFrameEndTask must be called from the
// simulation goroutine.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	scheduler Scheduler
	frameEnd  frameEndQueue
	frame     uint64
	log       logrus.FieldLogger
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores: map[component.ComponentID]*SparseSet{},
		log:    logrus.StandardLogger(),
	}
}

// SetLogger replaces the world logger.
func (w *World) SetLogger(log logrus.FieldLogger) {
	if w == nil || log == nil {
		return
	}
	w.log = log
}

// Logger returns the world logger.
func (w *World) Logger() logrus.FieldLogger {
	if w == nil || w.log == nil {
		return logrus.StandardLogger()
	}
	return w.log
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes e and all of its components.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns all live entities in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.alive()
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Frame returns the number of completed ticks.
func (w *World) Frame() uint64 {
	if w == nil {
		return 0
	}
	return w.frame
}

// Update runs all systems once, then drains the frame-end tasks queued
// before the drain started.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.scheduler.Update(w)
	w.drainFrameEndTasks()
	w.frame++
}

func (w *World) store(id component.ComponentID) *SparseSet {
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
