package ecs

import (
	"fmt"
	"sync"
)

// FrameEndTask is a deferred mutation applied once the tick's systems have
// all run. A returned error is reported and does not stop later tasks.
type FrameEndTask func(w *World) error

// TaskError describes one failed frame-end task.
type TaskError struct {
	Frame uint64
	Index int
	Err   error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("ecs: frame %d task %d: %v", e.Frame, e.Index, e.Err)
}

func (e TaskError) Unwrap() error {
	return e.Err
}

// frameEndQueue is the only world state guarded for cross-goroutine use.
type frameEndQueue struct {
	mu      sync.Mutex
	tasks   []FrameEndTask
	onError func(TaskError)
}

// AddFrameEndTask enqueues fn to run at the end of the current tick. Safe to
// call from any goroutine. Tasks queued while the queue drains run at the
// next drain.
func (w *World) AddFrameEndTask(fn FrameEndTask) {
	if w == nil || fn == nil {
		return
	}
	w.frameEnd.mu.Lock()
	w.frameEnd.tasks = append(w.frameEnd.tasks, fn)
	w.frameEnd.mu.Unlock()
}

// PendingFrameEndTasks returns the number of queued tasks.
func (w *World) PendingFrameEndTasks() int {
	if w == nil {
		return 0
	}
	w.frameEnd.mu.Lock()
	defer w.frameEnd.mu.Unlock()
	return len(w.frameEnd.tasks)
}

// SetTaskErrorHandler registers fn to receive each failed frame-end task.
func (w *World) SetTaskErrorHandler(fn func(TaskError)) {
	if w == nil {
		return
	}
	w.frameEnd.mu.Lock()
	w.frameEnd.onError = fn
	w.frameEnd.mu.Unlock()
}

// FlushFrameEndTasks drains the queue outside of Update. Used once world
// construction completes so deferred setup runs before the first tick.
func (w *World) FlushFrameEndTasks() {
	if w == nil {
		return
	}
	w.drainFrameEndTasks()
}

func (w *World) drainFrameEndTasks() {
	w.frameEnd.mu.Lock()
	tasks := w.frameEnd.tasks
	w.frameEnd.tasks = nil
	onError := w.frameEnd.onError
	w.frameEnd.mu.Unlock()

	for i, task := range tasks {
		if err := runFrameEndTask(w, task); err != nil {
			te := TaskError{Frame: w.frame, Index: i, Err: err}
			w.Logger().WithError(err).WithField("frame", w.frame).WithField("task", i).Error("ecs: frame end task failed")
			if onError != nil {
				onError(te)
			}
		}
	}
}

func runFrameEndTask(w *World, task FrameEndTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task(w)
}
