package ecs

import (
	"errors"
	"sync"
	"testing"
)

func TestFrameEndTasksIsolateFailures(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name   string
		failed func(w *World) error
	}{
		{"error", func(*World) error { return errBoom }},
		{"panic", func(*World) error { panic("boom") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld()
			var ran []int
			var reported []TaskError
			w.SetTaskErrorHandler(func(te TaskError) { reported = append(reported, te) })

			w.AddFrameEndTask(func(*World) error { ran = append(ran, 1); return nil })
			w.AddFrameEndTask(func(w *World) error { ran = append(ran, 2); return tt.failed(w) })
			w.AddFrameEndTask(func(*World) error { ran = append(ran, 3); return nil })

			w.Update()

			if len(ran) != 3 || ran[0] != 1 || ran[1] != 2 || ran[2] != 3 {
				t.Fatalf("ran = %v, want [1 2 3]", ran)
			}
			if len(reported) != 1 {
				t.Fatalf("expected exactly one reported failure, got %d", len(reported))
			}
			if reported[0].Index != 1 || reported[0].Frame != 0 {
				t.Fatalf("unexpected report %+v", reported[0])
			}
			if tt.name == "error" && !errors.Is(reported[0], errBoom) {
				t.Fatalf("expected reported error to wrap errBoom, got %v", reported[0])
			}
			if w.PendingFrameEndTasks() != 0 {
				t.Fatalf("queue should be empty after drain")
			}

			w.Update()
			if len(reported) != 1 {
				t.Fatalf("failure must be reported once, got %d", len(reported))
			}
		})
	}
}

func TestFrameEndTasksQueuedWhileDrainingRunNextTick(t *testing.T) {
	w := NewWorld()
	var ran []string
	w.AddFrameEndTask(func(w *World) error {
		ran = append(ran, "outer")
		w.AddFrameEndTask(func(*World) error {
			ran = append(ran, "inner")
			return nil
		})
		return nil
	})

	w.Update()
	if len(ran) != 1 || w.PendingFrameEndTasks() != 1 {
		t.Fatalf("after first tick ran = %v pending = %d", ran, w.PendingFrameEndTasks())
	}

	w.Update()
	if len(ran) != 2 || ran[1] != "inner" {
		t.Fatalf("after second tick ran = %v", ran)
	}
}

func TestFrameEndTasksFromGoroutines(t *testing.T) {
	w := NewWorld()
	const workers, each = 8, 50

	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				w.AddFrameEndTask(func(*World) error {
					mu.Lock()
					count++
					mu.Unlock()
					return nil
				})
			}
		}()
	}
	wg.Wait()

	if got := w.PendingFrameEndTasks(); got != workers*each {
		t.Fatalf("pending = %d, want %d", got, workers*each)
	}
	w.FlushFrameEndTasks()
	if count != workers*each {
		t.Fatalf("ran %d tasks, want %d", count, workers*each)
	}
}
