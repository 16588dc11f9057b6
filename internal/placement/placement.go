// Package placement implements the drag-and-drop task movement protocol as
// an explicit two-phase exchange: BeginDrag captures the dragged task,
// Drop consumes it and issues the move.
package placement

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Mover is the store surface the engine moves tasks through. Moving a task
// onto its current column must be a no-op that issues no remote call.
type Mover interface {
	MoveTask(ctx context.Context, taskID, columnID uuid.UUID) error
}

// Engine tracks at most one in-flight drag. Starting a new drag silently
// replaces any prior uncommitted one.
type Engine struct {
	mu      sync.Mutex
	store   Mover
	pending *uuid.UUID
}

func NewEngine(store Mover) *Engine {
	return &Engine{store: store}
}

// BeginDrag records the dragged task.
func (e *Engine) BeginDrag(taskID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := taskID
	e.pending = &id
}

// Dragging reports the task currently in drag, if any.
func (e *Engine) Dragging() (uuid.UUID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return uuid.Nil, false
	}
	return *e.pending, true
}

// Cancel discards the pending drag without issuing a move.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
}

// Drop consumes the pending drag and moves the dragged task to the target
// column. Without a pending drag it does nothing. On failure the task stays
// in its original column; the drag reference is consumed either way.
func (e *Engine) Drop(ctx context.Context, columnID uuid.UUID) error {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	if pending == nil {
		return nil
	}
	return e.store.MoveTask(ctx, *pending, columnID)
}
