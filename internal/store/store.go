package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"taskflow/internal/model"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNameRequired is returned by CreateBoard when the name is empty.
	ErrNameRequired = errors.New("board name is required")

	// ErrNoActiveBoard is returned by task operations when no board is
	// currently active.
	ErrNoActiveBoard = errors.New("no active board")

	// ErrTaskNotFound is returned when a task id does not resolve to a task
	// of the active board.
	ErrTaskNotFound = errors.New("task not found")
)

// Gateway is the remote surface the store depends on.
type Gateway interface {
	ListBoards(ctx context.Context) ([]model.Board, error)
	GetBoard(ctx context.Context, id uuid.UUID) (*model.Board, error)
	ListColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error)
	ListTasks(ctx context.Context, boardID uuid.UUID) ([]model.Task, error)
	CreateBoard(ctx context.Context, name, description string) (*model.Board, error)
	DeleteBoard(ctx context.Context, id uuid.UUID) error
	CreateTask(ctx context.Context, task model.Task) (*model.Task, error)
	UpdateTask(ctx context.Context, task model.Task) (*model.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// Store is the in-memory cache of boards, columns and tasks for the active
// board, and the single source of truth for the UI. Local state changes only
// after the corresponding remote call succeeds; a failed call leaves the
// cache untouched.
type Store struct {
	gateway Gateway

	mu      sync.RWMutex
	boards  []model.Board
	active  *model.Board
	columns []model.Column
	tasks   []model.Task

	// loadSeq guards against a stale LoadBoard response overwriting the
	// result of a newer selection.
	loadSeq uint64
}

func New(gateway Gateway) *Store {
	return &Store{gateway: gateway}
}

// LoadBoards fetches the board list and, if it is non-empty, activates the
// first board.
func (s *Store) LoadBoards(ctx context.Context) error {
	boards, err := s.gateway.ListBoards(ctx)
	if err != nil {
		return fmt.Errorf("load boards: %w", err)
	}

	s.mu.Lock()
	s.boards = boards
	s.mu.Unlock()

	if len(boards) == 0 {
		return nil
	}
	return s.LoadBoard(ctx, boards[0].ID)
}

// LoadBoard fetches the board, its columns and its tasks concurrently and
// applies the combined result atomically. A failure in any fetch fails the
// whole operation and leaves the previous board's data in place. A result
// that was superseded by a newer load is discarded.
func (s *Store) LoadBoard(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	var (
		board   *model.Board
		columns []model.Column
		tasks   []model.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		board, err = s.gateway.GetBoard(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		columns, err = s.gateway.ListColumns(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.gateway.ListTasks(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load board %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq {
		log.WithField("board", id).Debug("store: discarding superseded board load")
		return nil
	}
	s.active = board
	s.columns = columns
	s.tasks = tasks
	return nil
}

// CreateBoard creates a board remotely, appends it to the board list, makes
// it active and loads its freshly seeded columns.
func (s *Store) CreateBoard(ctx context.Context, name, description string) (*model.Board, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	board, err := s.gateway.CreateBoard(ctx, name, description)
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	s.mu.Lock()
	s.boards = append(s.boards, *board)
	s.mu.Unlock()

	if err := s.LoadBoard(ctx, board.ID); err != nil {
		return board, err
	}
	return board, nil
}

// DeleteBoard deletes a board remotely and removes it locally. If the
// deleted board was active and other boards remain, the first remaining
// board is activated; deleting the sole board leaves no active board.
func (s *Store) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	if err := s.gateway.DeleteBoard(ctx, id); err != nil {
		return fmt.Errorf("delete board: %w", err)
	}

	s.mu.Lock()
	remaining := s.boards[:0:0]
	for _, b := range s.boards {
		if b.ID != id {
			remaining = append(remaining, b)
		}
	}
	s.boards = remaining

	wasActive := s.active != nil && s.active.ID == id
	var next *uuid.UUID
	if wasActive {
		s.active = nil
		s.columns = nil
		s.tasks = nil
		if len(remaining) > 0 {
			next = &remaining[0].ID
		}
	}
	s.mu.Unlock()

	if next != nil {
		return s.LoadBoard(ctx, *next)
	}
	return nil
}

// CreateTask creates a task on the active board. The local task list grows
// only after the remote create succeeded.
func (s *Store) CreateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	if active == nil {
		return nil, ErrNoActiveBoard
	}
	task.BoardID = active.ID

	created, err := s.gateway.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, *created)
	s.mu.Unlock()
	return created, nil
}

// UpdateTask replaces a task's full record. The local record is replaced by
// the server's response only after the remote update succeeded.
func (s *Store) UpdateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	updated, err := s.gateway.UpdateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == updated.ID {
			s.tasks[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// DeleteTask removes a task remotely, then locally.
func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.gateway.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.mu.Lock()
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()
	return nil
}

// MoveTask reassigns a task to another column by sending its full record
// with the column replaced. The local column assignment changes only after
// the server confirmed the move. Moving a task onto its current column is a
// no-op and issues no call.
func (s *Store) MoveTask(ctx context.Context, taskID, columnID uuid.UUID) error {
	s.mu.RLock()
	var moved *model.Task
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			t := s.tasks[i]
			moved = &t
			break
		}
	}
	s.mu.RUnlock()

	if moved == nil {
		return ErrTaskNotFound
	}
	if moved.ColumnID == columnID {
		return nil
	}

	moved.ColumnID = columnID
	if _, err := s.gateway.UpdateTask(ctx, *moved); err != nil {
		return fmt.Errorf("move task: %w", err)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i].ColumnID = columnID
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Reset discards all cached state. Called on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = nil
	s.active = nil
	s.columns = nil
	s.tasks = nil
	s.loadSeq++
}

// Boards returns a copy of the board list.
func (s *Store) Boards() []model.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Board(nil), s.boards...)
}

// ActiveBoard returns a copy of the active board, or nil.
func (s *Store) ActiveBoard() *model.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil
	}
	b := *s.active
	return &b
}

// Columns returns a copy of the active board's columns.
func (s *Store) Columns() []model.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Column(nil), s.columns...)
}

// Tasks returns a copy of the active board's tasks.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.tasks...)
}

// Task returns a copy of the task with the given id, if it belongs to the
// active board.
func (s *Store) Task(id uuid.UUID) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}
