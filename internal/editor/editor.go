// Package editor manages the transient create/edit state for boards and
// tasks before commit. The editor is a tagged state machine: closed, creating
// from a fresh draft, or editing an existing task.
package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"taskflow/internal/model"

	"github.com/google/uuid"
)

var (
	// ErrTitleRequired blocks a commit while the draft title is empty.
	ErrTitleRequired = errors.New("task title is required")

	// ErrEditorClosed is returned when Submit is called with no open draft.
	ErrEditorClosed = errors.New("editor is not open")

	// ErrInvalidDueDate is returned when the due date input does not parse
	// as YYYY-MM-DD.
	ErrInvalidDueDate = errors.New("due date must be YYYY-MM-DD")
)

// Mode tags the editor state.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreating
	ModeEditing
)

// TaskDraft holds the uncommitted field values of the task form. DueDate is
// the raw form input and stays a string until commit.
type TaskDraft struct {
	Title       string
	Description string
	ColumnID    uuid.UUID
	DueDate     string
	Priority    model.Priority
	Tags        []string
}

func emptyDraft() TaskDraft {
	return TaskDraft{Priority: model.PriorityMedium, Tags: []string{}}
}

// TaskWriter is the store surface the controller commits through.
type TaskWriter interface {
	CreateTask(ctx context.Context, task model.Task) (*model.Task, error)
	UpdateTask(ctx context.Context, task model.Task) (*model.Task, error)
}

// Controller owns the task editor state. Create and edit mode are mutually
// exclusive: opening one discards the other.
type Controller struct {
	mu    sync.Mutex
	store TaskWriter
	mode  Mode
	draft TaskDraft
	base  model.Task // record being edited; zero outside ModeEditing
}

func NewController(store TaskWriter) *Controller {
	return &Controller{store: store, draft: emptyDraft()}
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() TaskDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.draft
	tags := make([]string, len(c.draft.Tags))
	copy(tags, c.draft.Tags)
	d.Tags = tags
	return d
}

// SetDraft replaces the draft with edited form values. Mode is unaffected.
func (c *Controller) SetDraft(d TaskDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// OpenCreate enters create mode with a fresh draft pre-assigned to the given
// column (the first column of the active board, or uuid.Nil when the board
// has none).
func (c *Controller) OpenCreate(defaultColumn uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeCreating
	c.base = model.Task{}
	c.draft = emptyDraft()
	c.draft.ColumnID = defaultColumn
}

// OpenEdit enters edit mode with the draft populated from the task's current
// field values.
func (c *Controller) OpenEdit(task model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeEditing
	c.base = task
	due := ""
	if task.DueDate != nil && !task.DueDate.IsZero() {
		due = task.DueDate.String()
	}
	c.draft = TaskDraft{
		Title:       task.Title,
		Description: task.Description,
		ColumnID:    task.ColumnID,
		DueDate:     due,
		Priority:    task.Priority,
		Tags:        append([]string(nil), task.Tags...),
	}
}

// Cancel discards the draft and closes the editor without remote calls.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeClosed
	c.base = model.Task{}
	c.draft = emptyDraft()
}

// CanSubmit reports whether the commit action is enabled: an open editor
// with a non-empty title.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode != ModeClosed && c.draft.Title != ""
}

// Submit commits the open draft: create mode invokes the store's CreateTask,
// edit mode its UpdateTask with the full edited record. On success the
// editor closes and the draft resets; on failure it stays open and dirty.
func (c *Controller) Submit(ctx context.Context) (*model.Task, error) {
	c.mu.Lock()
	mode := c.mode
	draft := c.draft
	base := c.base
	c.mu.Unlock()

	if mode == ModeClosed {
		return nil, ErrEditorClosed
	}
	if draft.Title == "" {
		return nil, ErrTitleRequired
	}

	record := base
	record.Title = draft.Title
	record.Description = draft.Description
	record.ColumnID = draft.ColumnID
	record.Priority = draft.Priority
	record.Tags = draft.Tags

	if draft.DueDate == "" {
		record.DueDate = nil
	} else {
		t, err := time.Parse("2006-01-02", draft.DueDate)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		d := model.Date{Time: t}
		record.DueDate = &d
	}

	var (
		committed *model.Task
		err       error
	)
	switch mode {
	case ModeCreating:
		committed, err = c.store.CreateTask(ctx, record)
	case ModeEditing:
		committed, err = c.store.UpdateTask(ctx, record)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.mode = ModeClosed
	c.base = model.Task{}
	c.draft = emptyDraft()
	c.mu.Unlock()
	return committed, nil
}

// BoardDraft holds the uncommitted field values of the board form.
type BoardDraft struct {
	Name        string
	Description string
}

// BoardCreator is the store surface the board form commits through.
type BoardCreator interface {
	CreateBoard(ctx context.Context, name, description string) (*model.Board, error)
}

// BoardForm owns the new-board modal state.
type BoardForm struct {
	mu    sync.Mutex
	store BoardCreator
	open  bool
	draft BoardDraft
}

func NewBoardForm(store BoardCreator) *BoardForm {
	return &BoardForm{store: store}
}

func (f *BoardForm) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
	f.draft = BoardDraft{}
}

func (f *BoardForm) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *BoardForm) Draft() BoardDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *BoardForm) SetDraft(d BoardDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

// CanSubmit reports whether the board can be created: the name is required.
func (f *BoardForm) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open && f.draft.Name != ""
}

func (f *BoardForm) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.draft = BoardDraft{}
}

// Submit creates the board from the draft. On success the form closes and
// the draft resets; on failure it stays open.
func (f *BoardForm) Submit(ctx context.Context) (*model.Board, error) {
	f.mu.Lock()
	draft := f.draft
	open := f.open
	f.mu.Unlock()

	if !open {
		return nil, ErrEditorClosed
	}

	board, err := f.store.CreateBoard(ctx, draft.Name, draft.Description)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.open = false
	f.draft = BoardDraft{}
	f.mu.Unlock()
	return board, nil
}
