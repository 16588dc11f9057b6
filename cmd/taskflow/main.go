// Command taskflow is a terminal client for a TaskFlow board server. It
// authenticates against the remote API, caches the active board locally and
// exposes board and task operations, including cross-column moves.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/editor"
	"taskflow/internal/filter"
	"taskflow/internal/model"
	"taskflow/internal/placement"
	"taskflow/internal/session"
	"taskflow/internal/store"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

const usage = `Usage: taskflow <command> [flags]

Commands:
  register    create an account and log in
  login       log in and persist the session
  logout      clear the persisted session
  whoami      show the current user
  boards      list boards
  board       create or delete a board (board create | board delete)
  show        show the active board's columns and tasks
  task        create, edit or delete a task (task add | task edit | task rm)
  move        move a task to another column
`

type app struct {
	cfg      *config.Config
	sessions *session.Manager
	store    *store.Store
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()

	creds, err := session.OpenKVStore(cfg.StatePath)
	if err != nil {
		fail(err)
	}
	defer creds.Close()

	sessions := session.NewManager(creds)
	gateway := api.New(cfg.APIBaseURL, api.WithToken(sessions.Token))
	sessions.SetGateway(gateway)

	a := &app{
		cfg:      cfg,
		sessions: sessions,
		store:    store.New(gateway),
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "register":
		err = a.register(ctx, args)
	case "login":
		err = a.login(ctx, args)
	case "logout":
		err = a.logout()
	case "whoami":
		err = a.whoami()
	case "boards":
		err = a.listBoards(ctx)
	case "board":
		err = a.board(ctx, args)
	case "show":
		err = a.show(ctx, args)
	case "task":
		err = a.task(ctx, args)
	case "move":
		err = a.move(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "taskflow:", err)
	os.Exit(1)
}

func (a *app) register(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("register", pflag.ExitOnError)
	username := flags.String("username", "", "account name")
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	flags.Parse(args)

	s, err := a.sessions.Register(ctx, *username, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("registered and logged in as %s\n", s.User.Username)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("login", pflag.ExitOnError)
	username := flags.String("username", "", "account name")
	password := flags.String("password", "", "account password")
	flags.Parse(args)

	s, err := a.sessions.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", s.User.Username)
	return nil
}

func (a *app) logout() error {
	if err := a.sessions.Logout(); err != nil {
		return err
	}
	a.store.Reset()
	fmt.Println("logged out")
	return nil
}

func (a *app) whoami() error {
	s := a.sessions.Restore()
	if s == nil {
		return fmt.Errorf("not logged in")
	}
	fmt.Printf("%s <%s>\n", s.User.Username, s.User.Email)
	return nil
}

// requireSession restores the persisted session; commands that talk to the
// board API refuse to run without one.
func (a *app) requireSession() error {
	if a.sessions.Restore() == nil {
		return fmt.Errorf("not logged in, run 'taskflow login' first")
	}
	return nil
}

func (a *app) listBoards(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.store.LoadBoards(ctx); err != nil {
		return err
	}

	boards := a.store.Boards()
	if len(boards) == 0 {
		fmt.Println("no boards, run 'taskflow board create' to get started")
		return nil
	}

	active := a.store.ActiveBoard()
	for _, b := range boards {
		marker := " "
		if active != nil && active.ID == b.ID {
			marker = "*"
		}
		fmt.Printf("%s %s  %s\n", marker, b.ID, b.Name)
	}
	return nil
}

func (a *app) board(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: taskflow board <create|delete> [flags]")
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	switch args[0] {
	case "create":
		flags := pflag.NewFlagSet("board create", pflag.ExitOnError)
		name := flags.String("name", "", "board name (required)")
		description := flags.String("description", "", "board description")
		flags.Parse(args[1:])

		form := editor.NewBoardForm(a.store)
		form.Open()
		form.SetDraft(editor.BoardDraft{Name: *name, Description: *description})
		if !form.CanSubmit() {
			return store.ErrNameRequired
		}
		board, err := form.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("created board %s (%s)\n", board.Name, board.ID)
		return nil

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: taskflow board delete <board-id>")
		}
		id, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid board id: %w", err)
		}
		if err := a.store.LoadBoards(ctx); err != nil {
			return err
		}
		if err := a.store.DeleteBoard(ctx, id); err != nil {
			return err
		}
		fmt.Println("board deleted")
		return nil

	default:
		return fmt.Errorf("unknown board command %q", args[0])
	}
}

// activate loads the requested board, or the first one when no id is given.
func (a *app) activate(ctx context.Context, boardID string) error {
	if boardID == "" {
		return a.store.LoadBoards(ctx)
	}
	id, err := uuid.Parse(boardID)
	if err != nil {
		return fmt.Errorf("invalid board id: %w", err)
	}
	if err := a.store.LoadBoards(ctx); err != nil {
		return err
	}
	return a.store.LoadBoard(ctx, id)
}

func (a *app) show(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("show", pflag.ExitOnError)
	boardID := flags.String("board", "", "board id (default: first board)")
	search := flags.String("search", "", "show only tasks matching this query")
	tag := flags.String("tag", filter.AllTags, "show only tasks carrying this tag")
	flags.Parse(args)

	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.activate(ctx, *boardID); err != nil {
		return err
	}

	board := a.store.ActiveBoard()
	if board == nil {
		fmt.Println("no boards, run 'taskflow board create' to get started")
		return nil
	}

	if board.Description != "" {
		fmt.Printf("%s: %s\n", board.Name, board.Description)
	} else {
		fmt.Println(board.Name)
	}
	visible := filter.VisibleTasks(a.store.Tasks(), *search, *tag)
	for _, col := range a.store.Columns() {
		fmt.Printf("\n%s (%d)\n", col.Name, filter.CountByColumn(visible, col.ID))
		for _, t := range filter.ByColumn(visible, col.ID) {
			line := fmt.Sprintf("  [%s] %s  %s", t.Priority, t.ID, t.Title)
			if len(t.Tags) > 0 {
				line += "  #" + strings.Join(t.Tags, " #")
			}
			if t.DueDate != nil && !t.DueDate.IsZero() {
				line += "  due " + t.DueDate.String()
			}
			fmt.Println(line)
		}
	}
	return nil
}

// resolveColumn accepts a column id or a case-insensitive column name of the
// active board.
func (a *app) resolveColumn(ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	for _, col := range a.store.Columns() {
		if strings.EqualFold(col.Name, ref) {
			return col.ID, nil
		}
	}
	return uuid.Nil, fmt.Errorf("no column %q on the active board", ref)
}

func (a *app) task(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: taskflow task <add|edit|rm> [flags]")
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	switch args[0] {
	case "add":
		flags := pflag.NewFlagSet("task add", pflag.ExitOnError)
		boardID := flags.String("board", "", "board id (default: first board)")
		title := flags.String("title", "", "task title (required)")
		description := flags.String("description", "", "task description")
		column := flags.String("column", "", "target column name or id (default: first column)")
		priority := flags.String("priority", string(model.PriorityMedium), "LOW, MEDIUM, HIGH or URGENT")
		due := flags.String("due", "", "due date, YYYY-MM-DD")
		tags := flags.StringSlice("tag", nil, "task tags (repeatable)")
		flags.Parse(args[1:])

		if err := a.activate(ctx, *boardID); err != nil {
			return err
		}
		columns := a.store.Columns()
		if len(columns) == 0 {
			return fmt.Errorf("the active board has no columns")
		}

		ctrl := editor.NewController(a.store)
		ctrl.OpenCreate(columns[0].ID)

		draft := ctrl.Draft()
		draft.Title = *title
		draft.Description = *description
		draft.Priority = model.Priority(*priority)
		draft.DueDate = *due
		draft.Tags = *tags
		if *column != "" {
			colID, err := a.resolveColumn(*column)
			if err != nil {
				return err
			}
			draft.ColumnID = colID
		}
		ctrl.SetDraft(draft)

		task, err := ctrl.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("created task %s (%s)\n", task.Title, task.ID)
		return nil

	case "edit":
		if len(args) < 2 {
			return fmt.Errorf("usage: taskflow task edit <task-id> [flags]")
		}
		taskID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}

		flags := pflag.NewFlagSet("task edit", pflag.ExitOnError)
		boardID := flags.String("board", "", "board id (default: first board)")
		title := flags.String("title", "", "new title")
		description := flags.String("description", "", "new description")
		column := flags.String("column", "", "new column name or id")
		priority := flags.String("priority", "", "new priority")
		due := flags.String("due", "", "new due date, YYYY-MM-DD")
		tags := flags.StringSlice("tag", nil, "replacement tags (repeatable)")
		flags.Parse(args[2:])

		if err := a.activate(ctx, *boardID); err != nil {
			return err
		}
		task, ok := a.store.Task(taskID)
		if !ok {
			return store.ErrTaskNotFound
		}

		ctrl := editor.NewController(a.store)
		ctrl.OpenEdit(task)

		draft := ctrl.Draft()
		if flags.Changed("title") {
			draft.Title = *title
		}
		if flags.Changed("description") {
			draft.Description = *description
		}
		if flags.Changed("priority") {
			draft.Priority = model.Priority(*priority)
		}
		if flags.Changed("due") {
			draft.DueDate = *due
		}
		if flags.Changed("tag") {
			draft.Tags = *tags
		}
		if flags.Changed("column") {
			colID, err := a.resolveColumn(*column)
			if err != nil {
				return err
			}
			draft.ColumnID = colID
		}
		ctrl.SetDraft(draft)

		updated, err := ctrl.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("updated task %s\n", updated.ID)
		return nil

	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: taskflow task rm <task-id>")
		}
		taskID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}
		if err := a.activate(ctx, ""); err != nil {
			return err
		}
		if err := a.store.DeleteTask(ctx, taskID); err != nil {
			return err
		}
		fmt.Println("task deleted")
		return nil

	default:
		return fmt.Errorf("unknown task command %q", args[0])
	}
}

func (a *app) move(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("move", pflag.ExitOnError)
	boardID := flags.String("board", "", "board id (default: first board)")
	flags.Parse(args)
	rest := flags.Args()

	if len(rest) < 2 {
		return fmt.Errorf("usage: taskflow move <task-id> <column-name-or-id>")
	}
	if err := a.requireSession(); err != nil {
		return err
	}

	taskID, err := uuid.Parse(rest[0])
	if err != nil {
		return fmt.Errorf("invalid task id: %w", err)
	}

	if err := a.activate(ctx, *boardID); err != nil {
		return err
	}
	colID, err := a.resolveColumn(rest[1])
	if err != nil {
		return err
	}

	engine := placement.NewEngine(a.store)
	engine.BeginDrag(taskID)
	if err := engine.Drop(ctx, colID); err != nil {
		return err
	}
	fmt.Println("task moved")
	return nil
}
