package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"taskflow/internal/model"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// genericAuthFailure mirrors the fallback shown when the server response
// carries no message of its own.
const genericAuthFailure = "Authentication failed"

// Client is the single choke point for all remote calls. Every request is
// sent with an Authorization bearer header when the token provider returns a
// non-empty token; unauthenticated calls (login, register) pass through
// unchanged.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
}

type Option func(*Client)

// WithToken sets the token provider consulted on every outgoing request.
func WithToken(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		token:   func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials is the body returned by the auth endpoints.
type Credentials struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*Credentials, error) {
	var creds Credentials
	err := c.do(ctx, http.MethodPost, "/auth/register", registerRequest{username, email, password}, &creds)
	if err != nil {
		return nil, asAuthError(err)
	}
	return &creds, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	var creds Credentials
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{username, password}, &creds)
	if err != nil {
		return nil, asAuthError(err)
	}
	return &creds, nil
}

func (c *Client) ListBoards(ctx context.Context) ([]model.Board, error) {
	var boards []model.Board
	if err := c.do(ctx, http.MethodGet, "/boards", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

func (c *Client) GetBoard(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := c.do(ctx, http.MethodGet, "/boards/"+id.String(), nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *Client) ListColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID.String()+"/columns", nil, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

func (c *Client) ListTasks(ctx context.Context, boardID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID.String()+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

type createBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Client) CreateBoard(ctx context.Context, name, description string) (*model.Board, error) {
	var board model.Board
	if err := c.do(ctx, http.MethodPost, "/boards", createBoardRequest{name, description}, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *Client) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/boards/"+id.String(), nil, nil)
}

// CreateTask posts the task fields together with the owning board id.
func (c *Client) CreateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	var created model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTask sends the full task record (full replace).
func (c *Client) UpdateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	var updated model.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+task.ID.String(), task, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id.String(), nil, nil)
}

// errorBody is the shape of error responses from the remote API.
type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return &Error{Status: resp.StatusCode, Message: eb.Message}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

func asAuthError(err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Status != 0 {
		return &AuthError{Message: apiErr.Message}
	}
	return &AuthError{Message: genericAuthFailure}
}
