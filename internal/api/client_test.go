package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow/internal/api"
	"taskflow/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_InjectsBearerTokenWhenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.Board{})
	}))
	defer srv.Close()

	client := api.New(srv.URL, api.WithToken(func() string { return "tok1" }))
	_, err := client.ListBoards(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok1", gotAuth)
}

func TestClient_OmitsAuthorizationWhenNoToken(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		json.NewEncoder(w).Encode(api.Credentials{Token: "tok1"})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.Login(context.Background(), "alice", "pw")

	require.NoError(t, err)
	assert.False(t, hasAuth)
	assert.Empty(t, gotAuth)
}

func TestClient_Login(t *testing.T) {
	userID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "pw", body["password"])

		json.NewEncoder(w).Encode(api.Credentials{
			Token: "tok1",
			User:  model.User{ID: userID, Username: "alice", Email: "alice@example.com"},
		})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	creds, err := client.Login(context.Background(), "alice", "pw")

	require.NoError(t, err)
	assert.Equal(t, "tok1", creds.Token)
	assert.Equal(t, "alice", creds.User.Username)
	assert.Equal(t, userID, creds.User.ID)
}

func TestClient_LoginSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid username or password"})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.Login(context.Background(), "alice", "wrong")

	var authErr *api.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid username or password", authErr.Message)
}

func TestClient_LoginFallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.Login(context.Background(), "alice", "pw")

	var authErr *api.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Authentication failed", authErr.Message)
}

func TestClient_RegisterSendsAllFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "alice@example.com", body["email"])
		assert.Equal(t, "pw", body["password"])

		json.NewEncoder(w).Encode(api.Credentials{Token: "tok1"})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.Register(context.Background(), "alice", "alice@example.com", "pw")

	require.NoError(t, err)
}

func TestClient_NonSuccessStatusBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Board not found"})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.GetBoard(context.Background(), uuid.New())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Board not found", apiErr.Message)
}

func TestClient_TransportFailureHasZeroStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := api.New(srv.URL)
	_, err := client.ListBoards(context.Background())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestClient_BoardAndTaskPaths(t *testing.T) {
	boardID := uuid.New()
	taskID := uuid.New()

	var gotRequests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequests = append(gotRequests, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/tasks" || r.URL.Path == "/tasks/"+taskID.String():
			json.NewEncoder(w).Encode(model.Task{ID: taskID})
		case r.URL.Path == "/boards":
			json.NewEncoder(w).Encode(model.Board{ID: boardID})
		default:
			json.NewEncoder(w).Encode([]any{})
		}
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	ctx := context.Background()

	_, err := client.CreateBoard(ctx, "Roadmap", "Q3")
	require.NoError(t, err)
	_, err = client.ListColumns(ctx, boardID)
	require.NoError(t, err)
	_, err = client.ListTasks(ctx, boardID)
	require.NoError(t, err)
	_, err = client.CreateTask(ctx, model.Task{Title: "Fix bug", BoardID: boardID})
	require.NoError(t, err)
	_, err = client.UpdateTask(ctx, model.Task{ID: taskID, Title: "Fix bug"})
	require.NoError(t, err)
	require.NoError(t, client.DeleteTask(ctx, taskID))
	require.NoError(t, client.DeleteBoard(ctx, boardID))

	assert.Equal(t, []string{
		"POST /boards",
		"GET /boards/" + boardID.String() + "/columns",
		"GET /boards/" + boardID.String() + "/tasks",
		"POST /tasks",
		"PUT /tasks/" + taskID.String(),
		"DELETE /tasks/" + taskID.String(),
		"DELETE /boards/" + boardID.String(),
	}, gotRequests)
}

func TestClient_TaskWireFormat(t *testing.T) {
	due := model.NewDate(2026, 9, 1)
	boardID, columnID := uuid.New(), uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Fix bug", body["title"])
		assert.Equal(t, boardID.String(), body["boardId"])
		assert.Equal(t, columnID.String(), body["columnId"])
		assert.Equal(t, "HIGH", body["priority"])
		assert.Equal(t, "2026-09-01", body["dueDate"])
		assert.Equal(t, []any{"bug"}, body["tags"])

		json.NewEncoder(w).Encode(model.Task{ID: uuid.New()})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.CreateTask(context.Background(), model.Task{
		BoardID:  boardID,
		ColumnID: columnID,
		Title:    "Fix bug",
		Priority: model.PriorityHigh,
		Tags:     []string{"bug"},
		DueDate:  &due,
	})

	require.NoError(t, err)
}
