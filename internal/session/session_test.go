package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow/internal/api"
	"taskflow/internal/model"
	"taskflow/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory CredentialStore for tests.
type memStore struct {
	entries map[string]string
	failSet error
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]string{}}
}

func (s *memStore) Get(key string) (string, bool, error) {
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *memStore) Set(key, value string) error {
	if s.failSet != nil {
		return s.failSet
	}
	s.entries[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	delete(s.entries, key)
	return nil
}

func authServer(t *testing.T, creds api.Credentials) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(creds)
	}))
}

func TestLogin_EstablishesAndPersistsSession(t *testing.T) {
	user := model.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	srv := authServer(t, api.Credentials{Token: "tok1", User: user})
	defer srv.Close()

	creds := newMemStore()
	mgr := session.NewManager(creds)
	mgr.SetGateway(api.New(srv.URL, api.WithToken(mgr.Token)))

	s, err := mgr.Login(context.Background(), "alice", "pw")

	require.NoError(t, err)
	assert.Equal(t, "tok1", s.Token)
	assert.Equal(t, "alice", s.User.Username)
	assert.Equal(t, "tok1", mgr.Token())

	// Both durable entries are written.
	token, ok, _ := creds.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "tok1", token)
	stored, ok, _ := creds.Get("user")
	assert.True(t, ok)
	assert.Contains(t, stored, "alice")
}

func TestLogin_FailureLeavesNoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid username or password"})
	}))
	defer srv.Close()

	creds := newMemStore()
	mgr := session.NewManager(creds)
	mgr.SetGateway(api.New(srv.URL, api.WithToken(mgr.Token)))

	_, err := mgr.Login(context.Background(), "alice", "wrong")

	var authErr *api.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid username or password", authErr.Message)
	assert.Nil(t, mgr.Current())
	assert.Empty(t, mgr.Token())
	assert.Empty(t, creds.entries)
}

func TestLogin_PersistFailureKeepsInMemorySession(t *testing.T) {
	srv := authServer(t, api.Credentials{Token: "tok1", User: model.User{Username: "alice"}})
	defer srv.Close()

	creds := newMemStore()
	creds.failSet = errors.New("disk full")
	mgr := session.NewManager(creds)
	mgr.SetGateway(api.New(srv.URL, api.WithToken(mgr.Token)))

	s, err := mgr.Login(context.Background(), "alice", "pw")

	// Persistence is best effort; the login itself still succeeds.
	require.NoError(t, err)
	assert.Equal(t, "tok1", s.Token)
	assert.Equal(t, "tok1", mgr.Token())
}

func TestRegister_EstablishesSession(t *testing.T) {
	user := model.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	srv := authServer(t, api.Credentials{Token: "tok2", User: user})
	defer srv.Close()

	mgr := session.NewManager(newMemStore())
	mgr.SetGateway(api.New(srv.URL, api.WithToken(mgr.Token)))

	s, err := mgr.Register(context.Background(), "bob", "bob@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, "tok2", s.Token)
	assert.Equal(t, "bob", mgr.Current().User.Username)
}

func TestRestore_RebuildsSessionFromStore(t *testing.T) {
	user := model.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	userJSON, err := json.Marshal(user)
	require.NoError(t, err)

	creds := newMemStore()
	creds.entries["token"] = "tok1"
	creds.entries["user"] = string(userJSON)

	mgr := session.NewManager(creds)
	s := mgr.Restore()

	require.NotNil(t, s)
	assert.Equal(t, "tok1", s.Token)
	assert.Equal(t, user.ID, s.User.ID)
	assert.Equal(t, "tok1", mgr.Token())
}

func TestRestore_MissingEntryMeansNoSession(t *testing.T) {
	creds := newMemStore()
	creds.entries["token"] = "tok1" // user entry missing

	mgr := session.NewManager(creds)

	assert.Nil(t, mgr.Restore())
	assert.Empty(t, mgr.Token())
}

func TestRestore_CorruptUserEntry(t *testing.T) {
	creds := newMemStore()
	creds.entries["token"] = "tok1"
	creds.entries["user"] = "{not json"

	mgr := session.NewManager(creds)

	assert.Nil(t, mgr.Restore())
	assert.Nil(t, mgr.Current())
}

func TestLogout_ClearsDurableAndMemoryState(t *testing.T) {
	user := model.User{ID: uuid.New(), Username: "alice"}
	srv := authServer(t, api.Credentials{Token: "tok1", User: user})
	defer srv.Close()

	creds := newMemStore()
	mgr := session.NewManager(creds)
	mgr.SetGateway(api.New(srv.URL, api.WithToken(mgr.Token)))

	_, err := mgr.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	require.NoError(t, mgr.Logout())

	assert.Nil(t, mgr.Current())
	assert.Empty(t, mgr.Token())
	_, ok, _ := creds.Get("token")
	assert.False(t, ok)
	_, ok, _ = creds.Get("user")
	assert.False(t, ok)
}
